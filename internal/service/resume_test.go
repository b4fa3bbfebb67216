package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/resume-builder/internal/apperror"
	"github.com/sakif/resume-builder/internal/model"
)

// =========================================================================
// FAKE REPOSITORY
// =========================================================================

// fakeResumeRepo stores resumes in memory and applies the same ownership
// filter the real stores do.
type fakeResumeRepo struct {
	resumes map[string]*model.Resume
	nextID  int
	clock   time.Time
	// set to a non-nil error to simulate a database failure
	listErr error
}

func newFakeResumeRepo() *fakeResumeRepo {
	return &fakeResumeRepo{
		resumes: make(map[string]*model.Resume),
		clock:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// tick advances the fake clock so updatedAt values are strictly ordered.
func (f *fakeResumeRepo) tick() time.Time {
	f.clock = f.clock.Add(time.Second)
	return f.clock
}

func (f *fakeResumeRepo) owned(ownerID, id string) (*model.Resume, error) {
	r, ok := f.resumes[id]
	if !ok || r.UserID != ownerID {
		return nil, apperror.NotFound("Resume")
	}
	return r, nil
}

func (f *fakeResumeRepo) CreateResume(_ context.Context, r *model.Resume) error {
	f.nextID++
	r.ID = fmt.Sprintf("resume-%d", f.nextID)
	r.CreatedAt = f.tick()
	r.UpdatedAt = r.CreatedAt
	stored := *r
	f.resumes[r.ID] = &stored
	return nil
}

func (f *fakeResumeRepo) ListResumesByOwner(_ context.Context, ownerID string) ([]model.Resume, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := []model.Resume{}
	for _, r := range f.resumes {
		if r.UserID == ownerID {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (f *fakeResumeRepo) GetResume(_ context.Context, ownerID, id string) (*model.Resume, error) {
	r, err := f.owned(ownerID, id)
	if err != nil {
		return nil, err
	}
	copied := *r
	return &copied, nil
}

func (f *fakeResumeRepo) UpdateResume(_ context.Context, ownerID, id string, patch *model.ResumePatch) (*model.Resume, error) {
	r, err := f.owned(ownerID, id)
	if err != nil {
		return nil, err
	}
	patch.Apply(r)
	r.UpdatedAt = f.tick()
	copied := *r
	return &copied, nil
}

func (f *fakeResumeRepo) UpdateResumeImages(_ context.Context, ownerID, id string, links model.ImageLinks) (*model.Resume, error) {
	r, err := f.owned(ownerID, id)
	if err != nil {
		return nil, err
	}
	links.Apply(r)
	r.UpdatedAt = f.tick()
	copied := *r
	return &copied, nil
}

func (f *fakeResumeRepo) DeleteResume(_ context.Context, ownerID, id string) error {
	if _, err := f.owned(ownerID, id); err != nil {
		return err
	}
	delete(f.resumes, id)
	return nil
}

func newTestResumeService(t *testing.T) (*ResumeService, *fakeResumeRepo) {
	t.Helper()
	repo := newFakeResumeRepo()
	return NewResumeService(repo, testLogger()), repo
}

func ptr[T any](v T) *T { return &v }

// =========================================================================
// CREATE
// =========================================================================

func TestResumeCreate_DefaultsEverySection(t *testing.T) {
	svc, _ := newTestResumeService(t)

	r, err := svc.Create(context.Background(), "u1", "  Dev Resume  ")
	require.NoError(t, err)

	assert.NotEmpty(t, r.ID)
	assert.Equal(t, "Dev Resume", r.Title)
	assert.Equal(t, "u1", r.UserID)
	assert.Equal(t, "", r.ThumbnailLink)
	assert.Equal(t, model.ProfileInfo{}, r.ProfileInfo)
	assert.Empty(t, r.Skills)
	assert.NotNil(t, r.Skills)
}

func TestResumeCreate_TitleRules(t *testing.T) {
	svc, _ := newTestResumeService(t)

	for _, title := range []string{"", "   ", strings.Repeat("t", MaxTitleLength+1)} {
		_, err := svc.Create(context.Background(), "u1", title)
		assert.True(t, errors.Is(err, apperror.ErrValidation), "title %q: %v", title, err)
	}
}

func TestResumeCreate_TitleLimitCountsCharacters(t *testing.T) {
	svc, _ := newTestResumeService(t)
	title := strings.Repeat("履", MaxTitleLength) // 600 bytes

	r, err := svc.Create(context.Background(), "u1", title)
	require.NoError(t, err)

	// update applies the same limit
	_, err = svc.Update(context.Background(), "u1", r.ID, &model.ResumePatch{Title: ptr(title)})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), "u1", title+"履")
	assert.True(t, errors.Is(err, apperror.ErrValidation))
}

// =========================================================================
// LIST / GET
// =========================================================================

func TestResumeListMine_OrderAndIsolation(t *testing.T) {
	svc, _ := newTestResumeService(t)
	ctx := context.Background()

	r1, _ := svc.Create(ctx, "ann", "R1")
	r2, _ := svc.Create(ctx, "ann", "R2")
	r3, _ := svc.Create(ctx, "ann", "R3")
	_, _ = svc.Create(ctx, "bob", "B1")

	for _, r := range []*model.Resume{r3, r1, r2} {
		_, err := svc.Update(ctx, "ann", r.ID, &model.ResumePatch{ThumbnailLink: ptr("x")})
		require.NoError(t, err)
	}

	list, err := svc.ListMine(ctx, "ann")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{r2.ID, r1.ID, r3.ID}, []string{list[0].ID, list[1].ID, list[2].ID})
}

func TestResumeListMine_RepoError(t *testing.T) {
	svc, repo := newTestResumeService(t)
	repo.listErr = errors.New("timeout")

	_, err := svc.ListMine(context.Background(), "ann")
	assert.Error(t, err)
}

func TestResumeGet_ForeignAndMissingLookTheSame(t *testing.T) {
	svc, _ := newTestResumeService(t)
	ctx := context.Background()
	r, _ := svc.Create(ctx, "ann", "mine")

	_, foreign := svc.Get(ctx, "bob", r.ID)
	_, missing := svc.Get(ctx, "ann", "nope")
	_, blank := svc.Get(ctx, "ann", "  ")

	for _, err := range []error{foreign, missing, blank} {
		assert.True(t, errors.Is(err, apperror.ErrNotFound), "got %v", err)
	}
	assert.Equal(t, foreign.Error(), missing.Error())
}

// =========================================================================
// UPDATE
// =========================================================================

func TestResumeUpdate_ReplacesOnlyPresentFields(t *testing.T) {
	svc, _ := newTestResumeService(t)
	ctx := context.Background()
	r, _ := svc.Create(ctx, "ann", "Dev")

	_, err := svc.Update(ctx, "ann", r.ID, &model.ResumePatch{
		ContactInfo: &model.ContactInfo{Email: "ann@x.com", Phone: "123"},
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, "ann", r.ID, &model.ResumePatch{
		Skills: ptr([]model.Skill{{Name: "Go", Progress: 80}}),
	})
	require.NoError(t, err)

	assert.Equal(t, "Dev", updated.Title)
	assert.Equal(t, "123", updated.ContactInfo.Phone)
	assert.Equal(t, []model.Skill{{Name: "Go", Progress: 80}}, updated.Skills)
}

func TestResumeUpdate_IsIdempotent(t *testing.T) {
	svc, _ := newTestResumeService(t)
	ctx := context.Background()
	r, _ := svc.Create(ctx, "ann", "Dev")

	patch := &model.ResumePatch{
		Title:     ptr("Senior Dev"),
		Languages: ptr([]model.Language{{Name: "English", Progress: 100}}),
	}
	first, err := svc.Update(ctx, "ann", r.ID, patch)
	require.NoError(t, err)
	second, err := svc.Update(ctx, "ann", r.ID, patch)
	require.NoError(t, err)

	first.UpdatedAt, second.UpdatedAt = time.Time{}, time.Time{}
	assert.Equal(t, first, second)
}

func TestResumeUpdate_Validation(t *testing.T) {
	svc, _ := newTestResumeService(t)
	ctx := context.Background()
	r, _ := svc.Create(ctx, "ann", "Dev")

	tests := []struct {
		name  string
		patch *model.ResumePatch
		field string
	}{
		{"progress above 100", &model.ResumePatch{Skills: ptr([]model.Skill{{Name: "Go", Progress: 101}})}, "skills[0].progress"},
		{"negative progress", &model.ResumePatch{Languages: ptr([]model.Language{{Name: "Go", Progress: -1}})}, "languages[0].progress"},
		{"blank title", &model.ResumePatch{Title: ptr("  ")}, "title"},
		{"long title", &model.ResumePatch{Title: ptr(strings.Repeat("t", 201))}, "title"},
		{"long summary", &model.ResumePatch{ProfileInfo: &model.ProfileInfo{Summary: strings.Repeat("s", 5001)}}, "profileInfo.summary"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Update(ctx, "ann", r.ID, tt.patch)

			var appErr *apperror.AppError
			require.True(t, errors.As(err, &appErr), "got %v", err)
			assert.True(t, errors.Is(err, apperror.ErrValidation))
			assert.Equal(t, tt.field, appErr.Field)
		})
	}

	got, err := svc.Get(ctx, "ann", r.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dev", got.Title, "rejected patches must not be stored")
}

func TestResumeUpdate_ForeignOwnerIsNotFound(t *testing.T) {
	svc, _ := newTestResumeService(t)
	ctx := context.Background()
	r, _ := svc.Create(ctx, "ann", "Dev")

	_, err := svc.Update(ctx, "bob", r.ID, &model.ResumePatch{Title: ptr("mine now")})
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}

// =========================================================================
// IMAGES / DELETE
// =========================================================================

func TestResumeUpdateImageLinks(t *testing.T) {
	svc, _ := newTestResumeService(t)
	ctx := context.Background()
	r, _ := svc.Create(ctx, "ann", "Dev")

	_, err := svc.UpdateImageLinks(ctx, "ann", r.ID, model.ImageLinks{ThumbnailLink: "thumb"})
	require.NoError(t, err)

	updated, err := svc.UpdateImageLinks(ctx, "ann", r.ID, model.ImageLinks{ProfilePreviewURL: " preview "})
	require.NoError(t, err)

	assert.Equal(t, "thumb", updated.ThumbnailLink)
	assert.Equal(t, "preview", updated.ProfileInfo.ProfilePreviewURL)
	assert.Equal(t, "Dev", updated.Title)

	_, err = svc.UpdateImageLinks(ctx, "bob", r.ID, model.ImageLinks{ThumbnailLink: "x"})
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}

func TestResumeDelete(t *testing.T) {
	svc, _ := newTestResumeService(t)
	ctx := context.Background()
	r, _ := svc.Create(ctx, "ann", "Dev")

	assert.True(t, errors.Is(svc.Delete(ctx, "bob", r.ID), apperror.ErrNotFound))
	require.NoError(t, svc.Delete(ctx, "ann", r.ID))

	_, err := svc.Get(ctx, "ann", r.ID)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
	assert.True(t, errors.Is(svc.Delete(ctx, "ann", r.ID), apperror.ErrNotFound))
}
