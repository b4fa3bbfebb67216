package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestNewResume_DefaultSections(t *testing.T) {
	r := NewResume("owner-1", "Dev Resume")

	assert.Equal(t, "owner-1", r.UserID)
	assert.Equal(t, "Dev Resume", r.Title)
	assert.Empty(t, r.ThumbnailLink)
	assert.Equal(t, ProfileInfo{}, r.ProfileInfo)
	assert.Equal(t, ContactInfo{}, r.ContactInfo)

	require.NotNil(t, r.WorkExperience)
	require.NotNil(t, r.Education)
	require.NotNil(t, r.Skills)
	require.NotNil(t, r.Projects)
	require.NotNil(t, r.Certifications)
	require.NotNil(t, r.Languages)
	require.NotNil(t, r.Interests)
	assert.Len(t, r.WorkExperience, 0)
	assert.Len(t, r.Interests, 0)
}

func TestResumePatch_ApplyOnlyPresentFields(t *testing.T) {
	r := NewResume("owner-1", "Old title")
	r.ContactInfo = ContactInfo{Email: "old@x.com", Phone: "123"}
	r.Skills = []Skill{{Name: "Go", Progress: 80}}

	patch := &ResumePatch{
		Title:       ptr("New title"),
		ContactInfo: &ContactInfo{Email: "new@x.com"},
	}
	patch.Apply(r)

	assert.Equal(t, "New title", r.Title)
	// whole-section replace: phone is blanked, not merged
	assert.Equal(t, ContactInfo{Email: "new@x.com"}, r.ContactInfo)
	// untouched section keeps its value
	assert.Equal(t, []Skill{{Name: "Go", Progress: 80}}, r.Skills)
	assert.Equal(t, "owner-1", r.UserID)
}

func TestResumePatch_ApplyIsIdempotent(t *testing.T) {
	patch := &ResumePatch{
		Title:     ptr("Backend Engineer"),
		Interests: ptr([]string{"chess", "running"}),
		WorkExperience: ptr([]WorkExperience{
			{Company: "Acme", Role: "Dev", StartDate: "2020", EndDate: "2023"},
		}),
	}

	once := NewResume("owner-1", "t")
	patch.Apply(once)

	twice := NewResume("owner-1", "t")
	patch.Apply(twice)
	patch.Apply(twice)

	assert.Equal(t, once, twice)
}

func TestResumePatch_ApplyDoesNotAliasInput(t *testing.T) {
	interests := []string{"a"}
	patch := &ResumePatch{Interests: &interests}

	r := NewResume("owner-1", "t")
	patch.Apply(r)
	interests[0] = "mutated"

	assert.Equal(t, []string{"a"}, r.Interests)
}

func TestResumePatch_EmptySliceClearsSection(t *testing.T) {
	r := NewResume("owner-1", "t")
	r.Skills = []Skill{{Name: "Go"}}

	(&ResumePatch{Skills: ptr([]Skill{})}).Apply(r)

	require.NotNil(t, r.Skills)
	assert.Len(t, r.Skills, 0)
}

func TestImageLinks_Apply(t *testing.T) {
	r := NewResume("owner-1", "t")
	r.ThumbnailLink = "old-thumb"
	r.ProfileInfo.FullName = "Ann"

	ImageLinks{ProfilePreviewURL: "https://cdn/x.png"}.Apply(r)

	assert.Equal(t, "old-thumb", r.ThumbnailLink, "empty thumbnail must be ignored")
	assert.Equal(t, "https://cdn/x.png", r.ProfileInfo.ProfilePreviewURL)
	assert.Equal(t, "Ann", r.ProfileInfo.FullName)
}

func TestUser_SummaryOmitsPassword(t *testing.T) {
	u := &User{ID: "u1", Name: "Ann", Email: "ann@x.com", PasswordHash: "$2a$..."}

	assert.Equal(t, UserSummary{ID: "u1", Name: "Ann", Email: "ann@x.com"}, u.Summary())
}
