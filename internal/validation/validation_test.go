package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/resume-builder/internal/apperror"
	"github.com/sakif/resume-builder/internal/model"
)

type signup struct {
	Name  string `json:"name" validate:"required,max=10"`
	Email string `json:"email" validate:"required,email"`
}

func TestStruct_Valid(t *testing.T) {
	assert.NoError(t, Struct(signup{Name: "Ann", Email: "ann@x.com"}))
}

func TestStruct_ReportsJSONFieldName(t *testing.T) {
	err := Struct(signup{Name: "Ann", Email: "not-an-email"})
	require.Error(t, err)

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.True(t, errors.Is(err, apperror.ErrValidation))
	assert.Equal(t, "email", appErr.Field)
	assert.Equal(t, "email must be a valid email address", appErr.Message)
}

func TestStruct_Required(t *testing.T) {
	err := Struct(signup{Email: "ann@x.com"})

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "name is required", appErr.Message)
}

func TestStruct_NestedResumeSection(t *testing.T) {
	skills := []model.Skill{{Name: "Go", Progress: 50}, {Name: "Rust", Progress: 101}}
	err := Struct(&model.ResumePatch{Skills: &skills})

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "skills[1].progress", appErr.Field)
	assert.Equal(t, "skills[1].progress must be at most 100", appErr.Message)
}

func TestStruct_EmbeddedContentPathIsFlattened(t *testing.T) {
	r := model.NewResume("u1", "t")
	r.ProfileInfo.Summary = strings.Repeat("x", 5001)

	err := Struct(r)

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "profileInfo.summary", appErr.Field)
}

func TestStruct_NilPatchFieldsAreSkipped(t *testing.T) {
	assert.NoError(t, Struct(&model.ResumePatch{}))
}
