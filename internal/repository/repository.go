// Package repository declares the storage contracts the services depend on.
//
// Two backends implement them: repository/sqlite (embedded, the default)
// and repository/mongo (selected when MONGO_URL is configured). Both
// translate "no such row/document" into apperror.ErrNotFound and a
// duplicate email into apperror.ErrConflict.
package repository

import (
	"context"

	"github.com/sakif/resume-builder/internal/model"
)

// UserRepository is the Credential Store.
type UserRepository interface {
	// CreateUser inserts u and fills in ID and timestamps. Returns
	// apperror.ErrConflict if the email is already registered.
	CreateUser(ctx context.Context, u *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
}

// ResumeRepository is the Resume Store.
//
// Every method other than CreateResume filters on (id, ownerID) together.
// A resume that exists but belongs to someone else yields the same
// apperror.ErrNotFound as one that does not exist.
type ResumeRepository interface {
	// CreateResume inserts r and fills in ID and timestamps.
	CreateResume(ctx context.Context, r *model.Resume) error
	// ListResumesByOwner returns the owner's resumes, most recently
	// updated first.
	ListResumesByOwner(ctx context.Context, ownerID string) ([]model.Resume, error)
	GetResume(ctx context.Context, ownerID, id string) (*model.Resume, error)
	// UpdateResume applies patch atomically and returns the new document.
	UpdateResume(ctx context.Context, ownerID, id string, patch *model.ResumePatch) (*model.Resume, error)
	// UpdateResumeImages sets only the thumbnail and profile preview links.
	UpdateResumeImages(ctx context.Context, ownerID, id string, links model.ImageLinks) (*model.Resume, error)
	DeleteResume(ctx context.Context, ownerID, id string) error
}

// Store is the process-wide storage handle: created once at startup,
// injected into the server and closed on shutdown.
type Store interface {
	UserRepository
	ResumeRepository
	Ping(ctx context.Context) error
	Close() error
}
