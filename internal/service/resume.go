// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (Business layer) → validates, enforces rules, orchestrates
//	Repository (Data layer)  → reads/writes the store
//
// Services take repository interfaces, never a concrete store, so the same
// ResumeService runs on SQLite, on MongoDB and on the in-memory fakes in the
// tests.
//
// OWNERSHIP:
// Every ResumeService method takes the caller's user id first. The id comes
// from the auth gate, never from the request body, and is passed down to
// the repository as part of the lookup filter. Whether a resume belongs to
// someone else or does not exist at all, the caller sees apperror.ErrNotFound.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/sakif/resume-builder/internal/apperror"
	"github.com/sakif/resume-builder/internal/model"
	"github.com/sakif/resume-builder/internal/repository"
	"github.com/sakif/resume-builder/internal/validation"
)

// MaxTitleLength bounds a resume title.
const MaxTitleLength = 200

// ResumeService handles business logic for resumes.
type ResumeService struct {
	repo   repository.ResumeRepository
	logger *slog.Logger
}

// NewResumeService creates a new ResumeService.
func NewResumeService(repo repository.ResumeRepository, logger *slog.Logger) *ResumeService {
	return &ResumeService{
		repo:   repo,
		logger: logger,
	}
}

// Create starts a new resume with the given title and every section empty.
func (s *ResumeService) Create(ctx context.Context, ownerID, title string) (*model.Resume, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperror.ValidationFailed("title", "title is required")
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return nil, apperror.ValidationFailed("title",
			fmt.Sprintf("title must be %d characters or less", MaxTitleLength))
	}

	resume := model.NewResume(ownerID, title)
	if err := s.repo.CreateResume(ctx, resume); err != nil {
		s.logger.Error("failed to create resume",
			slog.String("userID", ownerID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating resume: %w", err)
	}

	s.logger.Info("resume created",
		slog.String("id", resume.ID),
		slog.String("userID", ownerID),
	)

	return resume, nil
}

// ListMine returns the caller's resumes, most recently updated first.
func (s *ResumeService) ListMine(ctx context.Context, ownerID string) ([]model.Resume, error) {
	resumes, err := s.repo.ListResumesByOwner(ctx, ownerID)
	if err != nil {
		s.logger.Error("failed to list resumes",
			slog.String("userID", ownerID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("listing resumes: %w", err)
	}
	return resumes, nil
}

// Get returns one of the caller's resumes.
func (s *ResumeService) Get(ctx context.Context, ownerID, id string) (*model.Resume, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.NotFound("Resume")
	}

	resume, err := s.repo.GetResume(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	return resume, nil
}

// Update validates patch and applies it to one of the caller's resumes.
//
// Top-level fields present in the patch replace the stored value whole;
// absent ones are left alone. Applying the same patch twice yields the same
// document apart from updatedAt.
func (s *ResumeService) Update(ctx context.Context, ownerID, id string, patch *model.ResumePatch) (*model.Resume, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.NotFound("Resume")
	}
	if patch == nil {
		patch = &model.ResumePatch{}
	}

	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, apperror.ValidationFailed("title", "title must not be empty")
		}
		patch.Title = &title
	}
	if err := validation.Struct(patch); err != nil {
		return nil, err
	}

	resume, err := s.repo.UpdateResume(ctx, ownerID, id, patch)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, err
		}
		s.logger.Error("failed to update resume",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating resume: %w", err)
	}

	s.logger.Info("resume updated",
		slog.String("id", resume.ID),
		slog.String("userID", ownerID),
	)

	return resume, nil
}

// UpdateImageLinks sets the thumbnail and profile preview links of one of
// the caller's resumes. Empty links are ignored.
func (s *ResumeService) UpdateImageLinks(ctx context.Context, ownerID, id string, links model.ImageLinks) (*model.Resume, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.NotFound("Resume")
	}

	links.ThumbnailLink = strings.TrimSpace(links.ThumbnailLink)
	links.ProfilePreviewURL = strings.TrimSpace(links.ProfilePreviewURL)
	if err := validation.Struct(links); err != nil {
		return nil, err
	}

	resume, err := s.repo.UpdateResumeImages(ctx, ownerID, id, links)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, err
		}
		s.logger.Error("failed to update resume images",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating resume images: %w", err)
	}

	return resume, nil
}

// Delete removes one of the caller's resumes.
func (s *ResumeService) Delete(ctx context.Context, ownerID, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperror.NotFound("Resume")
	}

	if err := s.repo.DeleteResume(ctx, ownerID, id); err != nil {
		return err
	}

	s.logger.Info("resume deleted",
		slog.String("id", id),
		slog.String("userID", ownerID),
	)
	return nil
}
