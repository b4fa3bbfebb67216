package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/resume-builder/internal/apperror"
	"github.com/sakif/resume-builder/internal/auth"
	"github.com/sakif/resume-builder/internal/model"
)

// ResumeService is the part of *service.ResumeService the handler needs.
type ResumeService interface {
	Create(ctx context.Context, ownerID, title string) (*model.Resume, error)
	ListMine(ctx context.Context, ownerID string) ([]model.Resume, error)
	Get(ctx context.Context, ownerID, id string) (*model.Resume, error)
	Update(ctx context.Context, ownerID, id string, patch *model.ResumePatch) (*model.Resume, error)
	UpdateImageLinks(ctx context.Context, ownerID, id string, links model.ImageLinks) (*model.Resume, error)
	Delete(ctx context.Context, ownerID, id string) error
}

// ResumeHandler serves the /api/resume routes. Every route sits behind the
// auth gate; the owner is always the id the gate put in the context.
type ResumeHandler struct {
	resumes ResumeService
	logger  *slog.Logger
}

// NewResumeHandler creates a new ResumeHandler.
func NewResumeHandler(svc ResumeService, logger *slog.Logger) *ResumeHandler {
	return &ResumeHandler{resumes: svc, logger: logger}
}

type createResumeRequest struct {
	Title string `json:"title"`
}

// owner returns the authenticated user id, writing a 401 when there is none.
func (h *ResumeHandler) owner(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, apperror.Unauthorized(auth.MsgNoToken))
	}
	return userID, ok
}

// HandleCreate starts a new resume.
//
// HTTP: POST /api/resume
// REQUEST BODY: {"title": "Frontend Developer"}
func (h *ResumeHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.owner(w, r)
	if !ok {
		return
	}

	var req createResumeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	resume, err := h.resumes.Create(r.Context(), userID, req.Title)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, resume)
}

// HandleList returns the caller's resumes, most recently updated first.
//
// HTTP: GET /api/resume
func (h *ResumeHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.owner(w, r)
	if !ok {
		return
	}

	resumes, err := h.resumes.ListMine(r.Context(), userID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, resumes)
}

// HandleGet returns one resume.
//
// HTTP: GET /api/resume/{id}
func (h *ResumeHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.owner(w, r)
	if !ok {
		return
	}

	resume, err := h.resumes.Get(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, resume)
}

// HandleUpdate replaces the top-level fields present in the body.
//
// HTTP: PUT /api/resume/{id}
// REQUEST BODY: any subset of the resume's mutable fields. id, userId and
// the timestamps are not part of ResumePatch and are dropped by decoding.
func (h *ResumeHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.owner(w, r)
	if !ok {
		return
	}

	var patch model.ResumePatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, h.logger, err)
		return
	}

	resume, err := h.resumes.Update(r.Context(), userID, chi.URLParam(r, "id"), &patch)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, resume)
}

// HandleUploadImages records already-hosted image links.
//
// HTTP: PUT /api/resume/{id}/upload-images
// REQUEST BODY: {"thumbnailLink"?, "profilePreviewUrl"?}
func (h *ResumeHandler) HandleUploadImages(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.owner(w, r)
	if !ok {
		return
	}

	var links model.ImageLinks
	if err := decodeJSON(r, &links); err != nil {
		writeError(w, h.logger, err)
		return
	}

	resume, err := h.resumes.UpdateImageLinks(r.Context(), userID, chi.URLParam(r, "id"), links)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, resume)
}

// HandleDelete removes a resume.
//
// HTTP: DELETE /api/resume/{id}
func (h *ResumeHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.owner(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.resumes.Delete(r.Context(), userID, id); err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "Resume deleted successfully"})
}
