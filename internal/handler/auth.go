package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/sakif/resume-builder/internal/apperror"
	"github.com/sakif/resume-builder/internal/auth"
	"github.com/sakif/resume-builder/internal/model"
	"github.com/sakif/resume-builder/internal/service"
)

// AuthService is the part of *service.AuthService the handler needs.
// Tests substitute a hand-written fake.
type AuthService interface {
	Register(ctx context.Context, in service.RegisterInput) (*model.User, error)
	Login(ctx context.Context, in service.LoginInput) (*service.AuthResult, error)
	Profile(ctx context.Context, id string) (*model.User, error)
}

// AuthHandler serves registration, login, logout and the profile lookup.
//
// HANDLER RESPONSIBILITIES:
//   - HandleRegister → create an account, no session is started
//   - HandleLogin    → check credentials, set the session cookie
//   - HandleLogout   → clear the session cookie
//   - HandleProfile  → return the logged-in user (behind the auth gate)
type AuthHandler struct {
	auth    AuthService
	cookies auth.CookiePolicy
	logger  *slog.Logger
}

// NewAuthHandler creates an AuthHandler. All dependencies are injected here;
// the handler has no knowledge of how they're constructed.
func NewAuthHandler(svc AuthService, cookies auth.CookiePolicy, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		auth:    svc,
		cookies: cookies,
		logger:  logger,
	}
}

// registerResponse is the body of a successful registration.
type registerResponse struct {
	Message string            `json:"message"`
	User    model.UserSummary `json:"user"`
}

// loginUser always carries profileImageUrl, null when unset.
type loginUser struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Email           string  `json:"email"`
	ProfileImageURL *string `json:"profileImageUrl"`
}

type loginResponse struct {
	Message string    `json:"message"`
	User    loginUser `json:"user"`
}

// HandleRegister creates a new account.
//
// HTTP: POST /api/auth/register
// REQUEST BODY: {"name","email","password","profileImageUrl"?}
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var in service.RegisterInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}

	user, err := h.auth.Register(r.Context(), in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, registerResponse{
		Message: "User registered successfully",
		User:    user.Summary(),
	})
}

// HandleLogin checks credentials and starts a session.
//
// HTTP: POST /api/auth/login
// REQUEST BODY: {"email","password"}
//
// The token only travels in the HttpOnly cookie, never in the body, so
// page scripts cannot read it.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var in service.LoginInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}

	result, err := h.auth.Login(r.Context(), in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	http.SetCookie(w, h.cookies.Issue(result.Token))
	writeJSON(w, http.StatusOK, loginResponse{
		Message: "Login successful",
		User: loginUser{
			ID:              result.User.ID,
			Name:            result.User.Name,
			Email:           result.User.Email,
			ProfileImageURL: result.User.ProfileImageURL,
		},
	})
}

// HandleLogout clears the session cookie.
//
// HTTP: POST /api/auth/logout
//
// Sessions are stateless, so there is nothing to revoke server-side.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.cookies.Clear())
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Logged out successfully"})
}

// HandleProfile returns the logged-in user without the password hash.
//
// HTTP: GET /api/auth/profile (requires auth)
func (h *AuthHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, apperror.Unauthorized(auth.MsgNoToken))
		return
	}

	user, err := h.auth.Profile(r.Context(), userID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}
