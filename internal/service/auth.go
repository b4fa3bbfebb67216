// Package service — authentication business logic.
//
// AuthService is the business logic layer for authentication. It sits between
// the HTTP handlers and the repository/auth utilities:
//
//	AuthHandler (HTTP) → AuthService (business rules) → UserRepository (DB)
//	                   ↘ TokenService (JWT), PasswordService (bcrypt)
//
// KEY RESPONSIBILITIES:
//   - Register: validate input, normalise the email, hash the password
//   - Login: check credentials and issue a session token
//   - Keep HTTP concerns (cookies, status codes) out of the auth rules
//
// EMAIL NORMALISATION:
// Addresses are trimmed and lower-cased before they are stored or looked up,
// so "Ann@X.com" and "ann@x.com" are the same account.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/resume-builder/internal/apperror"
	"github.com/sakif/resume-builder/internal/auth"
	"github.com/sakif/resume-builder/internal/model"
	"github.com/sakif/resume-builder/internal/repository"
	"github.com/sakif/resume-builder/internal/validation"
)

// AuthService handles the authentication business logic.
//
// DEPENDENCIES (injected via NewAuthService):
//   - users      repository.UserRepository  → read/write user records
//   - tokens     *auth.TokenService         → generate/validate JWTs
//   - passwords  *auth.PasswordService      → bcrypt hashing
//   - logger     *slog.Logger               → structured logging
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewAuthService creates an AuthService with all required dependencies.
// Call this in server.go when wiring the dependency graph.
func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// RegisterInput is the body of POST /api/auth/register.
type RegisterInput struct {
	Name            string  `json:"name" validate:"required,max=100"`
	Email           string  `json:"email" validate:"required,email,max=254"`
	Password        string  `json:"password" validate:"required,max=72"`
	ProfileImageURL *string `json:"profileImageUrl" validate:"omitempty,max=2048"`
}

// LoginInput is the body of POST /api/auth/login.
type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResult is returned by Login.
// It bundles the user record and the issued JWT together so the caller
// (the HTTP handler) can set the cookie and respond in one step.
type AuthResult struct {
	User  *model.User
	Token string
}

// NormalizeEmail trims and lower-cases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a new account.
//
// Uniqueness is decided by the repository's insert, not by a lookup first:
// a duplicate email comes back as apperror.ErrConflict ("User already
// exists") and no second record is written.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = NormalizeEmail(in.Email)
	if in.ProfileImageURL != nil {
		trimmed := strings.TrimSpace(*in.ProfileImageURL)
		if trimmed == "" {
			in.ProfileImageURL = nil
		} else {
			in.ProfileImageURL = &trimmed
		}
	}

	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	// validator counts runes; bcrypt counts bytes.
	if len(in.Password) > auth.MaxPasswordBytes {
		return nil, apperror.ValidationFailed("password",
			fmt.Sprintf("password must be %d bytes or less", auth.MaxPasswordBytes))
	}

	hash, err := s.passwords.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("service/auth: %w", err)
	}

	user := &model.User{
		Name:            in.Name,
		Email:           in.Email,
		PasswordHash:    hash,
		ProfileImageURL: in.ProfileImageURL,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return nil, err
		}
		s.logger.Error("failed to create user", slog.String("error", err.Error()))
		return nil, fmt.Errorf("service/auth: creating user: %w", err)
	}

	s.logger.Info("user registered", slog.String("userID", user.ID))
	return user, nil
}

// Login checks email and password and issues a session token.
//
// Unknown email and wrong password produce the same
// apperror.ErrInvalidCredentials. For an unknown email a dummy bcrypt
// comparison still runs so both failures take about as long.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	user, err := s.users.GetUserByEmail(ctx, NormalizeEmail(in.Email))
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			s.passwords.VerifyDummy(in.Password)
			return nil, apperror.InvalidCredentials()
		}
		return nil, fmt.Errorf("service/auth: looking up user: %w", err)
	}

	if err := s.passwords.Verify(user.PasswordHash, in.Password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, apperror.InvalidCredentials()
		}
		return nil, fmt.Errorf("service/auth: %w", err)
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for user %s: %w", user.ID, err)
	}

	s.logger.Info("user logged in", slog.String("userID", user.ID))

	return &AuthResult{
		User:  user,
		Token: token,
	}, nil
}

// Profile returns the user for the given internal ID.
//
// Used by GET /api/auth/profile after the auth gate has put the id from the
// token into the request context. A token can outlive its user; that case
// is apperror.ErrNotFound.
func (s *AuthService) Profile(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, apperror.Unauthorized("Unauthorized - No token provided")
	}

	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("service/auth: fetching user %s: %w", id, err)
	}

	return user, nil
}
