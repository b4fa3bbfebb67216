// Package auth issues and checks session credentials.
//
// SESSION FLOW:
//  1. POST /api/auth/login verifies email + password (password.go)
//  2. The server signs a JWT whose subject is the user id (this file)
//  3. The JWT goes back in the HttpOnly "token" cookie (cookie.go)
//  4. RequireAuth reads the cookie on protected routes, validates the JWT
//     and puts the user id in the request context (middleware.go)
//
// JWT STRUCTURE:
//
//	HEADER.PAYLOAD.SIGNATURE
//	- Header:    {"alg":"HS256","typ":"JWT"}
//	- Payload:   {"sub":"<userID>","iss":"resume-builder","iat":…,"exp":…}
//	- Signature: HMAC-SHA256(header+"."+payload, secret)
//
// Tokens are stateless: nothing is stored server-side, so a token stays
// valid until it expires even after logout clears the cookie.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionTTL is the lifetime of a session token and of its cookie.
const SessionTTL = 7 * 24 * time.Hour

const issuer = "resume-builder"

var (
	ErrTokenExpired = errors.New("auth: token expired")
	ErrTokenInvalid = errors.New("auth: invalid token")
)

// TokenService handles JWT creation and validation with an HMAC secret.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates a TokenService issuing SessionTTL tokens.
// The secret must be at least 16 characters.
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret), ttl: SessionTTL}, nil
}

type claims struct {
	jwt.RegisteredClaims
}

// Generate creates and signs a session token for userID.
func (s *TokenService) Generate(userID string) (string, error) {
	return s.GenerateWithDuration(userID, s.ttl)
}

// GenerateWithDuration creates a token with a custom lifetime.
// Tests use a negative duration to mint already-expired tokens.
func (s *TokenService) GenerateWithDuration(userID string, d time.Duration) (string, error) {
	if userID == "" {
		return "", errors.New("auth: cannot issue a token without a subject")
	}

	now := time.Now()
	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a JWT string and returns the user id stored
// in its subject.
//
// The signature, expiry, issuer and algorithm are all checked; pinning
// HS256 rejects "alg":"none" and algorithm-confusion tokens. Every failure
// wraps ErrTokenInvalid, expiry additionally wraps ErrTokenExpired.
func (s *TokenService) Validate(tokenStr string) (string, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", fmt.Errorf("%w: %w", ErrTokenInvalid, ErrTokenExpired)
		}
		return "", fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("%w: bad claims", ErrTokenInvalid)
	}
	if c.Subject == "" {
		return "", fmt.Errorf("%w: token has no subject", ErrTokenInvalid)
	}

	return c.Subject, nil
}
