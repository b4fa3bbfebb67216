// Package auth — password hashing.
//
// Passwords are stored as bcrypt hashes. bcrypt salts every hash and embeds
// the salt and cost in its output:
//
//	$2a$10$<22-char salt><31-char hash>
//	 ^   ^
//	 |   cost
//	 version
//
// Verification re-hashes the candidate with the embedded salt and compares
// in constant time. Nothing is ever decrypted.
package auth

import (
	"errors"
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt work factor used when none is configured.
const DefaultCost = 10

// MaxPasswordBytes is bcrypt's input limit. Longer inputs are rejected
// rather than silently truncated.
const MaxPasswordBytes = 72

// ErrPasswordMismatch is returned by Verify when the password is wrong.
var ErrPasswordMismatch = errors.New("auth: invalid password")

// PasswordService provides bcrypt hashing and verification.
//
// The cost is a field so tests can run at bcrypt.MinCost (4).
type PasswordService struct {
	cost int

	dummyOnce sync.Once
	dummyHash []byte
}

// NewPasswordService creates a PasswordService. A cost outside bcrypt's
// accepted range falls back to DefaultCost.
func NewPasswordService(cost int) *PasswordService {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &PasswordService{cost: cost}
}

// Hash hashes the given plaintext password with bcrypt.
func (p *PasswordService) Hash(plaintext string) (string, error) {
	if len(plaintext) > MaxPasswordBytes {
		return "", fmt.Errorf("auth: password must be %d bytes or fewer", MaxPasswordBytes)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), p.cost)
	if err != nil {
		return "", fmt.Errorf("auth: hashing password: %w", err)
	}

	return string(hashed), nil
}

// Verify checks whether a plaintext password matches a stored bcrypt hash.
//
// Returns nil on a match, ErrPasswordMismatch on a wrong password and a
// wrapped error when the stored hash itself is unusable.
func (p *PasswordService) Verify(hash, plaintext string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrPasswordMismatch
		}
		return fmt.Errorf("auth: comparing password hash: %w", err)
	}
	return nil
}

// VerifyDummy spends the same bcrypt work as Verify against a throwaway hash.
// Login calls it for unknown emails so both failure paths take equally long.
func (p *PasswordService) VerifyDummy(plaintext string) {
	p.dummyOnce.Do(func() {
		p.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("dummy-password-for-timing"), p.cost)
	})
	_ = bcrypt.CompareHashAndPassword(p.dummyHash, []byte(plaintext))
}
