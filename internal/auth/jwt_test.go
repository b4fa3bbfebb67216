package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func newTestTokenService(t *testing.T) *TokenService {
	t.Helper()
	ts, err := NewTokenService("test-secret-at-least-16-chars!!")
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	return ts
}

// =========================================================================
// CONSTRUCTION
// =========================================================================

func TestNewTokenService_ShortSecret(t *testing.T) {
	if _, err := NewTokenService("short"); err == nil {
		t.Fatal("NewTokenService() should reject secrets shorter than 16 chars")
	}
}

// =========================================================================
// GENERATE
// =========================================================================

func TestGenerate_ReturnsJWT(t *testing.T) {
	ts := newTestTokenService(t)

	token, err := ts.Generate("user-123")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if n := strings.Count(token, "."); n != 2 {
		t.Errorf("Generate() token doesn't look like a JWT (expected 2 dots, got %d)", n)
	}
}

func TestGenerate_SevenDayExpiry(t *testing.T) {
	ts := newTestTokenService(t)

	token, err := ts.Generate("user-123")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	parsed, _, err := jwt.NewParser().ParseUnverified(token, &claims{})
	if err != nil {
		t.Fatalf("ParseUnverified() error = %v", err)
	}
	c := parsed.Claims.(*claims)
	lifetime := c.ExpiresAt.Sub(c.IssuedAt.Time)
	if lifetime != SessionTTL {
		t.Errorf("token lifetime = %v, want %v", lifetime, SessionTTL)
	}
}

func TestGenerate_EmptySubject(t *testing.T) {
	ts := newTestTokenService(t)

	if _, err := ts.Generate(""); err == nil {
		t.Fatal("Generate() should refuse an empty user id")
	}
}

// =========================================================================
// VALIDATE
// =========================================================================

func TestValidate_RoundTrip(t *testing.T) {
	ts := newTestTokenService(t)

	token, err := ts.Generate("user-abc-123")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	got, err := ts.Validate(token)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if got != "user-abc-123" {
		t.Errorf("Validate() userID = %q, want %q", got, "user-abc-123")
	}
}

func TestValidate_ExpiredToken(t *testing.T) {
	ts := newTestTokenService(t)

	token, err := ts.GenerateWithDuration("user-123", -1*time.Second)
	if err != nil {
		t.Fatalf("GenerateWithDuration() error = %v", err)
	}

	_, err = ts.Validate(token)
	if !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("Validate() error = %v, want ErrTokenExpired", err)
	}
	if !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("expired token error should also be ErrTokenInvalid, got %v", err)
	}
}

func TestValidate_TamperedToken(t *testing.T) {
	ts := newTestTokenService(t)
	token, _ := ts.Generate("user-123")

	tampered := token[:len(token)-3] + "xxx"

	if _, err := ts.Validate(tampered); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("Validate() error = %v, want ErrTokenInvalid", err)
	}
}

func TestValidate_WrongSecret(t *testing.T) {
	ts1, _ := NewTokenService("correct-secret-32-chars-long!!!!")
	ts2, _ := NewTokenService("wrong-secret-32-chars-long!!!!!!")

	token, _ := ts1.Generate("user-123")

	if _, err := ts2.Validate(token); err == nil {
		t.Fatal("Validate() should fail when using a different secret")
	}
}

func TestValidate_WrongIssuer(t *testing.T) {
	ts := newTestTokenService(t)

	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "user-123",
		Issuer:    "someone-else",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := foreign.SignedString(ts.secret)
	if err != nil {
		t.Fatalf("SignedString() error = %v", err)
	}

	if _, err := ts.Validate(signed); err == nil {
		t.Fatal("Validate() should reject a token from another issuer")
	}
}

func TestValidate_NoneAlgorithm(t *testing.T) {
	ts := newTestTokenService(t)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "user-123",
		Issuer:    issuer,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("SignedString() error = %v", err)
	}

	if _, err := ts.Validate(signed); err == nil {
		t.Fatal("Validate() must reject alg=none tokens")
	}
}

func TestValidate_Garbage(t *testing.T) {
	ts := newTestTokenService(t)

	for _, in := range []string{"", "not.a.jwt.token", "this.is.garbage"} {
		if _, err := ts.Validate(in); err == nil {
			t.Errorf("Validate(%q) should return an error", in)
		}
	}
}
