package auth

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

// newTestPasswordService returns a PasswordService with bcrypt cost 4,
// the minimum bcrypt accepts, so tests run in milliseconds.
func newTestPasswordService() *PasswordService {
	return NewPasswordService(bcrypt.MinCost)
}

// =========================================================================
// CONSTRUCTION
// =========================================================================

func TestNewPasswordService_OutOfRangeCostFallsBack(t *testing.T) {
	for _, cost := range []int{0, 3, 32} {
		if got := NewPasswordService(cost).cost; got != DefaultCost {
			t.Errorf("NewPasswordService(%d).cost = %d, want %d", cost, got, DefaultCost)
		}
	}
}

func TestHash_UsesConfiguredCost(t *testing.T) {
	ps := NewPasswordService(5)

	hash, err := ps.Hash("password123")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		t.Fatalf("bcrypt.Cost() error = %v", err)
	}
	if cost != 5 {
		t.Errorf("hash cost = %d, want 5", cost)
	}
}

// =========================================================================
// Hash TESTS
// =========================================================================

func TestHash_OutputLooksBcrypt(t *testing.T) {
	ps := newTestPasswordService()

	hash, err := ps.Hash("password123")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if !strings.HasPrefix(hash, "$2") {
		t.Errorf("Hash() does not look like a bcrypt hash: %q", hash)
	}
	if strings.Contains(hash, "password123") {
		t.Error("Hash() output contains the plaintext")
	}
}

func TestHash_SamePasswordProducesDifferentHashes(t *testing.T) {
	ps := newTestPasswordService()

	hash1, _ := ps.Hash("same-password")
	hash2, _ := ps.Hash("same-password")

	if hash1 == hash2 {
		t.Error("Hash() produced identical hashes for the same password (salt must be random)")
	}
}

func TestHash_RejectsPasswordOver72Bytes(t *testing.T) {
	ps := newTestPasswordService()

	if _, err := ps.Hash(strings.Repeat("a", 73)); err == nil {
		t.Fatal("Hash() should reject passwords longer than 72 bytes")
	}
}

func TestHash_AcceptsPasswordExactly72Bytes(t *testing.T) {
	ps := newTestPasswordService()

	if _, err := ps.Hash(strings.Repeat("a", 72)); err != nil {
		t.Fatalf("Hash() error for 72-byte password = %v", err)
	}
}

// =========================================================================
// Verify TESTS
// =========================================================================

func TestVerify_CorrectPassword(t *testing.T) {
	ps := newTestPasswordService()
	hash, _ := ps.Hash("correct-horse")

	if err := ps.Verify(hash, "correct-horse"); err != nil {
		t.Errorf("Verify() error = %v, want nil", err)
	}
}

func TestVerify_WrongPassword(t *testing.T) {
	ps := newTestPasswordService()
	hash, _ := ps.Hash("correct-horse")

	err := ps.Verify(hash, "battery-staple")
	if !errors.Is(err, ErrPasswordMismatch) {
		t.Errorf("Verify() error = %v, want ErrPasswordMismatch", err)
	}
}

func TestVerify_GarbageHash(t *testing.T) {
	ps := newTestPasswordService()

	err := ps.Verify("not-a-bcrypt-hash", "whatever")
	if err == nil {
		t.Fatal("Verify() should fail for a garbage hash")
	}
	if errors.Is(err, ErrPasswordMismatch) {
		t.Error("a corrupt hash must not be reported as a plain mismatch")
	}
}

func TestVerifyDummy_DoesNotPanic(t *testing.T) {
	ps := newTestPasswordService()

	ps.VerifyDummy("anything")
	ps.VerifyDummy("anything else")

	if len(ps.dummyHash) == 0 {
		t.Error("VerifyDummy() did not initialise the dummy hash")
	}
}
