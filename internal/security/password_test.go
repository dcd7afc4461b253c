package security_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/geocoder89/salescrm/internal/security"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndCheck(t *testing.T) {
	security.Cost = bcrypt.MinCost
	t.Cleanup(func() { security.Cost = bcrypt.DefaultCost })

	hash, err := security.HashPassword("Sales123!")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	if err := security.CheckPassword(hash, "Sales123!"); err != nil {
		t.Fatalf("expected match, got %v", err)
	}

	if err := security.CheckPassword(hash, "sales123!"); !errors.Is(err, security.ErrPasswordMismatch) {
		t.Fatalf("expected ErrPasswordMismatch, got %v", err)
	}
}

func TestHashPassword_RejectsOverlongInput(t *testing.T) {
	_, err := security.HashPassword(strings.Repeat("a", 73))
	if !errors.Is(err, security.ErrPasswordTooLong) {
		t.Fatalf("expected ErrPasswordTooLong, got %v", err)
	}
}

func TestCheckPassword_MalformedHash(t *testing.T) {
	err := security.CheckPassword("not-a-bcrypt-hash", "x")
	if err == nil || errors.Is(err, security.ErrPasswordMismatch) {
		t.Fatalf("expected a hash error, got %v", err)
	}
}
