package auth_test

import (
	"testing"
	"time"

	"github.com/geocoder89/salescrm/internal/auth"
	"github.com/geocoder89/salescrm/internal/domain/user"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	m := auth.NewManager("test-secret", time.Minute)

	in := user.Profile{ID: "u-1", Email: "sales@example.com", Name: "Sam", Role: user.RoleSales}

	tok, err := m.GenerateAccessToken(in)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := m.VerifyAccessToken(tok)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}

	if got := claims.Profile(); got != in {
		t.Fatalf("got %+v want %+v", got, in)
	}
}

func TestVerifyRejectsForeignSecret(t *testing.T) {
	issuer := auth.NewManager("secret-a", time.Minute)
	verifier := auth.NewManager("secret-b", time.Minute)

	tok, err := issuer.GenerateAccessToken(user.Profile{ID: "u-1", Role: user.RoleAdmin})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := verifier.VerifyAccessToken(tok); err == nil {
		t.Fatalf("expected verification failure")
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	m := auth.NewManager("test-secret", time.Nanosecond)

	tok, err := m.GenerateAccessToken(user.Profile{ID: "u-1", Role: user.RoleAdmin})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	time.Sleep(1100 * time.Millisecond)

	if _, err := m.VerifyAccessToken(tok); err == nil {
		t.Fatalf("expected expired token to fail")
	}
}
