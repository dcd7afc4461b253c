// Package guard decides whether a protected view may render for the current session.
package guard

import (
	"context"
	"errors"

	"github.com/geocoder89/salescrm/internal/client/session"
)

const LoginPath = "/login"

var ErrRedirectLogin = errors.New("not signed in")

type Outcome int

const (
	Pending Outcome = iota
	Redirect
	Allow
)

type Decision struct {
	Outcome Outcome
	To      string
}

// Decide never redirects while the session is still loading.
func Decide(s session.Session) Decision {
	switch {
	case s.IsLoading:
		return Decision{Outcome: Pending}
	case s.Token == "":
		return Decision{Outcome: Redirect, To: LoginPath}
	default:
		return Decision{Outcome: Allow}
	}
}

// Require blocks until the holder has hydrated, then returns the session or ErrRedirectLogin.
func Require(ctx context.Context, h *session.Holder) (session.Session, error) {
	select {
	case <-h.Ready():
	case <-ctx.Done():
		return session.Session{}, ctx.Err()
	}

	// Ready is closed only after IsLoading has been cleared, so this is Allow or Redirect
	s := h.Snapshot()
	if Decide(s).Outcome != Allow {
		return session.Session{}, ErrRedirectLogin
	}
	return s, nil
}
