package guard_test

import (
	"context"
	"testing"
	"time"

	"github.com/geocoder89/salescrm/internal/client/guard"
	"github.com/geocoder89/salescrm/internal/client/session"
	"github.com/geocoder89/salescrm/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecide(t *testing.T) {
	u := &user.Profile{ID: "u-1", Role: user.RoleSales}

	tests := []struct {
		name string
		in   session.Session
		want guard.Decision
	}{
		{"loading without token", session.Session{IsLoading: true}, guard.Decision{Outcome: guard.Pending}},
		{"loading with token", session.Session{IsLoading: true, Token: "t1", User: u}, guard.Decision{Outcome: guard.Pending}},
		{"signed out", session.Session{}, guard.Decision{Outcome: guard.Redirect, To: "/login"}},
		{"signed in", session.Session{Token: "t1", User: u}, guard.Decision{Outcome: guard.Allow}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, guard.Decide(tt.in))
		})
	}
}

func TestRequire_WaitsForHydration(t *testing.T) {
	ctx := context.Background()
	st := session.NewMemoryStorage()
	store := session.NewStore(st)
	require.NoError(t, store.Save(ctx, "t1", user.Profile{ID: "u-1", Role: user.RoleManager}))

	h := session.NewHolder(store, nil)

	type result struct {
		s   session.Session
		err error
	}
	done := make(chan result, 1)
	go func() {
		s, err := guard.Require(ctx, h)
		done <- result{s, err}
	}()

	select {
	case <-done:
		t.Fatal("guard decided before hydration")
	case <-time.After(50 * time.Millisecond):
	}

	h.Hydrate(ctx)

	select {
	case r := <-done:
		require.NoError(t, r.err)
		assert.Equal(t, "t1", r.s.Token)
	case <-time.After(time.Second):
		t.Fatal("guard never decided")
	}
}

func TestRequire_NoTokenRedirects(t *testing.T) {
	ctx := context.Background()
	h := session.NewHolder(session.NewStore(session.NewMemoryStorage()), nil)
	h.Hydrate(ctx)

	_, err := guard.Require(ctx, h)
	assert.ErrorIs(t, err, guard.ErrRedirectLogin)
}

func TestRequire_ContextCanceledBeforeHydration(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	h := session.NewHolder(session.NewStore(session.NewMemoryStorage()), nil)

	_, err := guard.Require(ctx, h)
	assert.ErrorIs(t, err, context.Canceled)
}
