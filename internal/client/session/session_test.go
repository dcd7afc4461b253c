package session_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/geocoder89/salescrm/internal/client/session"
	"github.com/geocoder89/salescrm/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var admin = user.Profile{ID: "u-1", Email: "admin@example.com", Name: "Ada Admin", Role: user.RoleAdmin}

func storages(t *testing.T) map[string]session.Storage {
	return map[string]session.Storage{
		"memory": session.NewMemoryStorage(),
		"file":   session.NewFileStorage(filepath.Join(t.TempDir(), "nested", "session.json")),
	}
}

func TestStore_RoundTrip(t *testing.T) {
	for name, st := range storages(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := session.NewStore(st)

			require.NoError(t, store.Save(ctx, "t1", admin))

			got, err := store.Load(ctx)
			require.NoError(t, err)
			require.NotNil(t, got.User)
			assert.Equal(t, "t1", got.Token)
			assert.Equal(t, admin, *got.User)
			assert.True(t, got.Active())

			// a second store over the same storage sees the same pair
			again, err := session.NewStore(st).Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, got, again)
		})
	}
}

func TestStore_LoadTreatsPartialOrMalformedAsAbsent(t *testing.T) {
	tests := []struct {
		name  string
		token *string
		user  *string
	}{
		{"nothing stored", nil, nil},
		{"token only", strp("t1"), nil},
		{"user only", nil, strp(`{"id":"u-1","email":"a@b.c","name":"A","role":"ADMIN"}`)},
		{"malformed user", strp("t1"), strp(`{not json`)},
		{"unknown role", strp("t1"), strp(`{"id":"u-1","email":"a@b.c","name":"A","role":"ROOT"}`)},
		{"missing role", strp("t1"), strp(`{"id":"u-1","email":"a@b.c","name":"A"}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			st := session.NewMemoryStorage()
			if tt.token != nil {
				require.NoError(t, st.SetItem(ctx, session.KeyToken, *tt.token))
			}
			if tt.user != nil {
				require.NoError(t, st.SetItem(ctx, session.KeyUser, *tt.user))
			}

			got, err := session.NewStore(st).Load(ctx)
			require.NoError(t, err)
			assert.Empty(t, got.Token)
			assert.Nil(t, got.User)
			assert.False(t, got.Active())
		})
	}
}

func TestStore_ClearIsIdempotent(t *testing.T) {
	for name, st := range storages(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := session.NewStore(st)
			require.NoError(t, store.Save(ctx, "t1", admin))

			require.NoError(t, store.Clear(ctx))
			require.NoError(t, store.Clear(ctx))

			for _, key := range []string{session.KeyToken, session.KeyUser} {
				_, ok, err := st.GetItem(ctx, key)
				require.NoError(t, err)
				assert.False(t, ok, "key %q should be gone", key)
			}
		})
	}
}

// failingTokenStorage refuses to write the token key.
type failingTokenStorage struct {
	*session.MemoryStorage
}

func (f failingTokenStorage) SetItem(ctx context.Context, key, value string) error {
	if key == session.KeyToken {
		return errors.New("disk full")
	}
	return f.MemoryStorage.SetItem(ctx, key, value)
}

func TestStore_SaveRollsBackUserWhenTokenFails(t *testing.T) {
	ctx := context.Background()
	st := failingTokenStorage{session.NewMemoryStorage()}

	err := session.NewStore(st).Save(ctx, "t1", admin)
	require.Error(t, err)

	_, ok, err := st.GetItem(ctx, session.KeyUser)
	require.NoError(t, err)
	assert.False(t, ok, "user must not outlive a failed token write")
}

func TestHolder_LoadingUntilHydrated(t *testing.T) {
	ctx := context.Background()
	st := session.NewMemoryStorage()
	require.NoError(t, session.NewStore(st).Save(ctx, "t1", admin))

	h := session.NewHolder(session.NewStore(st), nil)
	assert.True(t, h.Snapshot().IsLoading)

	select {
	case <-h.Ready():
		t.Fatal("ready before hydration")
	default:
	}

	h.Hydrate(ctx)
	h.Hydrate(ctx)

	select {
	case <-h.Ready():
	case <-time.After(time.Second):
		t.Fatal("ready never closed")
	}

	snap := h.Snapshot()
	assert.False(t, snap.IsLoading)
	assert.Equal(t, "t1", snap.Token)
	require.NotNil(t, snap.User)
	assert.Equal(t, user.RoleAdmin, snap.User.Role)
}

func TestHolder_LoginBeforeHydrationWins(t *testing.T) {
	ctx := context.Background()
	h := session.NewHolder(session.NewStore(session.NewMemoryStorage()), nil)

	h.Set("fresh", admin)
	h.Hydrate(ctx)

	assert.Equal(t, "fresh", h.Snapshot().Token)
}

func TestHolder_SnapshotIsACopy(t *testing.T) {
	h := session.NewHolder(session.NewStore(session.NewMemoryStorage()), nil)
	h.Set("t1", admin)

	snap := h.Snapshot()
	snap.User.Role = user.RoleSales

	assert.Equal(t, user.RoleAdmin, h.Snapshot().User.Role)
}

func strp(s string) *string { return &s }
