package authclient_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/geocoder89/salescrm/internal/client/authclient"
	"github.com/geocoder89/salescrm/internal/client/session"
	"github.com/geocoder89/salescrm/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func identityServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func newClient(baseURL string) (*authclient.Client, *session.Holder, *session.MemoryStorage) {
	st := session.NewMemoryStorage()
	h := session.NewHolder(session.NewStore(st), nil)
	h.Hydrate(context.Background())
	return authclient.New(baseURL, nil, h, nil), h, st
}

func TestLogin_SetsSessionAndPersistsBothKeys(t *testing.T) {
	srv := identityServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/login", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "admin@example.com", body["email"])
		assert.Equal(t, "Admin123!", body["password"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"token":"t1","user":{"id":"u-1","email":"admin@example.com","name":"Ada","role":"ADMIN"}}`))
	})

	c, h, st := newClient(srv.URL)

	res, err := c.Login(context.Background(), "admin@example.com", "Admin123!")
	require.NoError(t, err)
	assert.Equal(t, "t1", res.Token)

	snap := h.Snapshot()
	assert.Equal(t, "t1", snap.Token)
	require.NotNil(t, snap.User)
	assert.Equal(t, user.RoleAdmin, snap.User.Role)

	tok, ok, _ := st.GetItem(context.Background(), session.KeyToken)
	assert.True(t, ok)
	assert.Equal(t, "t1", tok)
	_, ok, _ = st.GetItem(context.Background(), session.KeyUser)
	assert.True(t, ok)
}

func TestLogin_Errors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantKind authclient.Kind
	}{
		{"unauthorized", http.StatusUnauthorized, `{"error":{"code":"invalid_credentials"}}`, authclient.InvalidCredentials},
		{"bad request", http.StatusBadRequest, `{"error":{"code":"invalid_request"}}`, authclient.InvalidCredentials},
		{"forbidden", http.StatusForbidden, `{}`, authclient.InvalidCredentials},
		{"rate limited", http.StatusTooManyRequests, `{"error":{"code":"rate_limited"}}`, authclient.NetworkError},
		{"server error", http.StatusInternalServerError, `{}`, authclient.NetworkError},
		{"bad gateway", http.StatusBadGateway, `{"error":{"code":"bad_gateway"}}`, authclient.NetworkError},
		{"not found", http.StatusNotFound, `{}`, authclient.NetworkError},
		{"garbage body", http.StatusOK, `<html>`, authclient.NetworkError},
		{"unknown role", http.StatusOK, `{"token":"t1","user":{"id":"u-1","role":"ROOT"}}`, authclient.NetworkError},
		{"missing token", http.StatusOK, `{"user":{"id":"u-1","role":"SALES"}}`, authclient.NetworkError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := identityServer(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			c, h, _ := newClient(srv.URL)

			_, err := c.Login(context.Background(), "a@b.c", "pw")

			var authErr *authclient.AuthError
			require.True(t, errors.As(err, &authErr), "got %v", err)
			assert.Equal(t, tt.wantKind, authErr.Kind)
			if tt.status != http.StatusOK {
				assert.Equal(t, tt.status, authErr.Status)
			}
			assert.False(t, h.Snapshot().Active())
		})
	}
}

func TestLogin_TransportFailureIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, _, _ := newClient(url)
	_, err := c.Login(context.Background(), "a@b.c", "pw")

	var authErr *authclient.AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, authclient.NetworkError, authErr.Kind)
}

func TestLogout_ClearsEverythingAndIsIdempotent(t *testing.T) {
	c, h, st := newClient("http://unused.invalid")
	ctx := context.Background()

	require.NoError(t, h.Store().Save(ctx, "t1", user.Profile{ID: "u-1", Role: user.RoleSales}))
	h.Set("t1", user.Profile{ID: "u-1", Role: user.RoleSales})

	c.Logout(ctx)
	c.Logout(ctx)

	assert.False(t, h.Snapshot().Active())
	for _, key := range []string{session.KeyToken, session.KeyUser} {
		_, ok, _ := st.GetItem(ctx, key)
		assert.False(t, ok)
	}
}
