// Package authclient signs the shell in and out against the identity endpoint.
package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/geocoder89/salescrm/internal/client/session"
	"github.com/geocoder89/salescrm/internal/domain/user"
)

type Kind int

const (
	InvalidCredentials Kind = iota + 1
	NetworkError
)

func (k Kind) String() string {
	switch k {
	case InvalidCredentials:
		return "invalid_credentials"
	case NetworkError:
		return "network_error"
	default:
		return "unknown"
	}
}

type AuthError struct {
	Kind   Kind
	Status int // response status, 0 when no response arrived
	Err    error
}

func (e *AuthError) Error() string {
	if e.Kind == InvalidCredentials {
		return fmt.Sprintf("login rejected (status %d)", e.Status)
	}
	return fmt.Sprintf("login failed: %v", e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

type LoginResult struct {
	Token string       `json:"token"`
	User  user.Profile `json:"user"`
}

type Client struct {
	baseURL string
	http    *http.Client
	holder  *session.Holder
	log     *slog.Logger
}

// New returns a client for baseURL (e.g. http://127.0.0.1:8000/api). httpClient may be nil.
func New(baseURL string, httpClient *http.Client, holder *session.Holder, log *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Client{baseURL: baseURL, http: httpClient, holder: holder, log: log}
}

func networkErr(err error) *AuthError {
	return &AuthError{Kind: NetworkError, Err: err}
}

// statusErr classifies a rejected login. Only the server saying no to these credentials is
// InvalidCredentials; throttling and server faults are worth retrying and count as NetworkError.
func statusErr(status int) *AuthError {
	switch status {
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden:
		return &AuthError{Kind: InvalidCredentials, Status: status}
	}
	return &AuthError{Kind: NetworkError, Status: status, Err: fmt.Errorf("unexpected status %d", status)}
}

// Login posts the credentials and, on success, persists the session and publishes it to the holder.
// A failure to persist is logged; the in-process session is still set.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, error) {
	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return LoginResult{}, networkErr(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/login", bytes.NewReader(body))
	if err != nil {
		return LoginResult{}, networkErr(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return LoginResult{}, networkErr(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return LoginResult{}, statusErr(resp.StatusCode)
	}

	var out LoginResult
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return LoginResult{}, networkErr(fmt.Errorf("decode login response: %w", err))
	}
	if out.Token == "" || out.User.ID == "" || !out.User.Role.Valid() {
		return LoginResult{}, networkErr(fmt.Errorf("incomplete login response"))
	}

	if err := c.holder.Store().Save(ctx, out.Token, out.User); err != nil {
		c.log.WarnContext(ctx, "session not persisted", "err", err)
	}
	c.holder.Set(out.Token, out.User)

	return out, nil
}

// Logout forgets the session locally. There is nothing to tell the server.
func (c *Client) Logout(ctx context.Context) {
	if err := c.holder.Store().Clear(ctx); err != nil {
		c.log.WarnContext(ctx, "session clear failed", "err", err)
	}
	c.holder.Clear()
}
