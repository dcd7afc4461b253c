// Package session is the client's credential store: the bearer token and the signed-in
// profile, persisted together and hydrated once per process.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/geocoder89/salescrm/internal/domain/user"
)

const (
	KeyToken = "token"
	KeyUser  = "user"
)

// Session has Token and User both set or both empty once IsLoading is false.
type Session struct {
	User      *user.Profile
	Token     string
	IsLoading bool
}

func (s Session) Active() bool {
	return !s.IsLoading && s.Token != "" && s.User != nil
}

type Store struct {
	storage Storage
}

func NewStore(storage Storage) *Store {
	return &Store{storage: storage}
}

// Load returns an empty session when either key is missing or the user record does not decode.
// Only storage failures are returned as errors.
func (s *Store) Load(ctx context.Context) (Session, error) {
	token, okToken, err := s.storage.GetItem(ctx, KeyToken)
	if err != nil {
		return Session{}, fmt.Errorf("load token: %w", err)
	}
	raw, okUser, err := s.storage.GetItem(ctx, KeyUser)
	if err != nil {
		return Session{}, fmt.Errorf("load user: %w", err)
	}
	if !okToken || !okUser || token == "" {
		return Session{}, nil
	}

	var u user.Profile
	if err := json.Unmarshal([]byte(raw), &u); err != nil || u.ID == "" || !u.Role.Valid() {
		return Session{}, nil
	}

	return Session{User: &u, Token: token}, nil
}

// Save writes the user then the token, removing the user again if the token write fails.
func (s *Store) Save(ctx context.Context, token string, u user.Profile) error {
	raw, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}

	if err := s.storage.SetItem(ctx, KeyUser, string(raw)); err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	if err := s.storage.SetItem(ctx, KeyToken, token); err != nil {
		rbErr := s.storage.RemoveItem(ctx, KeyUser)
		return errors.Join(fmt.Errorf("save token: %w", err), rbErr)
	}
	return nil
}

// Clear removes both keys, attempting the second even if the first fails.
func (s *Store) Clear(ctx context.Context) error {
	return errors.Join(
		s.storage.RemoveItem(ctx, KeyToken),
		s.storage.RemoveItem(ctx, KeyUser),
	)
}

// Holder is the process-wide session handed to everything that needs it.
type Holder struct {
	store *Store
	log   *slog.Logger

	once  sync.Once
	ready chan struct{}

	mu   sync.RWMutex
	sess Session
}

func NewHolder(store *Store, log *slog.Logger) *Holder {
	if log == nil {
		log = slog.Default()
	}
	return &Holder{
		store: store,
		log:   log,
		ready: make(chan struct{}),
		sess:  Session{IsLoading: true},
	}
}

func (h *Holder) Store() *Store { return h.store }

// Hydrate reads the persisted session. Only the first call does anything.
func (h *Holder) Hydrate(ctx context.Context) {
	h.once.Do(func() {
		defer close(h.ready)

		loaded, err := h.store.Load(ctx)
		if err != nil {
			h.log.WarnContext(ctx, "session hydrate failed, starting signed out", "err", err)
			loaded = Session{}
		}

		h.mu.Lock()
		// a login that landed first wins
		if h.sess.IsLoading {
			h.sess = loaded
		}
		h.mu.Unlock()
	})
}

// Ready is closed once hydration has finished.
func (h *Holder) Ready() <-chan struct{} {
	return h.ready
}

func (h *Holder) Snapshot() Session {
	h.mu.RLock()
	defer h.mu.RUnlock()

	s := h.sess
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return s
}

func (h *Holder) Set(token string, u user.Profile) {
	h.mu.Lock()
	h.sess = Session{User: &u, Token: token}
	h.mu.Unlock()
}

func (h *Holder) Clear() {
	h.mu.Lock()
	h.sess = Session{}
	h.mu.Unlock()
}
