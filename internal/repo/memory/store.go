package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/geocoder89/salescrm/internal/domain/activity"
	"github.com/geocoder89/salescrm/internal/domain/audit"
	"github.com/geocoder89/salescrm/internal/domain/customer"
	"github.com/geocoder89/salescrm/internal/domain/opportunity"
	"github.com/geocoder89/salescrm/internal/domain/user"
	"github.com/geocoder89/salescrm/internal/mockdata"
)

// Store keeps every collection in process. It backs STORAGE=memory and the router tests.
type Store struct {
	mu            sync.RWMutex
	users         map[string]user.User // by lower-cased email
	customers     map[string]customer.Customer
	tasks         map[string]activity.Task
	meetings      map[string]activity.Meeting
	opportunities map[string]opportunity.Opportunity
	auditLog      []audit.Entry
}

func NewStore() *Store {
	return &Store{
		users:         make(map[string]user.User),
		customers:     make(map[string]customer.Customer),
		tasks:         make(map[string]activity.Task),
		meetings:      make(map[string]activity.Meeting),
		opportunities: make(map[string]opportunity.Opportunity),
	}
}

// NewSeededStore starts from the demo dataset.
func NewSeededStore() *Store {
	s := NewStore()
	for _, c := range mockdata.Customers() {
		s.customers[c.ID] = c
	}
	for _, t := range mockdata.Tasks() {
		s.tasks[t.ID] = t
	}
	for _, m := range mockdata.Meetings() {
		s.meetings[m.ID] = m
	}
	for _, o := range mockdata.Opportunities() {
		s.opportunities[o.ID] = o
	}
	return s
}

// users

func (s *Store) GetByEmail(_ context.Context, email string) (user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[strings.ToLower(email)]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func (s *Store) GetByID(_ context.Context, id string) (user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (s *Store) Create(_ context.Context, u user.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(u.Email)
	if _, ok := s.users[key]; ok {
		return user.ErrEmailTaken
	}
	s.users[key] = u
	return nil
}

// audit

type Audit struct{ s *Store }

func (s *Store) Audit() *Audit { return &Audit{s: s} }

func (r *Audit) Append(_ context.Context, e audit.Entry) error {
	r.s.mu.Lock()
	r.s.auditLog = append(r.s.auditLog, e)
	r.s.mu.Unlock()
	return nil
}

func (r *Audit) List(_ context.Context, limit int) ([]audit.Entry, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 || limit > 500 {
		limit = 100
	}

	out := make([]audit.Entry, 0, limit)
	// newest first
	for i := len(s.auditLog) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.auditLog[i])
	}
	return out, nil
}

func sortedValues[T any](m map[string]T, less func(a, b T) bool) []T {
	out := make([]T, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

func byCreatedDesc(a, b time.Time, aID, bID string) bool {
	if a.Equal(b) {
		return aID < bID
	}
	return a.After(b)
}
