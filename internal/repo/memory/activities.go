package memory

import (
	"context"
	"time"

	"github.com/geocoder89/salescrm/internal/domain/activity"
)

func (s *Store) CreateTask(_ context.Context, t activity.Task) error {
	s.mu.Lock()
	s.tasks[t.ID] = t
	s.mu.Unlock()
	return nil
}

func (s *Store) ListTasks(_ context.Context) ([]activity.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return sortedValues(s.tasks, func(a, b activity.Task) bool {
		switch {
		case a.DueDate == nil && b.DueDate == nil:
			return a.ID < b.ID
		case a.DueDate == nil:
			return false
		case b.DueDate == nil:
			return true
		case a.DueDate.Equal(*b.DueDate):
			return a.ID < b.ID
		default:
			return a.DueDate.Before(*b.DueDate)
		}
	}), nil
}

func (s *Store) UpdateTaskStatus(_ context.Context, id, status string) (activity.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return activity.Task{}, activity.ErrNotFound
	}
	t.Status = status
	t.UpdatedAt = time.Now().UTC()
	s.tasks[id] = t
	return t, nil
}

func (s *Store) CountTasks(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks), nil
}

func (s *Store) CreateMeeting(_ context.Context, m activity.Meeting) error {
	s.mu.Lock()
	s.meetings[m.ID] = m
	s.mu.Unlock()
	return nil
}

func (s *Store) ListMeetings(_ context.Context) ([]activity.Meeting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return sortedValues(s.meetings, func(a, b activity.Meeting) bool {
		if a.StartAt.Equal(b.StartAt) {
			return a.ID < b.ID
		}
		return a.StartAt.Before(b.StartAt)
	}), nil
}

func (s *Store) CountMeetings(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.meetings), nil
}
