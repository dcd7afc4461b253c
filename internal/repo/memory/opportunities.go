package memory

import (
	"context"
	"time"

	"github.com/geocoder89/salescrm/internal/domain/opportunity"
)

type Opportunities struct{ s *Store }

func (s *Store) Opportunities() *Opportunities { return &Opportunities{s: s} }

func (r *Opportunities) Create(_ context.Context, o opportunity.Opportunity) error {
	r.s.mu.Lock()
	r.s.opportunities[o.ID] = o
	r.s.mu.Unlock()
	return nil
}

func (r *Opportunities) List(_ context.Context) ([]opportunity.Opportunity, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return sortedValues(r.s.opportunities, func(a, b opportunity.Opportunity) bool {
		return byCreatedDesc(a.CreatedAt, b.CreatedAt, a.ID, b.ID)
	}), nil
}

func (r *Opportunities) UpdateStage(_ context.Context, id, stage string) (opportunity.Opportunity, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	o, ok := r.s.opportunities[id]
	if !ok {
		return opportunity.Opportunity{}, opportunity.ErrNotFound
	}
	o.Stage = stage
	o.UpdatedAt = time.Now().UTC()
	r.s.opportunities[id] = o
	return o, nil
}

func (r *Opportunities) Count(_ context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.opportunities), nil
}
