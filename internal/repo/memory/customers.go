package memory

import (
	"context"
	"time"

	"github.com/geocoder89/salescrm/internal/domain/customer"
)

// Customers adapts the store to the customers repository shape (List/Create/... names collide otherwise).
type Customers struct{ s *Store }

func (s *Store) Customers() *Customers { return &Customers{s: s} }

func (r *Customers) Create(_ context.Context, req customer.CreateCustomerRequest) (customer.Customer, error) {
	c := customer.NewFromCreateRequest(req)

	r.s.mu.Lock()
	r.s.customers[c.ID] = c
	r.s.mu.Unlock()

	return c, nil
}

func (r *Customers) List(_ context.Context) ([]customer.Customer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return sortedValues(r.s.customers, func(a, b customer.Customer) bool {
		return byCreatedDesc(a.CreatedAt, b.CreatedAt, a.ID, b.ID)
	}), nil
}

func (r *Customers) GetByID(_ context.Context, id string) (customer.Customer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.customers[id]
	if !ok {
		return customer.Customer{}, customer.ErrNotFound
	}
	return c, nil
}

func (r *Customers) Update(_ context.Context, id string, req customer.UpdateCustomerRequest) (customer.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.customers[id]
	if !ok {
		return customer.Customer{}, customer.ErrNotFound
	}

	c.Name = req.Name
	c.Email = req.Email
	c.Company = req.Company
	c.Phone = req.Phone
	c.Status = req.Status
	if c.Status == "" {
		c.Status = customer.StatusLead
	}
	c.AssignedSalesID = req.AssignedSalesID
	c.UpdatedAt = time.Now().UTC()

	r.s.customers[id] = c
	return c, nil
}

func (r *Customers) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.customers[id]; !ok {
		return customer.ErrNotFound
	}
	delete(r.s.customers, id)
	return nil
}

func (r *Customers) Count(_ context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.customers), nil
}
