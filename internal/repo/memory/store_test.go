package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/geocoder89/salescrm/internal/domain/audit"
	"github.com/geocoder89/salescrm/internal/domain/customer"
	"github.com/geocoder89/salescrm/internal/domain/user"
	"github.com/geocoder89/salescrm/internal/mockdata"
	"github.com/geocoder89/salescrm/internal/repo/memory"
)

func TestSeededStoreMatchesMockData(t *testing.T) {
	ctx := context.Background()
	s := memory.NewSeededStore()

	n, _ := s.Customers().Count(ctx)
	if n != len(mockdata.Customers()) {
		t.Fatalf("customers: got %d want %d", n, len(mockdata.Customers()))
	}

	tasks, _ := s.ListTasks(ctx)
	if len(tasks) != len(mockdata.Tasks()) {
		t.Fatalf("tasks: got %d want %d", len(tasks), len(mockdata.Tasks()))
	}
	// undated tasks sort last
	if tasks[len(tasks)-1].DueDate != nil {
		t.Fatalf("expected undated task last, got %+v", tasks[len(tasks)-1])
	}
}

func TestCustomersCRUD(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewStore().Customers()

	c, err := repo.Create(ctx, customer.CreateCustomerRequest{Name: "Jane", Email: "jane@x.test", Company: "X"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if c.Status != customer.StatusLead {
		t.Fatalf("default status: got %q", c.Status)
	}

	updated, err := repo.Update(ctx, c.ID, customer.UpdateCustomerRequest{Name: "Jane D", Email: "jane@x.test", Company: "X", Status: "ACTIVE"})
	if err != nil || updated.Name != "Jane D" || updated.Status != "ACTIVE" {
		t.Fatalf("update: %+v %v", updated, err)
	}

	if err := repo.Delete(ctx, c.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.Delete(ctx, c.ID); !errors.Is(err, customer.ErrNotFound) {
		t.Fatalf("second delete: got %v", err)
	}
}

func TestUsersUniqueEmail(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()

	if err := s.Create(ctx, user.User{ID: "1", Email: "A@example.com", Role: user.RoleAdmin}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.Create(ctx, user.User{ID: "2", Email: "a@example.com", Role: user.RoleSales}); !errors.Is(err, user.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}

	u, err := s.GetByEmail(ctx, "a@EXAMPLE.com")
	if err != nil || u.ID != "1" {
		t.Fatalf("lookup: %+v %v", u, err)
	}
}

func TestAuditNewestFirst(t *testing.T) {
	ctx := context.Background()
	a := memory.NewStore().Audit()

	_ = a.Append(ctx, audit.NewEntry("u", audit.ActionCreate, "customer", "1"))
	_ = a.Append(ctx, audit.NewEntry("u", audit.ActionDelete, "customer", "1"))

	got, _ := a.List(ctx, 10)
	if len(got) != 2 || got[0].Action != audit.ActionDelete {
		t.Fatalf("unexpected order: %+v", got)
	}
}
