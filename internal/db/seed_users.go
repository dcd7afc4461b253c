package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/geocoder89/salescrm/internal/config"
	"github.com/geocoder89/salescrm/internal/domain/user"
	"github.com/geocoder89/salescrm/internal/security"
	"github.com/google/uuid"
)

type UserSeeder interface {
	GetByEmail(ctx context.Context, email string) (user.User, error)
	Create(ctx context.Context, u user.User) error
}

type SeedUser struct {
	Email    string
	Password string
	Name     string
	Role     user.Role
}

// DemoUsers is one account per role, handy for local runs and the CLI demo.
func DemoUsers() []SeedUser {
	return []SeedUser{
		{Email: "admin@example.com", Password: "Admin123!", Name: "Ada Admin", Role: user.RoleAdmin},
		{Email: "manager@example.com", Password: "Manager123!", Name: "Max Manager", Role: user.RoleManager},
		{Email: "sales@example.com", Password: "Sales123!", Name: "Sam Sales", Role: user.RoleSales},
		{Email: "compliance@example.com", Password: "Compliance123!", Name: "Cleo Compliance", Role: user.RoleCompliance},
	}
}

// EnsureUsers creates the configured admin (and demo users when enabled) if they are missing.
func EnsureUsers(ctx context.Context, store UserSeeder, cfg config.Config) error {
	var seeds []SeedUser

	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		role, err := user.ParseRole(cfg.AdminRole)
		if err != nil {
			return fmt.Errorf("admin role: %w", err)
		}
		seeds = append(seeds, SeedUser{Email: cfg.AdminEmail, Password: cfg.AdminPassword, Name: cfg.AdminName, Role: role})
	}

	if cfg.SeedDemoUsers {
		seeds = append(seeds, DemoUsers()...)
	}

	for _, s := range seeds {
		if err := ensureUser(ctx, store, s); err != nil {
			return fmt.Errorf("seed %s: %w", s.Email, err)
		}
	}
	return nil
}

func ensureUser(ctx context.Context, store UserSeeder, s SeedUser) error {
	_, err := store.GetByEmail(ctx, s.Email)

	if err == nil {
		return nil
	}

	if !errors.Is(err, user.ErrNotFound) {
		return err
	}

	hash, err := security.HashPassword(s.Password)

	if err != nil {
		return err
	}

	now := time.Now().UTC()

	err = store.Create(ctx, user.User{
		ID:           uuid.NewString(),
		Email:        s.Email,
		PasswordHash: hash,
		Name:         s.Name,
		Role:         s.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	})

	// lost a race with another instance
	if errors.Is(err, user.ErrEmailTaken) {
		return nil
	}
	return err
}
