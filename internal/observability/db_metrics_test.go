package observability

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestClassifyDBErr(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"unique", &pgconn.PgError{Code: "23505"}, "unique_violation"},
		{"fk", fmt.Errorf("wrapped: %w", &pgconn.PgError{Code: "23503"}), "foreign_key_violation"},
		{"other_pg", &pgconn.PgError{Code: "22001"}, "pg_22001"},
		{"bad uuid", &pgconn.PgError{Code: "22P02"}, "invalid_text"},
		{"deadline", fmt.Errorf("list: %w", context.DeadlineExceeded), "timeout"},
		{"canceled", context.Canceled, "canceled"},
		{"conn", errors.New("failed to connect: connection refused"), "connection"},
		{"unknown", errors.New("boom"), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyDBErr(tt.err); got != tt.want {
				t.Fatalf("got %q want %q", got, tt.want)
			}
		})
	}
}

func TestObserveDBCountsErrors(t *testing.T) {
	p := NewProm(prometheus.NewRegistry())

	_ = p.ObserveDB("customers.list", func() error { return nil })
	_ = p.ObserveDB("customers.list", func() error { return &pgconn.PgError{Code: "23505"} })

	_ = p.ObserveDB("customers.get", func() error { return fmt.Errorf("get: %w", pgx.ErrNoRows) })

	if got := testutil.ToFloat64(p.DbErrorsTotal.WithLabelValues("customers.list", "unique_violation")); got != 1 {
		t.Fatalf("got %v errors, want 1", got)
	}
	if got := testutil.CollectAndCount(p.DbErrorsTotal); got != 1 {
		t.Fatalf("a miss should not count as an error, got %d series", got)
	}
}

func TestNilPromIsSafe(t *testing.T) {
	var p *Prom

	called := false
	if err := p.ObserveDB("x", func() error { called = true; return nil }); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !called {
		t.Fatalf("fn not called")
	}

	p.CacheResult("customers", "hit")
	p.LoginResult("ok")
}
