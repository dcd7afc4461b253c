// Package analytics computes the dashboard summary counts on the server.
package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/geocoder89/salescrm/internal/cache"
	"github.com/geocoder89/salescrm/internal/domain/dashboard"
	"github.com/geocoder89/salescrm/internal/observability"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"
)

type Counter func(ctx context.Context) (int, error)

// Sources are the four collections behind the dashboard.
type Sources struct {
	Customers     Counter
	Tasks         Counter
	Opportunities Counter
	Meetings      Counter
}

type CacheMetrics interface {
	CacheResult(family, result string)
}

type Service struct {
	src     Sources
	store   cache.Store
	ttl     time.Duration
	metrics CacheMetrics
	log     *slog.Logger
}

// NewService wires the counters; store may be nil to disable caching.
func NewService(src Sources, store cache.Store, ttl time.Duration, metrics CacheMetrics, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{src: src, store: store, ttl: ttl, metrics: metrics, log: log}
}

func (s *Service) record(result string) {
	if s.metrics != nil {
		s.metrics.CacheResult("dashboard", result)
	}
}

// Dashboard returns the four counts. Any single count failing fails the whole call.
func (s *Service) Dashboard(ctx context.Context) (dashboard.Stats, error) {
	ctx, span := observability.Tracer("analytics").Start(ctx, "analytics.Dashboard")
	defer span.End()

	if stats, ok := s.cached(ctx); ok {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return stats, nil
	}
	span.SetAttributes(attribute.Bool("cache.hit", false))

	stats, err := s.count(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "count failed")
		return dashboard.Stats{}, err
	}

	s.fill(ctx, stats)
	return stats, nil
}

func (s *Service) count(ctx context.Context) (dashboard.Stats, error) {
	var stats dashboard.Stats

	g, gctx := errgroup.WithContext(ctx)

	run := func(name string, c Counter, dst *int) {
		g.Go(func() error {
			if c == nil {
				return fmt.Errorf("count %s: no source", name)
			}
			n, err := c(gctx)
			if err != nil {
				return fmt.Errorf("count %s: %w", name, err)
			}
			*dst = n
			return nil
		})
	}

	run("customers", s.src.Customers, &stats.Customers)
	run("tasks", s.src.Tasks, &stats.Tasks)
	run("opportunities", s.src.Opportunities, &stats.Opportunities)
	run("meetings", s.src.Meetings, &stats.Meetings)

	if err := g.Wait(); err != nil {
		return dashboard.Stats{}, err
	}
	return stats, nil
}

func (s *Service) cached(ctx context.Context) (dashboard.Stats, bool) {
	if s.store == nil {
		return dashboard.Stats{}, false
	}

	b, ok, err := s.store.Get(ctx, cache.KeyDashboardStats)
	if err != nil {
		s.record("error")
		s.log.WarnContext(ctx, "dashboard cache get failed", "err", err)
		return dashboard.Stats{}, false
	}
	if !ok {
		s.record("miss")
		return dashboard.Stats{}, false
	}

	var stats dashboard.Stats
	if err := json.Unmarshal(b, &stats); err != nil {
		s.record("error")
		return dashboard.Stats{}, false
	}

	s.record("hit")
	return stats, true
}

func (s *Service) fill(ctx context.Context, stats dashboard.Stats) {
	if s.store == nil {
		return
	}

	b, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := s.store.Set(ctx, cache.KeyDashboardStats, b, s.ttl); err != nil {
		s.log.WarnContext(ctx, "dashboard cache set failed", "err", err)
	}
}
