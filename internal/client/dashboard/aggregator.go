// Package dashboard turns the four domain fetches into the dashboard counts.
package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/geocoder89/salescrm/internal/client/fetch"
	"github.com/geocoder89/salescrm/internal/domain/dashboard"
	"golang.org/x/sync/errgroup"
)

type Aggregator struct {
	fetcher *fetch.Fetcher
	log     *slog.Logger

	mu    sync.RWMutex
	stats dashboard.Stats
}

func NewAggregator(fetcher *fetch.Fetcher, log *slog.Logger) *Aggregator {
	if log == nil {
		log = slog.Default()
	}
	return &Aggregator{fetcher: fetcher, log: log}
}

// LoadStats runs the four fetches concurrently and applies the counts only once all have settled.
// A failed fetch counts whatever its fallback produced. If the join itself fails
// (cancellation, a panicking fetch) the previous stats are kept and returned.
func (a *Aggregator) LoadStats(ctx context.Context, token string) dashboard.Stats {
	var next dashboard.Stats

	g, gctx := errgroup.WithContext(ctx)

	count := func(name string, dst *int, fn func(context.Context) int) {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("%s fetch panicked: %v", name, r)
				}
			}()

			*dst = fn(gctx)
			return ctx.Err()
		})
	}

	count("customers", &next.Customers, func(c context.Context) int {
		return len(a.fetcher.Customers(c, token).Items)
	})
	count("tasks", &next.Tasks, func(c context.Context) int {
		return len(a.fetcher.Tasks(c, token).Items)
	})
	count("opportunities", &next.Opportunities, func(c context.Context) int {
		return len(a.fetcher.Opportunities(c, token).Items)
	})
	count("meetings", &next.Meetings, func(c context.Context) int {
		return len(a.fetcher.Meetings(c, token).Items)
	})

	if err := g.Wait(); err != nil {
		a.log.ErrorContext(ctx, "dashboard load failed, keeping previous stats", "err", err)
		return a.Stats()
	}

	a.mu.Lock()
	a.stats = next
	a.mu.Unlock()

	return next
}

func (a *Aggregator) Stats() dashboard.Stats {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.stats
}
