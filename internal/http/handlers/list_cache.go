package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/geocoder89/salescrm/internal/cache"
	"github.com/gin-gonic/gin"
)

type CacheMetrics interface {
	CacheResult(family, result string)
}

// ListCache fronts the list endpoints. Cache errors are logged and treated as a miss.
type ListCache struct {
	store   cache.Store
	ttl     time.Duration
	metrics CacheMetrics
	log     *slog.Logger
}

func NewListCache(store cache.Store, ttl time.Duration, metrics CacheMetrics, log *slog.Logger) *ListCache {
	if log == nil {
		log = slog.Default()
	}
	return &ListCache{store: store, ttl: ttl, metrics: metrics, log: log}
}

func (lc *ListCache) record(family, result string) {
	if lc.metrics != nil {
		lc.metrics.CacheResult(family, result)
	}
}

// Serve answers from the cache under key, or runs load and fills it.
func (lc *ListCache) Serve(ctx *gin.Context, key, family string, load func(context.Context) (interface{}, error)) {
	reqCtx := ctx.Request.Context()

	if lc == nil || lc.store == nil {
		payload, err := load(reqCtx)
		if err != nil {
			RespondInternal(ctx, "Could not list "+family)
			return
		}
		RespondJSONWithETag(ctx, http.StatusOK, payload)
		return
	}

	body, ok, err := lc.store.Get(reqCtx, key)
	if err != nil {
		lc.record(family, "error")
		lc.log.WarnContext(reqCtx, "cache get failed", "key", key, "err", err)
	}
	if ok {
		lc.record(family, "hit")
		RespondRawJSONWithETag(ctx, http.StatusOK, body)
		return
	}
	lc.record(family, "miss")

	payload, err := load(reqCtx)
	if err != nil {
		lc.log.ErrorContext(reqCtx, "list load failed", "family", family, "err", err)
		RespondInternal(ctx, "Could not list "+family)
		return
	}

	body, err = json.Marshal(payload)
	if err != nil {
		RespondInternal(ctx, "Could not encode "+family)
		return
	}

	if err := lc.store.Set(reqCtx, key, body, lc.ttl); err != nil {
		lc.log.WarnContext(reqCtx, "cache set failed", "key", key, "err", err)
	}

	RespondRawJSONWithETag(ctx, http.StatusOK, body)
}

// Invalidate drops the given keys plus the dashboard counts, which every write can change.
func (lc *ListCache) Invalidate(ctx context.Context, keys ...string) {
	if lc == nil || lc.store == nil {
		return
	}

	keys = append(keys, cache.KeyDashboardStats)
	if err := lc.store.Del(ctx, keys...); err != nil {
		lc.log.WarnContext(ctx, "cache invalidate failed", "keys", keys, "err", err)
	}
}

// nonNil keeps empty lists encoding as [] rather than null.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
