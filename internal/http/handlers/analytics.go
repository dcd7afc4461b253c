package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/geocoder89/salescrm/internal/domain/dashboard"
	"github.com/gin-gonic/gin"
)

type StatsProvider interface {
	Dashboard(ctx context.Context) (dashboard.Stats, error)
}

type AnalyticsHandler struct {
	stats StatsProvider
}

func NewAnalyticsHandler(stats StatsProvider) *AnalyticsHandler {
	return &AnalyticsHandler{stats: stats}
}

func (h *AnalyticsHandler) Dashboard(ctx *gin.Context) {
	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 5*time.Second)
	defer cancel()

	stats, err := h.stats.Dashboard(cctx)
	if err != nil {
		RespondInternal(ctx, "Could not compute dashboard stats")
		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, stats)
}
