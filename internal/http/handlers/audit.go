package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/geocoder89/salescrm/internal/domain/audit"
	"github.com/gin-gonic/gin"
)

const (
	defaultAuditLimit = 100
	maxAuditLimit     = 500
)

type AuditLister interface {
	List(ctx context.Context, limit int) ([]audit.Entry, error)
}

type AuditHandler struct {
	repo AuditLister
}

func NewAuditHandler(repo AuditLister) *AuditHandler {
	return &AuditHandler{repo: repo}
}

// List returns the newest entries first. ?limit= is clamped to [1, 500].
func (h *AuditHandler) List(ctx *gin.Context) {
	limit := defaultAuditLimit
	if raw := ctx.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			RespondBadRequest(ctx, "Invalid query", gin.H{
				"fields": []FieldError{{Field: "limit", Rule: "min", Param: "1", Message: validationMessage("min", "1")}},
			})
			return
		}
		limit = min(n, maxAuditLimit)
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	entries, err := h.repo.List(cctx, limit)
	if err != nil {
		RespondInternal(ctx, "Could not list audit entries")
		return
	}

	ctx.JSON(http.StatusOK, nonNil(entries))
}
