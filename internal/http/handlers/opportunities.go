package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/geocoder89/salescrm/internal/cache"
	"github.com/geocoder89/salescrm/internal/domain/audit"
	"github.com/geocoder89/salescrm/internal/domain/opportunity"
	"github.com/gin-gonic/gin"
)

type OpportunitiesRepo interface {
	Create(ctx context.Context, o opportunity.Opportunity) error
	List(ctx context.Context) ([]opportunity.Opportunity, error)
	UpdateStage(ctx context.Context, id, stage string) (opportunity.Opportunity, error)
}

type OpportunitiesHandler struct {
	repo  OpportunitiesRepo
	lists *ListCache
	audit *Auditor
}

func NewOpportunitiesHandler(repo OpportunitiesRepo, lists *ListCache, auditor *Auditor) *OpportunitiesHandler {
	return &OpportunitiesHandler{repo: repo, lists: lists, audit: auditor}
}

func (h *OpportunitiesHandler) List(ctx *gin.Context) {
	h.lists.Serve(ctx, cache.KeyOpportunitiesList, "opportunities", func(c context.Context) (interface{}, error) {
		cctx, cancel := context.WithTimeout(c, 3*time.Second)
		defer cancel()

		items, err := h.repo.List(cctx)
		if err != nil {
			return nil, err
		}
		return nonNil(items), nil
	})
}

func (h *OpportunitiesHandler) Create(ctx *gin.Context) {
	var req opportunity.CreateOpportunityRequest
	if !BindJSON(ctx, &req) {
		return
	}

	o := opportunity.New(req)

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	if err := h.repo.Create(cctx, o); err != nil {
		RespondInternal(ctx, "Could not create opportunity")
		return
	}

	h.lists.Invalidate(cctx, cache.KeyOpportunitiesList)
	h.audit.Record(cctx, audit.ActionCreate, "opportunity", o.ID)

	ctx.JSON(http.StatusCreated, o)
}

func (h *OpportunitiesHandler) UpdateStage(ctx *gin.Context) {
	id, ok := pathID(ctx, "Opportunity not found")
	if !ok {
		return
	}

	var req opportunity.UpdateStageRequest
	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	o, err := h.repo.UpdateStage(cctx, id, req.Stage)
	if err != nil {
		if errors.Is(err, opportunity.ErrNotFound) {
			RespondNotFound(ctx, "Opportunity not found")
			return
		}
		RespondInternal(ctx, "Could not update opportunity")
		return
	}

	h.lists.Invalidate(cctx, cache.KeyOpportunitiesList)
	h.audit.Record(cctx, audit.ActionUpdate, "opportunity", o.ID)

	ctx.JSON(http.StatusOK, o)
}
