package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/geocoder89/salescrm/internal/cache"
	"github.com/geocoder89/salescrm/internal/domain/audit"
	"github.com/geocoder89/salescrm/internal/domain/customer"
	"github.com/gin-gonic/gin"
)

type CustomersRepo interface {
	Create(ctx context.Context, req customer.CreateCustomerRequest) (customer.Customer, error)
	List(ctx context.Context) ([]customer.Customer, error)
	GetByID(ctx context.Context, id string) (customer.Customer, error)
	Update(ctx context.Context, id string, req customer.UpdateCustomerRequest) (customer.Customer, error)
	Delete(ctx context.Context, id string) error
}

type CustomersHandler struct {
	repo  CustomersRepo
	lists *ListCache
	audit *Auditor
}

func NewCustomersHandler(repo CustomersRepo, lists *ListCache, auditor *Auditor) *CustomersHandler {
	return &CustomersHandler{repo: repo, lists: lists, audit: auditor}
}

const entityCustomer = "customer"

func (h *CustomersHandler) List(ctx *gin.Context) {
	h.lists.Serve(ctx, cache.KeyCustomersList, "customers", func(c context.Context) (interface{}, error) {
		cctx, cancel := context.WithTimeout(c, 3*time.Second)
		defer cancel()

		items, err := h.repo.List(cctx)
		if err != nil {
			return nil, err
		}
		return nonNil(items), nil
	})
}

func (h *CustomersHandler) Get(ctx *gin.Context) {
	id, ok := pathID(ctx, "Customer not found")
	if !ok {
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	c, err := h.repo.GetByID(cctx, id)
	if err != nil {
		if errors.Is(err, customer.ErrNotFound) {
			RespondNotFound(ctx, "Customer not found")
			return
		}
		RespondInternal(ctx, "Could not fetch customer")
		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, c)
}

func (h *CustomersHandler) Create(ctx *gin.Context) {
	var req customer.CreateCustomerRequest
	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	c, err := h.repo.Create(cctx, req)
	if err != nil {
		RespondInternal(ctx, "Could not create customer")
		return
	}

	h.lists.Invalidate(cctx, cache.KeyCustomersList)
	h.audit.Record(cctx, audit.ActionCreate, entityCustomer, c.ID)

	ctx.JSON(http.StatusCreated, c)
}

func (h *CustomersHandler) Update(ctx *gin.Context) {
	id, ok := pathID(ctx, "Customer not found")
	if !ok {
		return
	}

	var req customer.UpdateCustomerRequest
	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	c, err := h.repo.Update(cctx, id, req)
	if err != nil {
		if errors.Is(err, customer.ErrNotFound) {
			RespondNotFound(ctx, "Customer not found")
			return
		}
		RespondInternal(ctx, "Could not update customer")
		return
	}

	h.lists.Invalidate(cctx, cache.KeyCustomersList)
	h.audit.Record(cctx, audit.ActionUpdate, entityCustomer, c.ID)

	ctx.JSON(http.StatusOK, c)
}

func (h *CustomersHandler) Delete(ctx *gin.Context) {
	id, ok := pathID(ctx, "Customer not found")
	if !ok {
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	if err := h.repo.Delete(cctx, id); err != nil {
		if errors.Is(err, customer.ErrNotFound) {
			RespondNotFound(ctx, "Customer not found")
			return
		}
		RespondInternal(ctx, "Could not delete customer")
		return
	}

	h.lists.Invalidate(cctx, cache.KeyCustomersList)
	h.audit.Record(cctx, audit.ActionDelete, entityCustomer, id)

	ctx.Status(http.StatusNoContent)
}
