package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/geocoder89/salescrm/internal/cache"
	"github.com/geocoder89/salescrm/internal/domain/activity"
	"github.com/geocoder89/salescrm/internal/domain/audit"
	"github.com/gin-gonic/gin"
)

type ActivitiesRepo interface {
	CreateTask(ctx context.Context, t activity.Task) error
	ListTasks(ctx context.Context) ([]activity.Task, error)
	UpdateTaskStatus(ctx context.Context, id, status string) (activity.Task, error)
	CreateMeeting(ctx context.Context, m activity.Meeting) error
	ListMeetings(ctx context.Context) ([]activity.Meeting, error)
}

// ActivitiesHandler serves tasks and meetings under /sales-activities.
type ActivitiesHandler struct {
	repo  ActivitiesRepo
	lists *ListCache
	audit *Auditor
}

func NewActivitiesHandler(repo ActivitiesRepo, lists *ListCache, auditor *Auditor) *ActivitiesHandler {
	return &ActivitiesHandler{repo: repo, lists: lists, audit: auditor}
}

func (h *ActivitiesHandler) ListTasks(ctx *gin.Context) {
	h.lists.Serve(ctx, cache.KeyTasksList, "tasks", func(c context.Context) (interface{}, error) {
		cctx, cancel := context.WithTimeout(c, 3*time.Second)
		defer cancel()

		items, err := h.repo.ListTasks(cctx)
		if err != nil {
			return nil, err
		}
		return nonNil(items), nil
	})
}

func (h *ActivitiesHandler) CreateTask(ctx *gin.Context) {
	var req activity.CreateTaskRequest
	if !BindJSON(ctx, &req) {
		return
	}

	t := activity.NewTask(req)

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	if err := h.repo.CreateTask(cctx, t); err != nil {
		RespondInternal(ctx, "Could not create task")
		return
	}

	h.lists.Invalidate(cctx, cache.KeyTasksList)
	h.audit.Record(cctx, audit.ActionCreate, "task", t.ID)

	ctx.JSON(http.StatusCreated, t)
}

func (h *ActivitiesHandler) UpdateTaskStatus(ctx *gin.Context) {
	id, ok := pathID(ctx, "Task not found")
	if !ok {
		return
	}

	var req activity.UpdateStatusRequest
	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	t, err := h.repo.UpdateTaskStatus(cctx, id, req.Status)
	if err != nil {
		if errors.Is(err, activity.ErrNotFound) {
			RespondNotFound(ctx, "Task not found")
			return
		}
		RespondInternal(ctx, "Could not update task")
		return
	}

	h.lists.Invalidate(cctx, cache.KeyTasksList)
	h.audit.Record(cctx, audit.ActionUpdate, "task", t.ID)

	ctx.JSON(http.StatusOK, t)
}

func (h *ActivitiesHandler) ListMeetings(ctx *gin.Context) {
	h.lists.Serve(ctx, cache.KeyMeetingsList, "meetings", func(c context.Context) (interface{}, error) {
		cctx, cancel := context.WithTimeout(c, 3*time.Second)
		defer cancel()

		items, err := h.repo.ListMeetings(cctx)
		if err != nil {
			return nil, err
		}
		return nonNil(items), nil
	})
}

func (h *ActivitiesHandler) CreateMeeting(ctx *gin.Context) {
	var req activity.CreateMeetingRequest
	if !BindJSON(ctx, &req) {
		return
	}

	if req.EndAt != nil && req.EndAt.Before(req.StartAt) {
		RespondBadRequest(ctx, "Invalid request body", gin.H{
			"fields": []FieldError{{Field: "endAt", Rule: "gtefield", Param: "startAt", Message: "must not be before startAt"}},
		})
		return
	}

	m := activity.NewMeeting(req)

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	if err := h.repo.CreateMeeting(cctx, m); err != nil {
		RespondInternal(ctx, "Could not create meeting")
		return
	}

	h.lists.Invalidate(cctx, cache.KeyMeetingsList)
	h.audit.Record(cctx, audit.ActionCreate, "meeting", m.ID)

	ctx.JSON(http.StatusCreated, m)
}
