package activity

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("activity not found")

const (
	TaskStatusOpen         = "OPEN"
	MeetingStatusScheduled = "SCHEDULED"
)

type Task struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description,omitempty"`
	CustomerID      string     `json:"customerId"`
	AssignedSalesID string     `json:"assignedSalesId"`
	DueDate         *time.Time `json:"dueDate,omitempty"`
	Status          string     `json:"status"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

type CreateTaskRequest struct {
	Title           string     `json:"title" binding:"required,min=3,max=160"`
	Description     string     `json:"description" binding:"omitempty,max=2000"`
	CustomerID      string     `json:"customerId" binding:"required,uuid"`
	AssignedSalesID string     `json:"assignedSalesId" binding:"omitempty,uuid"`
	DueDate         *time.Time `json:"dueDate"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,max=40"`
}

func NewTask(req CreateTaskRequest) Task {
	now := time.Now().UTC()
	return Task{
		ID:              uuid.NewString(),
		Title:           req.Title,
		Description:     req.Description,
		CustomerID:      req.CustomerID,
		AssignedSalesID: req.AssignedSalesID,
		DueDate:         req.DueDate,
		Status:          TaskStatusOpen,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}
