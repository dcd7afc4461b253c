package activity

import (
	"time"

	"github.com/google/uuid"
)

type Meeting struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	CustomerID      string     `json:"customerId"`
	AssignedSalesID string     `json:"assignedSalesId"`
	StartAt         time.Time  `json:"startAt"`
	EndAt           *time.Time `json:"endAt,omitempty"`
	Location        string     `json:"location,omitempty"`
	Status          string     `json:"status"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

type CreateMeetingRequest struct {
	Title           string     `json:"title" binding:"required,min=3,max=160"`
	CustomerID      string     `json:"customerId" binding:"required,uuid"`
	AssignedSalesID string     `json:"assignedSalesId" binding:"omitempty,uuid"`
	StartAt         time.Time  `json:"startAt" binding:"required"`
	EndAt           *time.Time `json:"endAt"`
	Location        string     `json:"location" binding:"omitempty,max=200"`
}

func NewMeeting(req CreateMeetingRequest) Meeting {
	now := time.Now().UTC()
	return Meeting{
		ID:              uuid.NewString(),
		Title:           req.Title,
		CustomerID:      req.CustomerID,
		AssignedSalesID: req.AssignedSalesID,
		StartAt:         req.StartAt,
		EndAt:           req.EndAt,
		Location:        req.Location,
		Status:          MeetingStatusScheduled,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}
