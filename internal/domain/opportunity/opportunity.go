package opportunity

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("opportunity not found")

const StageProspecting = "PROSPECTING"

type Opportunity struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	CustomerID      string    `json:"customerId"`
	AssignedSalesID string    `json:"assignedSalesId"`
	Amount          float64   `json:"amount"`
	Stage           string    `json:"stage"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

type CreateOpportunityRequest struct {
	Title           string  `json:"title" binding:"required,min=3,max=160"`
	CustomerID      string  `json:"customerId" binding:"required,uuid"`
	AssignedSalesID string  `json:"assignedSalesId" binding:"omitempty,uuid"`
	Amount          float64 `json:"amount" binding:"gte=0"`
	Stage           string  `json:"stage" binding:"omitempty,max=40"`
}

type UpdateStageRequest struct {
	Stage string `json:"stage" binding:"required,max=40"`
}

func New(req CreateOpportunityRequest) Opportunity {
	now := time.Now().UTC()

	stage := req.Stage
	if stage == "" {
		stage = StageProspecting
	}

	return Opportunity{
		ID:              uuid.NewString(),
		Title:           req.Title,
		CustomerID:      req.CustomerID,
		AssignedSalesID: req.AssignedSalesID,
		Amount:          req.Amount,
		Stage:           stage,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}
