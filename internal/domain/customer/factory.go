package customer

import (
	"time"

	"github.com/google/uuid"
)

func NewFromCreateRequest(req CreateCustomerRequest) Customer {
	now := time.Now().UTC()

	status := req.Status
	if status == "" {
		status = StatusLead
	}

	return Customer{
		ID:              uuid.NewString(),
		Name:            req.Name,
		Email:           req.Email,
		Company:         req.Company,
		Phone:           req.Phone,
		Status:          status,
		AssignedSalesID: req.AssignedSalesID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}
