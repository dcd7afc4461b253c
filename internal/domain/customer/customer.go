package customer

import (
	"errors"
	"time"
)

type Customer struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Company         string    `json:"company"`
	Phone           *string   `json:"phone,omitempty"`
	Status          string    `json:"status"`
	AssignedSalesID *string   `json:"assignedSalesId,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

var ErrNotFound = errors.New("customer not found")

const StatusLead = "LEAD"

type CreateCustomerRequest struct {
	Name            string  `json:"name" binding:"required,min=2,max=120"`
	Email           string  `json:"email" binding:"required,email"`
	Company         string  `json:"company" binding:"required,max=160"`
	Phone           *string `json:"phone" binding:"omitempty,max=40"`
	Status          string  `json:"status" binding:"omitempty,max=40"`
	AssignedSalesID *string `json:"assignedSalesId" binding:"omitempty,uuid"`
}

// full replacement, same shape as create
type UpdateCustomerRequest = CreateCustomerRequest
