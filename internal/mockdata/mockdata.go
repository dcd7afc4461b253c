// Package mockdata is the fixed demo dataset. The client substitutes it when demo mode is on
// and a fetch fails; the in-memory API store seeds from it.
//
// Each call returns a fresh slice so callers may mutate what they get.
package mockdata

import (
	"time"

	"github.com/geocoder89/salescrm/internal/domain/activity"
	"github.com/geocoder89/salescrm/internal/domain/customer"
	"github.com/geocoder89/salescrm/internal/domain/opportunity"
)

const (
	customerAcmeID    = "6f1c2a52-4c1e-4f0b-9a57-0c3f3b1d8a01"
	customerGlobexID  = "6f1c2a52-4c1e-4f0b-9a57-0c3f3b1d8a02"
	customerInitechID = "6f1c2a52-4c1e-4f0b-9a57-0c3f3b1d8a03"

	salesRepID = "2b7d9a10-1e3f-4c55-8a1b-5d6e7f809a10"
)

var epoch = time.Date(2025, time.January, 6, 9, 0, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

func Customers() []customer.Customer {
	rep := salesRepID
	return []customer.Customer{
		{ID: customerAcmeID, Name: "Wile E. Coyote", Email: "wile@acme.test", Company: "Acme Corp", Phone: strPtr("+1-555-0100"), Status: "ACTIVE", AssignedSalesID: &rep, CreatedAt: epoch, UpdatedAt: epoch},
		{ID: customerGlobexID, Name: "Hank Scorpio", Email: "hank@globex.test", Company: "Globex", Status: "LEAD", AssignedSalesID: &rep, CreatedAt: epoch, UpdatedAt: epoch},
		{ID: customerInitechID, Name: "Bill Lumbergh", Email: "bill@initech.test", Company: "Initech", Phone: strPtr("+1-555-0199"), Status: "INACTIVE", CreatedAt: epoch, UpdatedAt: epoch},
	}
}

func Tasks() []activity.Task {
	return []activity.Task{
		{ID: "a3c1f7e2-0b1d-4e8a-9f00-000000000001", Title: "Send pricing sheet", CustomerID: customerAcmeID, AssignedSalesID: salesRepID, DueDate: timePtr(epoch.AddDate(0, 0, 2)), Status: "OPEN", CreatedAt: epoch, UpdatedAt: epoch},
		{ID: "a3c1f7e2-0b1d-4e8a-9f00-000000000002", Title: "Follow up on demo", CustomerID: customerGlobexID, AssignedSalesID: salesRepID, DueDate: timePtr(epoch.AddDate(0, 0, 5)), Status: "OPEN", CreatedAt: epoch, UpdatedAt: epoch},
		{ID: "a3c1f7e2-0b1d-4e8a-9f00-000000000003", Title: "Collect signed NDA", CustomerID: customerInitechID, AssignedSalesID: salesRepID, Status: "DONE", CreatedAt: epoch, UpdatedAt: epoch},
		{ID: "a3c1f7e2-0b1d-4e8a-9f00-000000000004", Title: "Quarterly check-in", CustomerID: customerAcmeID, AssignedSalesID: salesRepID, DueDate: timePtr(epoch.AddDate(0, 1, 0)), Status: "OPEN", CreatedAt: epoch, UpdatedAt: epoch},
	}
}

func Meetings() []activity.Meeting {
	return []activity.Meeting{
		{ID: "b4d2e8f3-1c2e-4f9b-8a11-000000000001", Title: "Discovery call", CustomerID: customerGlobexID, AssignedSalesID: salesRepID, StartAt: epoch.AddDate(0, 0, 1), EndAt: timePtr(epoch.AddDate(0, 0, 1).Add(30 * time.Minute)), Location: "Zoom", Status: "SCHEDULED", CreatedAt: epoch, UpdatedAt: epoch},
		{ID: "b4d2e8f3-1c2e-4f9b-8a11-000000000002", Title: "Contract review", CustomerID: customerAcmeID, AssignedSalesID: salesRepID, StartAt: epoch.AddDate(0, 0, 3), Location: "Acme HQ", Status: "SCHEDULED", CreatedAt: epoch, UpdatedAt: epoch},
	}
}

func Opportunities() []opportunity.Opportunity {
	return []opportunity.Opportunity{
		{ID: "c5e3f9a4-2d3f-4a0c-9b22-000000000001", Title: "Acme anvil fleet renewal", CustomerID: customerAcmeID, AssignedSalesID: salesRepID, Amount: 125000, Stage: "NEGOTIATION", CreatedAt: epoch, UpdatedAt: epoch},
		{ID: "c5e3f9a4-2d3f-4a0c-9b22-000000000002", Title: "Globex pilot", CustomerID: customerGlobexID, AssignedSalesID: salesRepID, Amount: 18000, Stage: "PROSPECTING", CreatedAt: epoch, UpdatedAt: epoch},
		{ID: "c5e3f9a4-2d3f-4a0c-9b22-000000000003", Title: "Initech TPS tooling", CustomerID: customerInitechID, AssignedSalesID: salesRepID, Amount: 4200, Stage: "CLOSED_LOST", CreatedAt: epoch, UpdatedAt: epoch},
	}
}
