// Package dashboard holds the summary counts shown on the dashboard.
// They are derived on every visit and never stored.
package dashboard

type Stats struct {
	Customers     int `json:"customers"`
	Tasks         int `json:"tasks"`
	Opportunities int `json:"opportunities"`
	Meetings      int `json:"meetings"`
}
