package cache

// key families, versioned so a shape change never reads stale JSON
const (
	KeyCustomersList     = "customers:list:v1"
	KeyTasksList         = "tasks:list:v1"
	KeyMeetingsList      = "meetings:list:v1"
	KeyOpportunitiesList = "opportunities:list:v1"
	KeyDashboardStats    = "analytics:dashboard:v1"
)
