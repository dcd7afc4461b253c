// Package nav derives the navigation a role may see.
package nav

import "github.com/geocoder89/salescrm/internal/domain/user"

type Entry struct {
	Label string
	Path  string
}

const AuditPath = "/dashboard/audit"

var (
	dashboardEntry     = Entry{Label: "Dashboard", Path: "/dashboard"}
	customersEntry     = Entry{Label: "Customers", Path: "/dashboard/customers"}
	activitiesEntry    = Entry{Label: "Sales Activities", Path: "/dashboard/sales-activities"}
	opportunitiesEntry = Entry{Label: "Opportunities", Path: "/dashboard/opportunities"}
	analyticsEntry     = Entry{Label: "Analytics", Path: "/dashboard/analytics"}
	auditEntry         = Entry{Label: "Audit Log", Path: AuditPath}
)

// Entries lists the navigation for role. Every new Role needs a case here.
func Entries(role user.Role) []Entry {
	common := []Entry{dashboardEntry, customersEntry, activitiesEntry, opportunitiesEntry}

	switch role {
	case user.RoleAdmin, user.RoleManager:
		return append(common, analyticsEntry)
	case user.RoleSales:
		return common
	case user.RoleCompliance:
		return append(common, auditEntry)
	default:
		return []Entry{dashboardEntry}
	}
}

func CanViewAudit(role user.Role) bool {
	switch role {
	case user.RoleCompliance:
		return true
	case user.RoleAdmin, user.RoleManager, user.RoleSales:
		return false
	default:
		return false
	}
}
