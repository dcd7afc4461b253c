package nav_test

import (
	"testing"

	"github.com/geocoder89/salescrm/internal/client/nav"
	"github.com/geocoder89/salescrm/internal/domain/user"
	"github.com/stretchr/testify/assert"
)

func hasAudit(entries []nav.Entry) bool {
	for _, e := range entries {
		if e.Path == nav.AuditPath {
			return true
		}
	}
	return false
}

func TestEntries_AuditOnlyForCompliance(t *testing.T) {
	for _, role := range user.Roles() {
		t.Run(role.String(), func(t *testing.T) {
			want := role == user.RoleCompliance
			assert.Equal(t, want, hasAudit(nav.Entries(role)))
			assert.Equal(t, want, nav.CanViewAudit(role))
		})
	}
}

func TestEntries_EveryRoleGetsTheCoreViews(t *testing.T) {
	for _, role := range user.Roles() {
		entries := nav.Entries(role)
		assert.GreaterOrEqual(t, len(entries), 4, role)
		assert.Equal(t, "/dashboard", entries[0].Path)
	}
}

func TestEntries_UnknownRole(t *testing.T) {
	entries := nav.Entries(user.Role("ROOT"))
	assert.Equal(t, []nav.Entry{{Label: "Dashboard", Path: "/dashboard"}}, entries)
	assert.False(t, nav.CanViewAudit(user.Role("ROOT")))
}

func TestEntries_DoesNotAliasAcrossCalls(t *testing.T) {
	a := nav.Entries(user.RoleAdmin)
	a[0].Label = "changed"
	assert.Equal(t, "Dashboard", nav.Entries(user.RoleAdmin)[0].Label)
}
