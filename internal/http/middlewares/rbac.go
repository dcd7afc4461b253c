package middlewares

import (
	"net/http"
	"strings"

	"github.com/geocoder89/salescrm/internal/domain/user"
	"github.com/gin-gonic/gin"
)

// RequireRole lets the request through when the caller holds any of the given roles.
func (m *AuthMiddleware) RequireRole(allowed ...user.Role) gin.HandlerFunc {
	set := make(map[user.Role]struct{}, len(allowed))
	names := make([]string, 0, len(allowed))
	for _, r := range allowed {
		set[r] = struct{}{}
		names = append(names, r.String())
	}
	message := "Requires role: " + strings.Join(names, ", ")

	return func(c *gin.Context) {
		role, ok := RoleFromContext(c)

		if !ok || role == "" {
			abortUnauthorized(c, "Missing identity context")
			return
		}
		if _, ok := set[role]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": gin.H{
					"code":    "forbidden",
					"message": message,
				},
			})
			return
		}
		c.Next()
	}
}
