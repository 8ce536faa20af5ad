package http

import (
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Froztyzin/Projeto-Ellite-App-sub001/internal/domain/entity"
)

// RoleHeader carries the role of the current user
const RoleHeader = "X-User-Role"

const roleKey = "role"

// roleMiddleware stores the caller's role in the gin context
func roleMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		role := entity.Role(strings.ToLower(strings.TrimSpace(c.GetHeader(RoleHeader))))
		c.Set(roleKey, role)
		c.Next()
	}
}

// requireRole rejects callers whose role is not listed. An empty list
// falls back to the built-in privileged roles.
func requireRole(allowed []entity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := roleOf(c)
		ok := role.IsPrivileged()
		if len(allowed) > 0 {
			ok = slices.Contains(allowed, role)
		}
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, Response{
				Success: false,
				Error:   "operation requires a privileged role",
			})
			return
		}
		c.Next()
	}
}

func roleOf(c *gin.Context) entity.Role {
	if v, ok := c.Get(roleKey); ok {
		if role, ok := v.(entity.Role); ok {
			return role
		}
	}
	return ""
}
