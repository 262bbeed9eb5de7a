package middleware

import (
	"net/http"

	"hotel-concierge-platform/utils"

	"github.com/gin-gonic/gin"
)

type RoleMiddleware struct{}

func NewRoleMiddleware() *RoleMiddleware {
	return &RoleMiddleware{}
}

func (r *RoleMiddleware) RequireRole(allowedRoles ...string) gin.HandlerFunc {
	return gin.HandlerFunc(func(c *gin.Context) {
		role := GetRole(c)
		if role == "" {
			utils.RespondWithError(c, http.StatusUnauthorized,
				"unauthorized", "User role not found", nil)
			c.Abort()
			return
		}

		hasRole := false
		for _, allowedRole := range allowedRoles {
			if role == allowedRole {
				hasRole = true
				break
			}
		}

		if !hasRole {
			utils.RespondWithError(c, http.StatusForbidden,
				"forbidden", "Insufficient permissions",
				gin.H{
					"required_roles": allowedRoles,
					"user_role":      role,
				})
			c.Abort()
			return
		}

		c.Next()
	})
}

// SuperadminGuard protects the master panel.
func (r *RoleMiddleware) SuperadminGuard() gin.HandlerFunc {
	return r.RequireRole("superadmin")
}

// TenantGuard admits any tenant-scoped role plus superadmins.
func (r *RoleMiddleware) TenantGuard() gin.HandlerFunc {
	return r.RequireRole("admin", "staff", "superadmin")
}

// RequireTenantAccess blocks tenant-scoped users from reaching another
// tenant's resources. Superadmins pass through to any tenant.
func (r *RoleMiddleware) RequireTenantAccess() gin.HandlerFunc {
	return gin.HandlerFunc(func(c *gin.Context) {
		role := GetRole(c)
		userTenantID := GetTenantID(c)

		if role == "superadmin" {
			c.Next()
			return
		}

		if userTenantID == "" {
			utils.RespondWithError(c, http.StatusForbidden,
				"forbidden", "Tenant scope required for this operation", nil)
			c.Abort()
			return
		}

		requestedTenantID := c.Param("id")
		if requestedTenantID == "" {
			requestedTenantID = c.Param("tenant_id")
		}

		if requestedTenantID != "" && requestedTenantID != userTenantID {
			utils.RespondWithError(c, http.StatusForbidden,
				"forbidden", "Access denied to this tenant", nil)
			c.Abort()
			return
		}

		c.Next()
	})
}

func IsSuperadmin(c *gin.Context) bool {
	return GetRole(c) == "superadmin"
}

// CanAccessTenant checks tenant ownership for handlers that resolve the
// tenant themselves.
func CanAccessTenant(c *gin.Context, targetTenantID string) bool {
	if IsSuperadmin(c) {
		return true
	}
	return GetTenantID(c) == targetTenantID
}
