package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/kawasemi/timesheet-api/internal/authz"
	apierrors "github.com/kawasemi/timesheet-api/internal/errors"
	"github.com/kawasemi/timesheet-api/internal/metrics"
)

// RequirePermission enforces the permission boundary for one declared
// permission. System-level permissions consult only the identity's system
// role. Tenant-scoped permissions must run after RequireActiveTenant so the
// membership in context is the re-validated one; the matrix is a strict
// allow-list, so a system administrator holding no tenant grant is denied
// tenant-scoped reads like anyone else.
func RequirePermission(perm authz.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := GetIdentity(c)
		if !ok {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		membership, _ := GetMembership(c)

		if err := authz.Authorize(identity, membership, perm); err != nil {
			switch {
			case errors.Is(err, authz.ErrTenantRequired):
				apierrors.TenantNotSelected(c)
			default:
				metrics.RecordAuthzDenial(string(perm))
				apierrors.Forbidden(c, "")
			}
			c.Abort()
			return
		}

		c.Next()
	}
}
