package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/kawasemi/timesheet-api/internal/constants"
	apierrors "github.com/kawasemi/timesheet-api/internal/errors"
	"github.com/kawasemi/timesheet-api/internal/models"
	"github.com/kawasemi/timesheet-api/internal/services"
)

// RequireActiveTenant resolves the session's selected tenant through the
// binding on every request. The stored selection is never trusted: the
// membership behind it is re-validated here, and an unset or degraded
// binding routes the caller to the selection flow instead of defaulting.
func RequireActiveTenant(sessionService *services.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, ok := GetSessionID(c)
		if !ok {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		membership, err := sessionService.ResolveActiveTenant(sessionID)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrTenantNotSelected):
				apierrors.TenantNotSelected(c)
			case errors.Is(err, services.ErrSessionNotFound):
				apierrors.Unauthorized(c, "")
			default:
				apierrors.InternalError(c, "")
			}
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyMembership, *membership)
		c.Set(constants.ContextKeyTenantID, membership.TenantID)
		c.Next()
	}
}

// GetMembership retrieves the validated active-tenant membership from context
func GetMembership(c *gin.Context) (*models.Membership, bool) {
	value, exists := c.Get(constants.ContextKeyMembership)
	if !exists {
		return nil, false
	}

	membership, ok := value.(models.Membership)
	if !ok {
		return nil, false
	}
	return &membership, true
}

// GetTenantID retrieves the validated active tenant ID from context
func GetTenantID(c *gin.Context) (uint64, bool) {
	value, exists := c.Get(constants.ContextKeyTenantID)
	if !exists {
		return 0, false
	}

	id, ok := value.(uint64)
	return id, ok
}
