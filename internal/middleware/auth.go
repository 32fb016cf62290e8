package middleware

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/kawasemi/timesheet-api/internal/constants"
	apierrors "github.com/kawasemi/timesheet-api/internal/errors"
	"github.com/kawasemi/timesheet-api/internal/models"
	"github.com/kawasemi/timesheet-api/internal/services"
)

// RequireAuth authenticates the request from the session cookie. The cookie
// carries only the server-side session ID; the session row and the identity
// are loaded fresh on every request. An expired session is indistinguishable
// from no session.
func RequireAuth(sessionService *services.SessionService, authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		cookieSession := sessions.Default(c)
		rawID := cookieSession.Get(constants.SessionKeySessionID)

		sessionID, ok := rawID.(string)
		if !ok || sessionID == "" {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		session, err := sessionService.Get(sessionID)
		if err != nil {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		identity, err := authService.GetIdentity(session.UserID)
		if err != nil || identity.AccountStatus != models.AccountActive {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeySessionID, session.ID)
		c.Set(constants.ContextKeyUserID, identity.ID)
		c.Set(constants.ContextKeyIdentity, *identity)
		c.Next()
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}

	id, ok := userID.(uint64)
	return id, ok
}

// GetSessionID retrieves the server-side session ID from context
func GetSessionID(c *gin.Context) (string, bool) {
	sessionID, exists := c.Get(constants.ContextKeySessionID)
	if !exists {
		return "", false
	}

	id, ok := sessionID.(string)
	return id, ok
}

// GetIdentity retrieves the authenticated identity from context
func GetIdentity(c *gin.Context) (*models.Identity, bool) {
	value, exists := c.Get(constants.ContextKeyIdentity)
	if !exists {
		return nil, false
	}

	identity, ok := value.(models.Identity)
	if !ok {
		return nil, false
	}
	return &identity, true
}
