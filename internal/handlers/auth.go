package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kawasemi/timesheet-api/internal/constants"
	"github.com/kawasemi/timesheet-api/internal/dto"
	apierrors "github.com/kawasemi/timesheet-api/internal/errors"
	"github.com/kawasemi/timesheet-api/internal/logging"
	"github.com/kawasemi/timesheet-api/internal/middleware"
	"github.com/kawasemi/timesheet-api/internal/models"
	"github.com/kawasemi/timesheet-api/internal/services"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService    *services.AuthService
	sessionService *services.SessionService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, sessionService *services.SessionService) *AuthHandler {
	return &AuthHandler{
		authService:    authService,
		sessionService: sessionService,
	}
}

// Signup registers a new global identity.
func (h *AuthHandler) Signup(c *gin.Context) {
	type SignupRequest struct {
		Email       string `json:"email" binding:"required,email"`
		DisplayName string `json:"display_name" binding:"max=255"`
		Password    string `json:"password" binding:"required"`
	}

	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	identity, err := h.authService.Signup(services.SignupInput{
		Email:       req.Email,
		DisplayName: req.DisplayName,
		Password:    req.Password,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToIdentityDTO(*identity))
}

// Login authenticates an identity, creates the server-side session, and
// stores only its ID in the cookie.
func (h *AuthHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	identity, err := h.authService.Login(services.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	session, err := h.sessionService.CreateForLogin(identity)
	if err != nil {
		logging.FromContext(c).Error("Failed to create session", zap.Error(err))
		apierrors.InternalError(c, "Failed to create session")
		return
	}

	cookieSession := sessions.Default(c)
	cookieSession.Set(constants.SessionKeySessionID, session.ID)
	if err := cookieSession.Save(); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return
	}

	c.JSON(http.StatusOK, dto.ToIdentityDTO(*identity))
}

// Logout destroys the server-side session and clears the cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	cookieSession := sessions.Default(c)
	if sessionID, ok := cookieSession.Get(constants.SessionKeySessionID).(string); ok && sessionID != "" {
		if err := h.sessionService.Destroy(sessionID); err != nil {
			logging.FromContext(c).Warn("Failed to destroy session", zap.Error(err))
		}
	}

	cookieSession.Clear()
	if err := cookieSession.Save(); err != nil {
		apierrors.InternalError(c, "Failed to logout")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}

// GetCurrentUser returns the authenticated identity.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	c.JSON(http.StatusOK, dto.ToIdentityDTO(*identity))
}

// SetAccountStatus transitions an identity between active, locked, and
// deleted. Identity rows are never removed; deletion is a status. System
// permission.
func (h *AuthHandler) SetAccountStatus(c *gin.Context) {
	type SetStatusRequest struct {
		Status models.AccountStatus `json:"status" binding:"required"`
	}

	userID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	var req SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}
	switch req.Status {
	case models.AccountActive, models.AccountLocked, models.AccountDeleted:
	default:
		apierrors.BadRequest(c, "status must be active, locked, or deleted")
		return
	}

	identity, err := h.authService.SetAccountStatus(userID, req.Status)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToIdentityDTO(*identity))
}

func respondAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrPasswordTooShort):
		apierrors.BadRequest(c, fmt.Sprintf("Password must be at least %d characters", constants.MinPasswordLength))
	case errors.Is(err, services.ErrEmailTaken):
		apierrors.Conflict(c, apierrors.ErrCodeAlreadyExists, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.Unauthorized(c, err.Error())
	case errors.Is(err, services.ErrAccountLocked):
		apierrors.RespondWithError(c, http.StatusForbidden,
			apierrors.NewAPIError(apierrors.ErrCodeAccountLocked, err.Error()))
	case errors.Is(err, services.ErrIdentityNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrFailedToHashPassword):
		apierrors.InternalError(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
