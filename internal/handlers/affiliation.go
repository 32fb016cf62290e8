package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kawasemi/timesheet-api/internal/dto"
	apierrors "github.com/kawasemi/timesheet-api/internal/errors"
	"github.com/kawasemi/timesheet-api/internal/logging"
	"github.com/kawasemi/timesheet-api/internal/metrics"
	"github.com/kawasemi/timesheet-api/internal/middleware"
	"github.com/kawasemi/timesheet-api/internal/services"
)

// AffiliationHandler exposes the status query and the tenant selection flow.
type AffiliationHandler struct {
	affiliationService *services.AffiliationService
	sessionService     *services.SessionService
}

// NewAffiliationHandler creates a new AffiliationHandler.
func NewAffiliationHandler(affiliationService *services.AffiliationService, sessionService *services.SessionService) *AffiliationHandler {
	return &AffiliationHandler{
		affiliationService: affiliationService,
		sessionService:     sessionService,
	}
}

// GetAffiliation returns the identity's affiliation state and memberships,
// recomputed from live rows on every call.
func (h *AffiliationHandler) GetAffiliation(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	affiliation, err := h.affiliationService.Resolve(identity.Email)
	if err != nil {
		if errors.Is(err, services.ErrIdentityNotFound) {
			// The authenticated identity row vanished mid-session; this is
			// an internal consistency fault, not a client mistake.
			logging.FromContext(c).Error("Authenticated identity missing", zap.String("email", identity.Email))
			apierrors.InternalError(c, "")
			return
		}
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, dto.ToAffiliationDTO(affiliation.Status, affiliation.Memberships))
}

// SelectTenant binds the requested tenant to the session after re-validating
// the membership. Also used for switching: selection is idempotent.
func (h *AffiliationHandler) SelectTenant(c *gin.Context) {
	type SelectTenantRequest struct {
		TenantID uint64 `json:"tenant_id" binding:"required"`
	}

	sessionID, ok := middleware.GetSessionID(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	var req SelectTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.sessionService.SelectTenant(sessionID, req.TenantID); err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidTenantSelection):
			metrics.RecordTenantSelection("rejected")
			apierrors.InvalidTenantSelection(c, "")
		case errors.Is(err, services.ErrSessionNotFound):
			apierrors.Unauthorized(c, "")
		default:
			logging.FromContext(c).Error("Failed to select tenant", zap.Error(err))
			apierrors.InternalError(c, "")
		}
		return
	}

	metrics.RecordTenantSelection("selected")
	c.Status(http.StatusNoContent)
}
