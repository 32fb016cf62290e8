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

// AssignmentHandler exposes the admin search, assignment, and bulk import
// endpoints. All routes run behind the member.assign_tenant permission, so
// the membership in context is the validated active tenant's.
type AssignmentHandler struct {
	assignmentService *services.AssignmentService
}

// NewAssignmentHandler creates a new AssignmentHandler.
func NewAssignmentHandler(assignmentService *services.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{
		assignmentService: assignmentService,
	}
}

// SearchUsers finds existing identities by partial email, annotated with
// whether each is already a member of the active tenant.
func (h *AssignmentHandler) SearchUsers(c *gin.Context) {
	tenantID, ok := middleware.GetTenantID(c)
	if !ok {
		apierrors.TenantNotSelected(c)
		return
	}

	emailPartial := c.Query("email")
	results, err := h.assignmentService.SearchForAssignment(emailPartial, tenantID)
	if err != nil {
		logging.FromContext(c).Error("Assignment search failed", zap.Error(err))
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"results": dto.ToSearchResultDTOs(results),
	})
}

// AssignUser creates a membership for an existing identity in the active
// tenant. Calling it twice for the same user yields 409 the second time.
func (h *AssignmentHandler) AssignUser(c *gin.Context) {
	type AssignRequest struct {
		UserID      uint64 `json:"user_id" binding:"required"`
		DisplayName string `json:"display_name" binding:"max=255"`
	}

	tenantID, ok := middleware.GetTenantID(c)
	if !ok {
		apierrors.TenantNotSelected(c)
		return
	}

	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	membershipID, err := h.assignmentService.AssignUserToTenant(req.UserID, tenantID, req.DisplayName)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrDuplicateTenantAssignment):
			metrics.RecordAssignment("duplicate")
			apierrors.Conflict(c, apierrors.ErrCodeDuplicateTenantAssignment, err.Error())
		case errors.Is(err, services.ErrIdentityNotFound):
			apierrors.RespondWithError(c, http.StatusNotFound,
				apierrors.NewAPIError(apierrors.ErrCodeIdentityNotFound, err.Error()))
		case errors.Is(err, services.ErrTenantNotFound):
			apierrors.NotFound(c, err.Error())
		default:
			logging.FromContext(c).Error("Assignment failed", zap.Error(err))
			apierrors.InternalError(c, "")
		}
		return
	}

	metrics.RecordAssignment("assigned")
	c.JSON(http.StatusCreated, gin.H{
		"membership_id": membershipID,
	})
}

// ImportUsers bulk-imports members into the active tenant. The whole batch
// is validated first; any error rejects the batch with every problem listed.
func (h *AssignmentHandler) ImportUsers(c *gin.Context) {
	type ImportRequest struct {
		Rows []struct {
			Email       string `json:"email"`
			DisplayName string `json:"display_name"`
		} `json:"rows" binding:"required"`
	}

	tenantID, ok := middleware.GetTenantID(c)
	if !ok {
		apierrors.TenantNotSelected(c)
		return
	}

	var req ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	rows := make([]services.ImportRow, len(req.Rows))
	for i, r := range req.Rows {
		rows[i] = services.ImportRow{Email: r.Email, DisplayName: r.DisplayName}
	}

	results, rowErrors, err := h.assignmentService.ImportUsers(tenantID, rows)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrImportBatchInvalid):
			apierrors.BadRequestWithDetails(c, "Import batch contains invalid rows",
				dto.ToImportErrorDTOs(rowErrors))
		case errors.Is(err, services.ErrEmptyImportBatch),
			errors.Is(err, services.ErrImportBatchTooLarge):
			apierrors.BadRequest(c, err.Error())
		case errors.Is(err, services.ErrTenantNotFound):
			apierrors.NotFound(c, err.Error())
		default:
			logging.FromContext(c).Error("Import failed", zap.Error(err))
			apierrors.InternalError(c, "")
		}
		return
	}

	metrics.RecordAssignment("imported")
	c.JSON(http.StatusCreated, gin.H{
		"results": dto.ToImportResultDTOs(results),
	})
}
