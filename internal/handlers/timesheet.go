package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kawasemi/timesheet-api/internal/dto"
	apierrors "github.com/kawasemi/timesheet-api/internal/errors"
	"github.com/kawasemi/timesheet-api/internal/middleware"
	"github.com/kawasemi/timesheet-api/internal/services"
	"github.com/kawasemi/timesheet-api/internal/utils"
)

// TimesheetHandler exposes the member's own timesheet entry CRUD. Runs
// behind RequireActiveTenant and the timesheet permissions, so the
// membership in context is always the validated active tenant's.
type TimesheetHandler struct {
	timesheetService *services.TimesheetService
}

// NewTimesheetHandler creates a new TimesheetHandler.
func NewTimesheetHandler(timesheetService *services.TimesheetService) *TimesheetHandler {
	return &TimesheetHandler{
		timesheetService: timesheetService,
	}
}

// ListEntries lists the member's entries with pagination.
func (h *TimesheetHandler) ListEntries(c *gin.Context) {
	membership, ok := middleware.GetMembership(c)
	if !ok {
		apierrors.TenantNotSelected(c)
		return
	}

	params := utils.GetPaginationParams(c)
	entries, total, err := h.timesheetService.ListEntries(membership, params)
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, dto.ToTimesheetListResponse(entries, params, total))
}

// CreateEntry records a new work entry.
func (h *TimesheetHandler) CreateEntry(c *gin.Context) {
	type CreateEntryRequest struct {
		WorkDate string `json:"work_date" binding:"required"`
		Minutes  int    `json:"minutes" binding:"required"`
		Note     string `json:"note" binding:"max=2000"`
	}

	membership, ok := middleware.GetMembership(c)
	if !ok {
		apierrors.TenantNotSelected(c)
		return
	}

	var req CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	workDate, err := time.Parse("2006-01-02", req.WorkDate)
	if err != nil {
		apierrors.BadRequest(c, "work_date must be YYYY-MM-DD")
		return
	}

	entry, err := h.timesheetService.CreateEntry(membership, services.CreateEntryInput{
		WorkDate: workDate,
		Minutes:  req.Minutes,
		Note:     req.Note,
	})
	if err != nil {
		respondTimesheetError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTimesheetEntryDTO(*entry))
}

// UpdateEntry mutates one of the member's entries.
func (h *TimesheetHandler) UpdateEntry(c *gin.Context) {
	type UpdateEntryRequest struct {
		Minutes *int    `json:"minutes"`
		Note    *string `json:"note"`
	}

	membership, ok := middleware.GetMembership(c)
	if !ok {
		apierrors.TenantNotSelected(c)
		return
	}

	entryID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid entry ID")
		return
	}

	var req UpdateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	entry, err := h.timesheetService.UpdateEntry(membership, entryID, services.UpdateEntryInput{
		Minutes: req.Minutes,
		Note:    req.Note,
	})
	if err != nil {
		respondTimesheetError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTimesheetEntryDTO(*entry))
}

// DeleteEntry removes one of the member's entries.
func (h *TimesheetHandler) DeleteEntry(c *gin.Context) {
	membership, ok := middleware.GetMembership(c)
	if !ok {
		apierrors.TenantNotSelected(c)
		return
	}

	entryID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid entry ID")
		return
	}

	if err := h.timesheetService.DeleteEntry(membership, entryID); err != nil {
		respondTimesheetError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func respondTimesheetError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrEntryNotFound):
		apierrors.NotFound(c, "")
	case errors.Is(err, services.ErrInvalidMinutes):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
