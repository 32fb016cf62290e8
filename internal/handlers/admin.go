package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kawasemi/timesheet-api/internal/dto"
	apierrors "github.com/kawasemi/timesheet-api/internal/errors"
	"github.com/kawasemi/timesheet-api/internal/logging"
	"github.com/kawasemi/timesheet-api/internal/middleware"
	"github.com/kawasemi/timesheet-api/internal/services"
	"github.com/kawasemi/timesheet-api/internal/utils"
)

// AdminHandler exposes tenant lifecycle (system-level) and membership
// management (tenant-scoped) endpoints.
type AdminHandler struct {
	tenantService *services.TenantService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(tenantService *services.TenantService) *AdminHandler {
	return &AdminHandler{
		tenantService: tenantService,
	}
}

// CreateTenant creates a tenant. System permission; no active tenant needed.
func (h *AdminHandler) CreateTenant(c *gin.Context) {
	type CreateTenantRequest struct {
		Name string `json:"name" binding:"required,max=255"`
	}

	var req CreateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	tenant, err := h.tenantService.CreateTenant(req.Name)
	if err != nil {
		if errors.Is(err, services.ErrInvalidTenantName) {
			apierrors.BadRequest(c, err.Error())
			return
		}
		logging.FromContext(c).Error("Failed to create tenant", zap.Error(err))
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusCreated, dto.ToTenantDTO(*tenant))
}

// ListTenants lists all tenants. System permission.
func (h *AdminHandler) ListTenants(c *gin.Context) {
	tenants, err := h.tenantService.ListTenants()
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}

	dtos := make([]dto.TenantDTO, len(tenants))
	for i, t := range tenants {
		dtos[i] = dto.ToTenantDTO(t)
	}
	c.JSON(http.StatusOK, gin.H{"tenants": dtos})
}

// CreateOrganization creates an organization under a tenant. System permission.
func (h *AdminHandler) CreateOrganization(c *gin.Context) {
	type CreateOrganizationRequest struct {
		Name string `json:"name" binding:"required,max=255"`
	}

	tenantID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req CreateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	org, err := h.tenantService.CreateOrganization(tenantID, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidOrganizationName):
			apierrors.BadRequest(c, err.Error())
		case errors.Is(err, services.ErrTenantNotFound):
			apierrors.NotFound(c, err.Error())
		default:
			logging.FromContext(c).Error("Failed to create organization", zap.Error(err))
			apierrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToOrganizationDTO(*org))
}

// ListMembers lists the active tenant's memberships. Tenant-scoped.
func (h *AdminHandler) ListMembers(c *gin.Context) {
	tenantID, ok := middleware.GetTenantID(c)
	if !ok {
		apierrors.TenantNotSelected(c)
		return
	}

	params := utils.GetPaginationParams(c)
	members, total, err := h.tenantService.ListMembers(tenantID, params)
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}

	dtos := make([]dto.MemberListItemDTO, len(members))
	for i, m := range members {
		dtos[i] = dto.ToMemberListItemDTO(m)
	}
	c.JSON(http.StatusOK, gin.H{
		"members": dtos,
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// PlaceInOrganization attaches an organization to a membership of the active
// tenant. Tenant-scoped.
func (h *AdminHandler) PlaceInOrganization(c *gin.Context) {
	type PlaceRequest struct {
		OrganizationID uint64 `json:"organization_id" binding:"required"`
	}

	tenantID, ok := middleware.GetTenantID(c)
	if !ok {
		apierrors.TenantNotSelected(c)
		return
	}

	membershipID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid membership ID")
		return
	}

	var req PlaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	membership, err := h.tenantService.PlaceInOrganization(membershipID, req.OrganizationID, tenantID)
	if err != nil {
		h.respondMembershipError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToMemberListItemDTO(*membership))
}

// DeactivateMembership flips a membership of the active tenant inactive.
// Tenant-scoped.
func (h *AdminHandler) DeactivateMembership(c *gin.Context) {
	tenantID, ok := middleware.GetTenantID(c)
	if !ok {
		apierrors.TenantNotSelected(c)
		return
	}

	membershipID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid membership ID")
		return
	}

	membership, err := h.tenantService.DeactivateMembership(membershipID, tenantID)
	if err != nil {
		h.respondMembershipError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToMemberListItemDTO(*membership))
}

func (h *AdminHandler) respondMembershipError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrMembershipNotFound),
		errors.Is(err, services.ErrOrganizationNotFound),
		errors.Is(err, services.ErrMembershipWrongTenant):
		apierrors.NotFound(c, "")
	case errors.Is(err, services.ErrOrganizationWrongTenant):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrMembershipAlreadyInactive):
		apierrors.Conflict(c, "", err.Error())
	default:
		logging.FromContext(c).Error("Membership operation failed", zap.Error(err))
		apierrors.InternalError(c, "")
	}
}
