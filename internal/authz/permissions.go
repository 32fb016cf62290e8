package authz

import (
	"errors"

	"github.com/kawasemi/timesheet-api/internal/models"
)

var (
	// ErrForbidden means no role held by the caller grants the permission.
	ErrForbidden = errors.New("permission denied")
	// ErrTenantRequired means the permission is tenant-scoped but no
	// validated active tenant was supplied.
	ErrTenantRequired = errors.New("active tenant required")
)

// Permission is a stable permission string declared by each protected endpoint.
type Permission string

// Tenant-scoped permissions require a validated active tenant and a grant on
// the membership's role within that tenant.
const (
	PermMemberView         Permission = "member.view"
	PermMemberAssignTenant Permission = "member.assign_tenant"
	PermMemberManage       Permission = "member.manage"
	PermTimesheetView      Permission = "timesheet.view"
	PermTimesheetEdit      Permission = "timesheet.edit"
	PermTimesheetApprove   Permission = "timesheet.approve"
)

// System-level permissions are granted by the identity's system role alone
// and never require an active tenant.
const (
	PermTenantManage Permission = "tenant.manage"
	PermUserManage   Permission = "user.manage"
)

// The matrices are strict allow-lists, not hierarchies. In particular the
// system administrator role is absent from tenantGrants on purpose: it must
// not be able to browse tenant data, only manage tenant lifecycle.
var systemGrants = map[models.SystemRole]map[Permission]bool{
	models.SystemRoleAdmin: {
		PermTenantManage: true,
		PermUserManage:   true,
	},
}

var tenantGrants = map[models.TenantRole]map[Permission]bool{
	models.TenantRoleAdmin: {
		PermMemberView:         true,
		PermMemberAssignTenant: true,
		PermMemberManage:       true,
		PermTimesheetView:      true,
		PermTimesheetEdit:      true,
		PermTimesheetApprove:   true,
	},
	models.TenantRoleManager: {
		PermMemberView:       true,
		PermTimesheetView:    true,
		PermTimesheetEdit:    true,
		PermTimesheetApprove: true,
	},
	models.TenantRoleStaff: {
		PermTimesheetView: true,
		PermTimesheetEdit: true,
	},
}

var systemPermissions = map[Permission]bool{
	PermTenantManage: true,
	PermUserManage:   true,
}

// IsSystemPermission reports whether the permission belongs to the
// system-level class.
func IsSystemPermission(p Permission) bool {
	return systemPermissions[p]
}

// Authorize admits or rejects a request for one permission. membership may be
// nil when no active tenant is bound; for tenant-scoped permissions that is a
// denial of its own kind so callers can route to the selection flow.
func Authorize(identity *models.Identity, membership *models.Membership, perm Permission) error {
	if IsSystemPermission(perm) {
		if systemGrants[identity.SystemRole][perm] {
			return nil
		}
		return ErrForbidden
	}

	if membership == nil || !membership.IsActive {
		return ErrTenantRequired
	}
	if tenantGrants[membership.Role][perm] {
		return nil
	}
	return ErrForbidden
}
