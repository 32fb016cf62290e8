package authz

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kawasemi/timesheet-api/internal/models"
)

func TestAuthorize_SystemPermissions(t *testing.T) {
	admin := &models.Identity{SystemRole: models.SystemRoleAdmin}
	user := &models.Identity{SystemRole: models.SystemRoleNone}

	require.NoError(t, Authorize(admin, nil, PermTenantManage))
	require.NoError(t, Authorize(admin, nil, PermUserManage))

	require.ErrorIs(t, Authorize(user, nil, PermTenantManage), ErrForbidden)
}

func TestAuthorize_SystemAdminDoesNotInheritTenantScopedReads(t *testing.T) {
	admin := &models.Identity{SystemRole: models.SystemRoleAdmin}

	// Without an active tenant the denial routes to the selection flow.
	require.ErrorIs(t, Authorize(admin, nil, PermMemberView), ErrTenantRequired)

	// Even with a validated active tenant, the system role grants nothing
	// tenant-scoped; only the membership's own role counts.
	staff := &models.Membership{Role: models.TenantRoleStaff, IsActive: true}
	require.ErrorIs(t, Authorize(admin, staff, PermMemberView), ErrForbidden)
	require.ErrorIs(t, Authorize(admin, staff, PermMemberAssignTenant), ErrForbidden)

	// The membership role still works as usual for the same caller.
	require.NoError(t, Authorize(admin, staff, PermTimesheetView))
}

func TestAuthorize_TenantRoles(t *testing.T) {
	user := &models.Identity{}

	tests := []struct {
		role    models.TenantRole
		perm    Permission
		allowed bool
	}{
		{models.TenantRoleAdmin, PermMemberAssignTenant, true},
		{models.TenantRoleAdmin, PermMemberManage, true},
		{models.TenantRoleAdmin, PermTimesheetApprove, true},
		{models.TenantRoleManager, PermMemberView, true},
		{models.TenantRoleManager, PermTimesheetApprove, true},
		{models.TenantRoleManager, PermMemberAssignTenant, false},
		{models.TenantRoleStaff, PermTimesheetEdit, true},
		{models.TenantRoleStaff, PermMemberView, false},
		{models.TenantRoleStaff, PermMemberManage, false},
	}

	for _, tt := range tests {
		membership := &models.Membership{Role: tt.role, IsActive: true}
		err := Authorize(user, membership, tt.perm)
		if tt.allowed {
			require.NoError(t, err, "%s should hold %s", tt.role, tt.perm)
		} else {
			require.ErrorIs(t, err, ErrForbidden, "%s should not hold %s", tt.role, tt.perm)
		}
	}
}

func TestAuthorize_InactiveMembershipRequiresTenant(t *testing.T) {
	user := &models.Identity{}
	inactive := &models.Membership{Role: models.TenantRoleAdmin, IsActive: false}

	require.ErrorIs(t, Authorize(user, inactive, PermMemberView), ErrTenantRequired)
}

func TestAuthorize_TenantRolesNeverGrantSystemPermissions(t *testing.T) {
	user := &models.Identity{}
	admin := &models.Membership{Role: models.TenantRoleAdmin, IsActive: true}

	require.ErrorIs(t, Authorize(user, admin, PermTenantManage), ErrForbidden)
}
