package services

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kawasemi/timesheet-api/internal/models"
)

func TestAssignmentService_SearchForAssignment(t *testing.T) {
	env := setupServiceTestEnv(t)
	env.createIdentity(t, "anna@example.com")
	env.createIdentity(t, "annika@example.com")
	env.createIdentity(t, "bob@example.com")
	tenant := env.createTenant(t, "Acme")
	env.createMembership(t, tenant.ID, "anna@example.com", models.TenantRoleStaff, nil)

	results, err := env.assignmentService.SearchForAssignment("ann", tenant.ID)
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.Equal(t, "anna@example.com", results[0].Email)
	require.True(t, results[0].IsAlreadyInTenant)
	require.Equal(t, "annika@example.com", results[1].Email)
	require.False(t, results[1].IsAlreadyInTenant)
}

func TestAssignmentService_SearchEmptyPartialReturnsNothing(t *testing.T) {
	env := setupServiceTestEnv(t)
	env.createIdentity(t, "anna@example.com")
	tenant := env.createTenant(t, "Acme")

	results, err := env.assignmentService.SearchForAssignment("   ", tenant.ID)
	require.NoError(t, err)
	require.Empty(t, results)
}

func TestAssignmentService_AssignCreatesUnplacedMembership(t *testing.T) {
	env := setupServiceTestEnv(t)
	identity := env.createIdentity(t, "worker@example.com")
	tenant := env.createTenant(t, "Acme")

	membershipID, err := env.assignmentService.AssignUserToTenant(identity.ID, tenant.ID, "W. Orker")
	require.NoError(t, err)
	require.NotZero(t, membershipID)

	membership, err := env.membershipRepo.FindByID(membershipID)
	require.NoError(t, err)
	require.Equal(t, tenant.ID, membership.TenantID)
	require.Equal(t, identity.Email, membership.Email)
	require.Equal(t, "W. Orker", membership.DisplayName)
	require.Nil(t, membership.OrganizationID)
	require.True(t, membership.IsActive)

	// No credential side effects on the identity.
	reloaded, err := env.identityRepo.FindByID(identity.ID)
	require.NoError(t, err)
	require.Equal(t, identity.PasswordHash, reloaded.PasswordHash)
	require.Equal(t, identity.SystemRole, reloaded.SystemRole)
}

func TestAssignmentService_AssignUnknownIdentity(t *testing.T) {
	env := setupServiceTestEnv(t)
	tenant := env.createTenant(t, "Acme")

	_, err := env.assignmentService.AssignUserToTenant(9999, tenant.ID, "")
	require.ErrorIs(t, err, ErrIdentityNotFound)
}

func TestAssignmentService_AssignUnknownTenant(t *testing.T) {
	env := setupServiceTestEnv(t)
	identity := env.createIdentity(t, "worker@example.com")

	_, err := env.assignmentService.AssignUserToTenant(identity.ID, 9999, "")
	require.ErrorIs(t, err, ErrTenantNotFound)
}

func TestAssignmentService_AssignTwiceConflicts(t *testing.T) {
	env := setupServiceTestEnv(t)
	identity := env.createIdentity(t, "worker@example.com")
	tenant := env.createTenant(t, "Acme")

	_, err := env.assignmentService.AssignUserToTenant(identity.ID, tenant.ID, "")
	require.NoError(t, err)

	_, err = env.assignmentService.AssignUserToTenant(identity.ID, tenant.ID, "")
	require.ErrorIs(t, err, ErrDuplicateTenantAssignment)
}

func TestAssignmentService_ConcurrentAssignmentsYieldOneMembership(t *testing.T) {
	env := setupServiceTestEnv(t)
	identity := env.createIdentity(t, "worker@example.com")
	tenant := env.createTenant(t, "Acme")

	const attempts = 4
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.assignmentService.AssignUserToTenant(identity.ID, tenant.ID, "")
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
		} else {
			require.ErrorIs(t, err, ErrDuplicateTenantAssignment)
		}
	}
	require.Equal(t, 1, successes)

	var count int64
	require.NoError(t, env.db.Model(&models.Membership{}).
		Where("tenant_id = ?", tenant.ID).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestAssignmentService_ImportMixedBatch(t *testing.T) {
	env := setupServiceTestEnv(t)
	existing := env.createIdentity(t, "existing@example.com")
	tenant := env.createTenant(t, "Acme")

	results, rowErrors, err := env.assignmentService.ImportUsers(tenant.ID, []ImportRow{
		{Email: "existing@example.com", DisplayName: "Existing"},
		{Email: "fresh@example.com", DisplayName: "Fresh"},
	})
	require.NoError(t, err)
	require.Empty(t, rowErrors)
	require.Len(t, results, 2)

	require.Equal(t, ImportExisting, results[0].Status)
	require.Empty(t, results[0].TemporaryPassword)
	require.NotZero(t, results[0].MembershipID)

	require.Equal(t, ImportCreated, results[1].Status)
	require.NotEmpty(t, results[1].TemporaryPassword)
	require.NotZero(t, results[1].MembershipID)

	// The existing identity's credentials are untouched.
	reloaded, err := env.identityRepo.FindByID(existing.ID)
	require.NoError(t, err)
	require.Equal(t, existing.PasswordHash, reloaded.PasswordHash)

	// The fresh identity exists with a real hash, not the clear password.
	fresh, err := env.identityRepo.FindByEmail("fresh@example.com")
	require.NoError(t, err)
	require.NotEqual(t, results[1].TemporaryPassword, fresh.PasswordHash)
}

func TestAssignmentService_ImportCollectsAllErrorsAndCommitsNothing(t *testing.T) {
	env := setupServiceTestEnv(t)
	env.createIdentity(t, "member@example.com")
	tenant := env.createTenant(t, "Acme")
	env.createMembership(t, tenant.ID, "member@example.com", models.TenantRoleStaff, nil)

	_, rowErrors, err := env.assignmentService.ImportUsers(tenant.ID, []ImportRow{
		{Email: "not-an-email", DisplayName: "Bad"},
		{Email: "dup@example.com", DisplayName: "First"},
		{Email: "DUP@example.com", DisplayName: "Second"},
		{Email: "member@example.com", DisplayName: "Collision"},
		{Email: "fine@example.com", DisplayName: ""},
	})
	require.ErrorIs(t, err, ErrImportBatchInvalid)
	require.Len(t, rowErrors, 4)

	rows := make(map[int]string, len(rowErrors))
	for _, e := range rowErrors {
		rows[e.Row] = e.Reason
	}
	require.Contains(t, rows[0], "invalid email")
	require.Contains(t, rows[2], "duplicate email in batch")
	require.Contains(t, rows[3], "already a member")
	require.Contains(t, rows[4], "display name")

	// Nothing was committed, not even the valid-looking rows.
	var identities int64
	require.NoError(t, env.db.Model(&models.Identity{}).Count(&identities).Error)
	require.EqualValues(t, 1, identities)

	var memberships int64
	require.NoError(t, env.db.Model(&models.Membership{}).Count(&memberships).Error)
	require.EqualValues(t, 1, memberships)
}

func TestAssignmentService_ImportEmptyBatch(t *testing.T) {
	env := setupServiceTestEnv(t)
	tenant := env.createTenant(t, "Acme")

	_, _, err := env.assignmentService.ImportUsers(tenant.ID, nil)
	require.ErrorIs(t, err, ErrEmptyImportBatch)
}
