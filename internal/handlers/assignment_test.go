package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	apierrors "github.com/kawasemi/timesheet-api/internal/errors"
	"github.com/kawasemi/timesheet-api/internal/models"
)

// loginAsTenantAdmin creates an admin identity with a fully-assigned
// membership in a fresh tenant so login auto-binds the tenant.
func loginAsTenantAdmin(t *testing.T, env handlerTestEnv) (*models.Tenant, []*http.Cookie) {
	t.Helper()
	env.createIdentity(t, "admin@example.com", "supersecret")
	tenant := env.createTenant(t, "Acme")
	org := env.createOrganization(t, tenant.ID, "HQ")
	env.createMembership(t, tenant.ID, "admin@example.com", models.TenantRoleAdmin, &org.ID)
	return tenant, env.login(t, "admin@example.com", "supersecret")
}

func TestAssignmentHandler_AssignThenConflict(t *testing.T) {
	env := setupHandlerTestEnv(t)
	tenant, cookies := loginAsTenantAdmin(t, env)
	target := env.createIdentity(t, "target@example.com", "supersecret")

	w := env.request(t, http.MethodPost, "/api/admin/users/assign", map[string]any{
		"user_id": target.ID,
	}, cookies)
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		MembershipID uint64 `json:"membership_id"`
	}
	decodeJSON(t, w, &created)
	require.NotZero(t, created.MembershipID)

	membership, err := env.membershipRepo.FindByID(created.MembershipID)
	require.NoError(t, err)
	require.Equal(t, tenant.ID, membership.TenantID)
	require.Nil(t, membership.OrganizationID)

	w = env.request(t, http.MethodPost, "/api/admin/users/assign", map[string]any{
		"user_id": target.ID,
	}, cookies)
	require.Equal(t, http.StatusConflict, w.Code)

	var apiErr apierrors.APIError
	decodeJSON(t, w, &apiErr)
	require.Equal(t, apierrors.ErrCodeDuplicateTenantAssignment, apiErr.Code)
}

func TestAssignmentHandler_AssignUnknownUser(t *testing.T) {
	env := setupHandlerTestEnv(t)
	_, cookies := loginAsTenantAdmin(t, env)

	w := env.request(t, http.MethodPost, "/api/admin/users/assign", map[string]any{
		"user_id": 9999,
	}, cookies)
	require.Equal(t, http.StatusNotFound, w.Code)

	var apiErr apierrors.APIError
	decodeJSON(t, w, &apiErr)
	require.Equal(t, apierrors.ErrCodeIdentityNotFound, apiErr.Code)
}

func TestAssignmentHandler_Search(t *testing.T) {
	env := setupHandlerTestEnv(t)
	_, cookies := loginAsTenantAdmin(t, env)
	env.createIdentity(t, "candidate@example.com", "supersecret")

	w := env.request(t, http.MethodGet, "/api/admin/users/search?email=admin", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Results []struct {
			Email             string `json:"email"`
			IsAlreadyInTenant bool   `json:"is_already_in_tenant"`
		} `json:"results"`
	}
	decodeJSON(t, w, &response)
	require.Len(t, response.Results, 1)
	require.Equal(t, "admin@example.com", response.Results[0].Email)
	require.True(t, response.Results[0].IsAlreadyInTenant)

	w = env.request(t, http.MethodGet, "/api/admin/users/search?email=candidate", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	decodeJSON(t, w, &response)
	require.Len(t, response.Results, 1)
	require.False(t, response.Results[0].IsAlreadyInTenant)
}

func TestAssignmentHandler_ImportBatch(t *testing.T) {
	env := setupHandlerTestEnv(t)
	_, cookies := loginAsTenantAdmin(t, env)
	env.createIdentity(t, "existing@example.com", "supersecret")

	w := env.request(t, http.MethodPost, "/api/admin/users/import", map[string]any{
		"rows": []map[string]string{
			{"email": "existing@example.com", "display_name": "Existing"},
			{"email": "fresh@example.com", "display_name": "Fresh"},
		},
	}, cookies)
	require.Equal(t, http.StatusCreated, w.Code)

	var response struct {
		Results []struct {
			Email             string `json:"email"`
			Status            string `json:"status"`
			TemporaryPassword string `json:"temporary_password"`
		} `json:"results"`
	}
	decodeJSON(t, w, &response)
	require.Len(t, response.Results, 2)
	require.Equal(t, "EXISTING", response.Results[0].Status)
	require.Empty(t, response.Results[0].TemporaryPassword)
	require.Equal(t, "CREATED", response.Results[1].Status)
	require.NotEmpty(t, response.Results[1].TemporaryPassword)

	// The freshly imported identity can log in with the one-time password.
	env.login(t, "fresh@example.com", response.Results[1].TemporaryPassword)
}

func TestAssignmentHandler_ImportInvalidBatchRejectedWhole(t *testing.T) {
	env := setupHandlerTestEnv(t)
	_, cookies := loginAsTenantAdmin(t, env)

	w := env.request(t, http.MethodPost, "/api/admin/users/import", map[string]any{
		"rows": []map[string]string{
			{"email": "good@example.com", "display_name": "Good"},
			{"email": "bad-email", "display_name": "Bad"},
		},
	}, cookies)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var apiErr struct {
		Code    string `json:"code"`
		Details []struct {
			Row    int    `json:"row"`
			Reason string `json:"reason"`
		} `json:"details"`
	}
	decodeJSON(t, w, &apiErr)
	require.Len(t, apiErr.Details, 1)
	require.Equal(t, 1, apiErr.Details[0].Row)

	// The valid row was not committed either.
	_, err := env.identityRepo.FindByEmail("good@example.com")
	require.Error(t, err)
}

func TestAssignmentHandler_StaffDenied(t *testing.T) {
	env := setupHandlerTestEnv(t)
	env.createIdentity(t, "staff@example.com", "supersecret")
	tenant := env.createTenant(t, "Acme")
	org := env.createOrganization(t, tenant.ID, "HQ")
	env.createMembership(t, tenant.ID, "staff@example.com", models.TenantRoleStaff, &org.ID)
	cookies := env.login(t, "staff@example.com", "supersecret")

	w := env.request(t, http.MethodGet, "/api/admin/users/search?email=a", nil, cookies)
	require.Equal(t, http.StatusForbidden, w.Code)

	var apiErr apierrors.APIError
	decodeJSON(t, w, &apiErr)
	require.Equal(t, apierrors.ErrCodeForbidden, apiErr.Code)
}
