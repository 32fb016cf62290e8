package repository

import (
	"time"

	"github.com/kawasemi/timesheet-api/internal/models"
	"github.com/kawasemi/timesheet-api/internal/utils"
)

// IdentityRepository defines the interface for global identity data access
type IdentityRepository interface {
	// Create creates a new identity
	Create(identity *models.Identity) error

	// FindByID finds an identity by ID
	FindByID(id uint64) (*models.Identity, error)

	// FindByEmail finds an identity by email, case-insensitively
	FindByEmail(email string) (*models.Identity, error)

	// SearchByEmail finds identities whose email contains the partial,
	// case-insensitively, capped at limit rows ordered by email
	SearchByEmail(emailPartial string, limit int) ([]models.Identity, error)

	// Update updates an identity
	Update(identity *models.Identity) error

	// CreateBatchWithMemberships creates new identities and memberships in a
	// single transaction. Used by bulk import after the whole batch has been
	// validated; nothing is committed if any row fails.
	CreateBatchWithMemberships(identities []*models.Identity, memberships []*models.Membership) error
}

// MembershipRepository defines the interface for per-tenant membership data access
type MembershipRepository interface {
	// ListByEmail lists every membership across all tenants for an identity
	// email, sorted by tenant name. This is the only cross-tenant read in
	// the system; no other component may query memberships by identity
	// without a tenant scope.
	ListByEmail(email string) ([]models.Membership, error)

	// FindByID finds a membership by ID
	FindByID(id uint64) (*models.Membership, error)

	// FindActiveForTenant finds the active membership for (tenant, email)
	FindActiveForTenant(tenantID uint64, email string) (*models.Membership, error)

	// CreateIfAbsent creates the membership unless one already exists for
	// (tenant, email); the existence check and the insert run in one
	// transaction. Returns ErrDuplicateMembership on conflict.
	CreateIfAbsent(membership *models.Membership) error

	// ExistingEmailsForTenant reports which of the given emails already have
	// a membership in the tenant, keyed by lowercased email
	ExistingEmailsForTenant(tenantID uint64, emails []string) (map[string]bool, error)

	// Update updates a membership
	Update(membership *models.Membership) error

	// ListByTenant lists a tenant's memberships with pagination
	ListByTenant(tenantID uint64, params utils.PaginationParams) ([]models.Membership, int64, error)
}

// SessionRepository defines the interface for server-side session data access
type SessionRepository interface {
	// Create creates a new session row
	Create(session *models.Session) error

	// FindByID finds a session by ID
	FindByID(id string) (*models.Session, error)

	// Touch updates the session's last-accessed timestamp
	Touch(id string, at time.Time) error

	// BindTenant validates that an active membership exists for
	// (tenantID, email) and persists the selection on the session, with the
	// check and the write in one transaction. Returns ErrNoActiveMembership
	// when the membership is missing or deactivated.
	BindTenant(sessionID string, tenantID uint64, email string) error

	// ClearSelectedTenant resets the session's selection to unset
	ClearSelectedTenant(sessionID string) error

	// Delete removes a session row
	Delete(id string) error

	// DeleteExpired removes sessions past their expiry
	DeleteExpired(now time.Time) error
}

// TenantRepository defines the interface for tenant and organization data access
type TenantRepository interface {
	// Create creates a new tenant
	Create(tenant *models.Tenant) error

	// FindByID finds a tenant by ID
	FindByID(id uint64) (*models.Tenant, error)

	// List lists all tenants sorted by name
	List() ([]models.Tenant, error)

	// CreateOrganization creates an organization under a tenant
	CreateOrganization(org *models.Organization) error

	// FindOrganization finds an organization by ID
	FindOrganization(id uint64) (*models.Organization, error)
}

// TimesheetRepository defines the interface for timesheet entry data access
type TimesheetRepository interface {
	// Create creates a new entry
	Create(entry *models.TimesheetEntry) error

	// FindByID finds an entry by ID
	FindByID(id uint64) (*models.TimesheetEntry, error)

	// ListByMembership lists a membership's entries, newest work date first
	ListByMembership(membershipID uint64, params utils.PaginationParams) ([]models.TimesheetEntry, int64, error)

	// Update updates an entry
	Update(entry *models.TimesheetEntry) error

	// Delete soft deletes an entry
	Delete(id uint64) error
}
