package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/kawasemi/timesheet-api/internal/database"
	"github.com/kawasemi/timesheet-api/internal/models"
	"github.com/kawasemi/timesheet-api/internal/utils"
)

var (
	// ErrDuplicateMembership is returned when a membership already exists
	// for the same (tenant, email) pair.
	ErrDuplicateMembership = errors.New("membership repository: membership already exists for tenant")
)

// GormMembershipRepository is a GORM implementation of MembershipRepository
type GormMembershipRepository struct {
	db *gorm.DB
}

// NewMembershipRepository creates a new MembershipRepository
func NewMembershipRepository(db *gorm.DB) MembershipRepository {
	return &GormMembershipRepository{db: db}
}

// ListByEmail lists every membership across all tenants for an identity email.
// Results are joined to tenants for deterministic tenant-name ordering.
func (r *GormMembershipRepository) ListByEmail(email string) ([]models.Membership, error) {
	var memberships []models.Membership
	if err := r.db.Preload("Tenant").Preload("Organization").
		Joins("JOIN tenants ON tenants.id = memberships.tenant_id").
		Where("lower(memberships.email) = lower(?)", email).
		Order("tenants.name").
		Find(&memberships).Error; err != nil {
		return nil, err
	}
	return memberships, nil
}

// FindByID finds a membership by ID
func (r *GormMembershipRepository) FindByID(id uint64) (*models.Membership, error) {
	var membership models.Membership
	if err := r.db.First(&membership, id).Error; err != nil {
		return nil, err
	}
	return &membership, nil
}

// FindActiveForTenant finds the active membership for (tenant, email)
func (r *GormMembershipRepository) FindActiveForTenant(tenantID uint64, email string) (*models.Membership, error) {
	var membership models.Membership
	if err := r.db.Where("tenant_id = ? AND lower(email) = lower(?) AND is_active = ?", tenantID, email, true).
		First(&membership).Error; err != nil {
		return nil, err
	}
	return &membership, nil
}

// CreateIfAbsent creates the membership inside a transaction covering the
// existence check and the insert. The unique index on
// (tenant_id, lower(email)) backstops concurrent callers racing past the
// check under weaker isolation.
func (r *GormMembershipRepository) CreateIfAbsent(membership *models.Membership) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Membership{}).
			Where("tenant_id = ? AND lower(email) = lower(?)", membership.TenantID, membership.Email).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateMembership
		}
		if err := tx.Create(membership).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrDuplicateMembership
			}
			return err
		}
		return nil
	})
}

// ExistingEmailsForTenant reports which emails already hold a membership
func (r *GormMembershipRepository) ExistingEmailsForTenant(tenantID uint64, emails []string) (map[string]bool, error) {
	lowered := make([]string, len(emails))
	for i, e := range emails {
		lowered[i] = strings.ToLower(e)
	}

	var existing []string
	if err := r.db.Model(&models.Membership{}).
		Where("tenant_id = ? AND lower(email) IN ?", tenantID, lowered).
		Pluck("lower(email)", &existing).Error; err != nil {
		return nil, err
	}

	result := make(map[string]bool, len(existing))
	for _, e := range existing {
		result[e] = true
	}
	return result, nil
}

// Update updates a membership
func (r *GormMembershipRepository) Update(membership *models.Membership) error {
	return r.db.Save(membership).Error
}

// ListByTenant lists a tenant's memberships with pagination
func (r *GormMembershipRepository) ListByTenant(tenantID uint64, params utils.PaginationParams) ([]models.Membership, int64, error) {
	var total int64
	if err := r.db.Model(&models.Membership{}).
		Scopes(database.TenantScope(tenantID)).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var memberships []models.Membership
	if err := r.db.Preload("Organization").
		Scopes(database.TenantScope(tenantID), database.Paginate(params)).
		Order("lower(email)").
		Find(&memberships).Error; err != nil {
		return nil, 0, err
	}
	return memberships, total, nil
}

// isUniqueViolation matches duplicate-key errors across the postgres and
// sqlite drivers without importing either.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}
