package repository

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/kawasemi/timesheet-api/internal/models"
)

// GormIdentityRepository is a GORM implementation of IdentityRepository
type GormIdentityRepository struct {
	db *gorm.DB
}

// NewIdentityRepository creates a new IdentityRepository
func NewIdentityRepository(db *gorm.DB) IdentityRepository {
	return &GormIdentityRepository{db: db}
}

// Create creates a new identity
func (r *GormIdentityRepository) Create(identity *models.Identity) error {
	return r.db.Create(identity).Error
}

// FindByID finds an identity by ID
func (r *GormIdentityRepository) FindByID(id uint64) (*models.Identity, error) {
	var identity models.Identity
	if err := r.db.First(&identity, id).Error; err != nil {
		return nil, err
	}
	return &identity, nil
}

// FindByEmail finds an identity by email, case-insensitively
func (r *GormIdentityRepository) FindByEmail(email string) (*models.Identity, error) {
	var identity models.Identity
	if err := r.db.Where("lower(email) = lower(?)", email).First(&identity).Error; err != nil {
		return nil, err
	}
	return &identity, nil
}

// SearchByEmail finds identities whose email contains the partial
func (r *GormIdentityRepository) SearchByEmail(emailPartial string, limit int) ([]models.Identity, error) {
	var identities []models.Identity
	pattern := "%" + emailPartial + "%"
	if err := r.db.Where("lower(email) LIKE lower(?)", pattern).
		Order("email").
		Limit(limit).
		Find(&identities).Error; err != nil {
		return nil, err
	}
	return identities, nil
}

// Update updates an identity
func (r *GormIdentityRepository) Update(identity *models.Identity) error {
	return r.db.Save(identity).Error
}

// CreateBatchWithMemberships creates identities and memberships atomically
func (r *GormIdentityRepository) CreateBatchWithMemberships(identities []*models.Identity, memberships []*models.Membership) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, identity := range identities {
			if err := tx.Create(identity).Error; err != nil {
				return fmt.Errorf("create identity %s: %w", identity.Email, err)
			}
		}
		for _, membership := range memberships {
			if err := tx.Create(membership).Error; err != nil {
				return fmt.Errorf("create membership %s: %w", membership.Email, err)
			}
		}
		return nil
	})
}
