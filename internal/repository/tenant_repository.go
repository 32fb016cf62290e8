package repository

import (
	"gorm.io/gorm"

	"github.com/kawasemi/timesheet-api/internal/models"
)

// GormTenantRepository is a GORM implementation of TenantRepository
type GormTenantRepository struct {
	db *gorm.DB
}

// NewTenantRepository creates a new TenantRepository
func NewTenantRepository(db *gorm.DB) TenantRepository {
	return &GormTenantRepository{db: db}
}

// Create creates a new tenant
func (r *GormTenantRepository) Create(tenant *models.Tenant) error {
	return r.db.Create(tenant).Error
}

// FindByID finds a tenant by ID
func (r *GormTenantRepository) FindByID(id uint64) (*models.Tenant, error) {
	var tenant models.Tenant
	if err := r.db.First(&tenant, id).Error; err != nil {
		return nil, err
	}
	return &tenant, nil
}

// List lists all tenants sorted by name
func (r *GormTenantRepository) List() ([]models.Tenant, error) {
	var tenants []models.Tenant
	if err := r.db.Order("name").Find(&tenants).Error; err != nil {
		return nil, err
	}
	return tenants, nil
}

// CreateOrganization creates an organization under a tenant
func (r *GormTenantRepository) CreateOrganization(org *models.Organization) error {
	return r.db.Create(org).Error
}

// FindOrganization finds an organization by ID
func (r *GormTenantRepository) FindOrganization(id uint64) (*models.Organization, error) {
	var org models.Organization
	if err := r.db.First(&org, id).Error; err != nil {
		return nil, err
	}
	return &org, nil
}
