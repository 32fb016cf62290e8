package repository

import (
	"gorm.io/gorm"

	"github.com/kawasemi/timesheet-api/internal/database"
	"github.com/kawasemi/timesheet-api/internal/models"
	"github.com/kawasemi/timesheet-api/internal/utils"
)

// GormTimesheetRepository is a GORM implementation of TimesheetRepository
type GormTimesheetRepository struct {
	db *gorm.DB
}

// NewTimesheetRepository creates a new TimesheetRepository
func NewTimesheetRepository(db *gorm.DB) TimesheetRepository {
	return &GormTimesheetRepository{db: db}
}

// Create creates a new entry
func (r *GormTimesheetRepository) Create(entry *models.TimesheetEntry) error {
	return r.db.Create(entry).Error
}

// FindByID finds an entry by ID
func (r *GormTimesheetRepository) FindByID(id uint64) (*models.TimesheetEntry, error) {
	var entry models.TimesheetEntry
	if err := r.db.First(&entry, id).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// ListByMembership lists a membership's entries, newest work date first
func (r *GormTimesheetRepository) ListByMembership(membershipID uint64, params utils.PaginationParams) ([]models.TimesheetEntry, int64, error) {
	var total int64
	if err := r.db.Model(&models.TimesheetEntry{}).
		Where("membership_id = ?", membershipID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []models.TimesheetEntry
	if err := r.db.Where("membership_id = ?", membershipID).
		Order("work_date DESC").
		Scopes(database.Paginate(params)).
		Find(&entries).Error; err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// Update updates an entry
func (r *GormTimesheetRepository) Update(entry *models.TimesheetEntry) error {
	return r.db.Save(entry).Error
}

// Delete soft deletes an entry
func (r *GormTimesheetRepository) Delete(id uint64) error {
	return r.db.Delete(&models.TimesheetEntry{}, id).Error
}
