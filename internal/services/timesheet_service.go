package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/kawasemi/timesheet-api/internal/models"
	"github.com/kawasemi/timesheet-api/internal/repository"
	"github.com/kawasemi/timesheet-api/internal/utils"
)

var (
	ErrEntryNotFound  = errors.New("timesheet entry not found")
	ErrInvalidMinutes = errors.New("minutes must be between 1 and 1440")
)

// TimesheetService provides the tenant-scoped timesheet entry CRUD. Every
// operation receives the validated membership of the active tenant; the
// service never resolves tenants itself.
type TimesheetService struct {
	timesheetRepo repository.TimesheetRepository
}

// NewTimesheetService creates a new TimesheetService.
func NewTimesheetService(timesheetRepo repository.TimesheetRepository) *TimesheetService {
	return &TimesheetService{
		timesheetRepo: timesheetRepo,
	}
}

// CreateEntryInput represents a new timesheet entry.
type CreateEntryInput struct {
	WorkDate time.Time
	Minutes  int
	Note     string
}

// CreateEntry records a work entry for the member.
func (s *TimesheetService) CreateEntry(membership *models.Membership, input CreateEntryInput) (*models.TimesheetEntry, error) {
	if input.Minutes < 1 || input.Minutes > 1440 {
		return nil, ErrInvalidMinutes
	}

	entry := &models.TimesheetEntry{
		TenantID:     membership.TenantID,
		MembershipID: membership.ID,
		WorkDate:     input.WorkDate,
		Minutes:      input.Minutes,
		Note:         input.Note,
	}
	if err := s.timesheetRepo.Create(entry); err != nil {
		return nil, fmt.Errorf("failed to create entry: %w", err)
	}
	return entry, nil
}

// ListEntries lists the member's own entries.
func (s *TimesheetService) ListEntries(membership *models.Membership, params utils.PaginationParams) ([]models.TimesheetEntry, int64, error) {
	entries, total, err := s.timesheetRepo.ListByMembership(membership.ID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list entries: %w", err)
	}
	return entries, total, nil
}

// UpdateEntryInput holds the mutable fields of an entry.
type UpdateEntryInput struct {
	Minutes *int
	Note    *string
}

// UpdateEntry mutates an entry owned by the member within the active tenant.
func (s *TimesheetService) UpdateEntry(membership *models.Membership, entryID uint64, input UpdateEntryInput) (*models.TimesheetEntry, error) {
	entry, err := s.getOwnEntry(membership, entryID)
	if err != nil {
		return nil, err
	}

	if input.Minutes != nil {
		if *input.Minutes < 1 || *input.Minutes > 1440 {
			return nil, ErrInvalidMinutes
		}
		entry.Minutes = *input.Minutes
	}
	if input.Note != nil {
		entry.Note = *input.Note
	}

	if err := s.timesheetRepo.Update(entry); err != nil {
		return nil, fmt.Errorf("failed to update entry: %w", err)
	}
	return entry, nil
}

// DeleteEntry removes an entry owned by the member within the active tenant.
func (s *TimesheetService) DeleteEntry(membership *models.Membership, entryID uint64) error {
	if _, err := s.getOwnEntry(membership, entryID); err != nil {
		return err
	}
	if err := s.timesheetRepo.Delete(entryID); err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	return nil
}

func (s *TimesheetService) getOwnEntry(membership *models.Membership, entryID uint64) (*models.TimesheetEntry, error) {
	entry, err := s.timesheetRepo.FindByID(entryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, fmt.Errorf("failed to find entry: %w", err)
	}
	if entry.TenantID != membership.TenantID {
		// Cross-tenant probes read as not-found, never as forbidden.
		return nil, ErrEntryNotFound
	}
	if entry.MembershipID != membership.ID {
		return nil, ErrEntryNotFound
	}
	return entry, nil
}
