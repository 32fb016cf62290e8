package dto

import (
	"time"

	"github.com/kawasemi/timesheet-api/internal/models"
	"github.com/kawasemi/timesheet-api/internal/utils"
)

// TimesheetEntryDTO represents a timesheet entry in API responses
type TimesheetEntryDTO struct {
	ID           uint64    `json:"id"`
	MembershipID uint64    `json:"membership_id"`
	WorkDate     time.Time `json:"work_date"`
	Minutes      int       `json:"minutes"`
	Note         string    `json:"note"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TimesheetListResponse represents a paginated list of entries
type TimesheetListResponse struct {
	Entries    []TimesheetEntryDTO      `json:"entries"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// ToTimesheetEntryDTO converts an entry to its API representation
func ToTimesheetEntryDTO(entry models.TimesheetEntry) TimesheetEntryDTO {
	return TimesheetEntryDTO{
		ID:           entry.ID,
		MembershipID: entry.MembershipID,
		WorkDate:     entry.WorkDate,
		Minutes:      entry.Minutes,
		Note:         entry.Note,
		CreatedAt:    entry.CreatedAt,
		UpdatedAt:    entry.UpdatedAt,
	}
}

// ToTimesheetListResponse builds the paginated list response
func ToTimesheetListResponse(entries []models.TimesheetEntry, params utils.PaginationParams, total int64) TimesheetListResponse {
	dtos := make([]TimesheetEntryDTO, len(entries))
	for i, entry := range entries {
		dtos[i] = ToTimesheetEntryDTO(entry)
	}
	return TimesheetListResponse{
		Entries: dtos,
		Pagination: utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	}
}
