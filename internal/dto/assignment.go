package dto

import "github.com/kawasemi/timesheet-api/internal/services"

// SearchResultDTO represents one identity in an admin assignment search
type SearchResultDTO struct {
	UserID            uint64 `json:"user_id"`
	Email             string `json:"email"`
	DisplayName       string `json:"display_name"`
	IsAlreadyInTenant bool   `json:"is_already_in_tenant"`
}

// ToSearchResultDTOs converts service search results to API rows
func ToSearchResultDTOs(results []services.SearchResult) []SearchResultDTO {
	dtos := make([]SearchResultDTO, len(results))
	for i, r := range results {
		dtos[i] = SearchResultDTO{
			UserID:            r.UserID,
			Email:             r.Email,
			DisplayName:       r.DisplayName,
			IsAlreadyInTenant: r.IsAlreadyInTenant,
		}
	}
	return dtos
}

// ImportRowResultDTO represents one committed row of a bulk import. The
// temporary password appears here once for freshly created identities and is
// never retrievable again.
type ImportRowResultDTO struct {
	Email             string `json:"email"`
	MembershipID      uint64 `json:"membership_id"`
	Status            string `json:"status"`
	TemporaryPassword string `json:"temporary_password,omitempty"`
}

// ImportRowErrorDTO represents one rejected row of a bulk import
type ImportRowErrorDTO struct {
	Row    int    `json:"row"`
	Email  string `json:"email"`
	Reason string `json:"reason"`
}

// ToImportResultDTOs converts service import results to API rows
func ToImportResultDTOs(results []services.ImportRowResult) []ImportRowResultDTO {
	dtos := make([]ImportRowResultDTO, len(results))
	for i, r := range results {
		dtos[i] = ImportRowResultDTO{
			Email:             r.Email,
			MembershipID:      r.MembershipID,
			Status:            string(r.Status),
			TemporaryPassword: r.TemporaryPassword,
		}
	}
	return dtos
}

// ToImportErrorDTOs converts service import errors to API rows
func ToImportErrorDTOs(errs []services.ImportRowError) []ImportRowErrorDTO {
	dtos := make([]ImportRowErrorDTO, len(errs))
	for i, e := range errs {
		dtos[i] = ImportRowErrorDTO{
			Row:    e.Row,
			Email:  e.Email,
			Reason: e.Reason,
		}
	}
	return dtos
}
