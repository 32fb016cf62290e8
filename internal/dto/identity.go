package dto

import "github.com/kawasemi/timesheet-api/internal/models"

// IdentityDTO represents the authenticated user in API responses
type IdentityDTO struct {
	ID            uint64               `json:"id"`
	Email         string               `json:"email"`
	DisplayName   string               `json:"display_name"`
	SystemRole    models.SystemRole    `json:"system_role,omitempty"`
	AccountStatus models.AccountStatus `json:"account_status"`
}

// ToIdentityDTO converts an identity to its API representation
func ToIdentityDTO(identity models.Identity) IdentityDTO {
	return IdentityDTO{
		ID:            identity.ID,
		Email:         identity.Email,
		DisplayName:   identity.DisplayName,
		SystemRole:    identity.SystemRole,
		AccountStatus: identity.AccountStatus,
	}
}

// TenantDTO represents a tenant in API responses
type TenantDTO struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// ToTenantDTO converts a tenant to its API representation
func ToTenantDTO(tenant models.Tenant) TenantDTO {
	return TenantDTO{
		ID:   tenant.ID,
		Name: tenant.Name,
	}
}

// OrganizationDTO represents an organization in API responses
type OrganizationDTO struct {
	ID       uint64 `json:"id"`
	TenantID uint64 `json:"tenant_id"`
	Name     string `json:"name"`
}

// ToOrganizationDTO converts an organization to its API representation
func ToOrganizationDTO(org models.Organization) OrganizationDTO {
	return OrganizationDTO{
		ID:       org.ID,
		TenantID: org.TenantID,
		Name:     org.Name,
	}
}
