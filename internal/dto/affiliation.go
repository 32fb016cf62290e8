package dto

import "github.com/kawasemi/timesheet-api/internal/models"

// MembershipDTO represents one tenant affiliation in the status response
type MembershipDTO struct {
	MembershipID     uint64            `json:"membership_id"`
	TenantID         uint64            `json:"tenant_id"`
	TenantName       string            `json:"tenant_name"`
	OrganizationID   *uint64           `json:"organization_id"`
	OrganizationName *string           `json:"organization_name"`
	Role             models.TenantRole `json:"role"`
	IsActive         bool              `json:"is_active"`
}

// AffiliationDTO is the "who am I, what tenants, what state" response
type AffiliationDTO struct {
	State       models.AffiliationStatus `json:"state"`
	Memberships []MembershipDTO          `json:"memberships"`
}

// ToMembershipDTO converts a membership (with preloaded relations) to DTO
func ToMembershipDTO(m models.Membership) MembershipDTO {
	d := MembershipDTO{
		MembershipID:   m.ID,
		TenantID:       m.TenantID,
		TenantName:     m.Tenant.Name,
		OrganizationID: m.OrganizationID,
		Role:           m.Role,
		IsActive:       m.IsActive,
	}
	if m.Organization != nil {
		d.OrganizationName = &m.Organization.Name
	}
	return d
}

// ToAffiliationDTO converts a resolved affiliation to its API representation
func ToAffiliationDTO(status models.AffiliationStatus, memberships []models.Membership) AffiliationDTO {
	dtos := make([]MembershipDTO, len(memberships))
	for i, m := range memberships {
		dtos[i] = ToMembershipDTO(m)
	}
	return AffiliationDTO{
		State:       status,
		Memberships: dtos,
	}
}

// MemberListItemDTO represents one member row in the admin member list
type MemberListItemDTO struct {
	MembershipID   uint64            `json:"membership_id"`
	Email          string            `json:"email"`
	DisplayName    string            `json:"display_name"`
	OrganizationID *uint64           `json:"organization_id"`
	Role           models.TenantRole `json:"role"`
	IsActive       bool              `json:"is_active"`
}

// ToMemberListItemDTO converts a membership to an admin list row
func ToMemberListItemDTO(m models.Membership) MemberListItemDTO {
	return MemberListItemDTO{
		MembershipID:   m.ID,
		Email:          m.Email,
		DisplayName:    m.DisplayName,
		OrganizationID: m.OrganizationID,
		Role:           m.Role,
		IsActive:       m.IsActive,
	}
}
