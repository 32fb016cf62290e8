package models

import (
	"time"

	"gorm.io/gorm"
)

type TenantRole string

const (
	TenantRoleAdmin   TenantRole = "admin"
	TenantRoleManager TenantRole = "manager"
	TenantRoleStaff   TenantRole = "staff"
)

// Membership is a per-tenant affiliation of an Identity, linked by email.
// At most one row may exist per (tenant_id, lower(email)); the unique index
// is created in database.AddIndexes. OrganizationID stays nil until the
// member is placed into an organization by a separate mutation.
type Membership struct {
	ID             uint64         `gorm:"primarykey" json:"id"`
	TenantID       uint64         `gorm:"not null;index" json:"tenant_id"`
	OrganizationID *uint64        `gorm:"index" json:"organization_id"`
	Email          string         `gorm:"type:varchar(255);not null;index" json:"email"`
	DisplayName    string         `gorm:"type:varchar(255);not null" json:"display_name"`
	ManagerID      *uint64        `json:"manager_id"`
	Role           TenantRole     `gorm:"type:varchar(20);not null;default:'staff'" json:"role"`
	IsActive       bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Tenant       Tenant        `gorm:"foreignKey:TenantID" json:"tenant,omitempty"`
	Organization *Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
	Manager      *Membership   `gorm:"foreignKey:ManagerID" json:"manager,omitempty"`
}

// AffiliationStatus is derived from an identity's membership set on every
// status query and never persisted.
type AffiliationStatus string

const (
	StatusUnaffiliated    AffiliationStatus = "UNAFFILIATED"
	StatusAffiliatedNoOrg AffiliationStatus = "AFFILIATED_NO_ORG"
	StatusFullyAssigned   AffiliationStatus = "FULLY_ASSIGNED"
)

// DeriveAffiliationStatus computes the three-state summary of a membership
// set: empty means UNAFFILIATED, any membership with an organization means
// FULLY_ASSIGNED, otherwise AFFILIATED_NO_ORG.
func DeriveAffiliationStatus(memberships []Membership) AffiliationStatus {
	if len(memberships) == 0 {
		return StatusUnaffiliated
	}
	for _, m := range memberships {
		if m.OrganizationID != nil {
			return StatusFullyAssigned
		}
	}
	return StatusAffiliatedNoOrg
}
