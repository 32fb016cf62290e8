package models

import (
	"time"

	"gorm.io/gorm"
)

// Organization is a unit inside a tenant that memberships are placed into.
type Organization struct {
	ID        uint64         `gorm:"primarykey" json:"id"`
	TenantID  uint64         `gorm:"not null;index" json:"tenant_id"`
	Name      string         `gorm:"type:varchar(255);not null" json:"name"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Tenant Tenant `gorm:"foreignKey:TenantID" json:"tenant,omitempty"`
}
