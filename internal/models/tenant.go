package models

import (
	"time"

	"gorm.io/gorm"
)

type Tenant struct {
	ID        uint64         `gorm:"primarykey" json:"id"`
	Name      string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Organizations []Organization `gorm:"foreignKey:TenantID" json:"organizations,omitempty"`
	Memberships   []Membership   `gorm:"foreignKey:TenantID" json:"memberships,omitempty"`
}
