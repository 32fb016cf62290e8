package models

import (
	"time"

	"gorm.io/gorm"
)

// TimesheetEntry is a daily work record owned by a membership. Always scoped
// to the tenant of the membership that created it.
type TimesheetEntry struct {
	ID           uint64         `gorm:"primarykey" json:"id"`
	TenantID     uint64         `gorm:"not null;index" json:"tenant_id"`
	MembershipID uint64         `gorm:"not null;index" json:"membership_id"`
	WorkDate     time.Time      `gorm:"not null" json:"work_date"`
	Minutes      int            `gorm:"not null" json:"minutes"`
	Note         string         `gorm:"type:text" json:"note"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Membership Membership `gorm:"foreignKey:MembershipID" json:"membership,omitempty"`
}
