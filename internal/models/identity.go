package models

import (
	"time"

	"gorm.io/gorm"
)

type AccountStatus string

const (
	AccountActive  AccountStatus = "active"
	AccountLocked  AccountStatus = "locked"
	AccountDeleted AccountStatus = "deleted"
)

type SystemRole string

const (
	// SystemRoleNone is the empty system role carried by ordinary users.
	SystemRoleNone SystemRole = ""
	// SystemRoleAdmin grants tenant lifecycle and global user management,
	// never tenant-scoped permissions.
	SystemRoleAdmin SystemRole = "SYSTEM_ADMIN"
)

// Identity is the global, cross-tenant user record. Rows are never deleted,
// only transitioned through AccountStatus.
type Identity struct {
	ID            uint64         `gorm:"primarykey" json:"id"`
	Email         string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	DisplayName   string         `gorm:"type:varchar(255);not null" json:"display_name"`
	PasswordHash  string         `gorm:"type:varchar(255);not null" json:"-"`
	AccountStatus AccountStatus  `gorm:"type:varchar(20);not null;default:'active'" json:"account_status"`
	SystemRole    SystemRole     `gorm:"type:varchar(50);not null;default:''" json:"system_role"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}
