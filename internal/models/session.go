package models

import "time"

// Session is the server-side session row. SelectedTenantID is a hint, never
// a capability: every use re-validates the membership behind it.
type Session struct {
	ID               string    `gorm:"type:varchar(64);primarykey" json:"id"`
	UserID           uint64    `gorm:"not null;index" json:"user_id"`
	SelectedTenantID *uint64   `json:"selected_tenant_id"`
	CreatedAt        time.Time `json:"created_at"`
	LastAccessedAt   time.Time `json:"last_accessed_at"`
	ExpiresAt        time.Time `gorm:"index" json:"expires_at"`

	// Relations
	User Identity `gorm:"foreignKey:UserID" json:"-"`
}

// Expired reports whether the session has passed its expiry.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
