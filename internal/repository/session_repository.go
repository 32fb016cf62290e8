package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/kawasemi/timesheet-api/internal/models"
)

var (
	// ErrNoActiveMembership is returned when a tenant selection has no live
	// membership behind it at the time of the call.
	ErrNoActiveMembership = errors.New("session repository: no active membership for tenant")
)

// GormSessionRepository is a GORM implementation of SessionRepository
type GormSessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository creates a new SessionRepository
func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &GormSessionRepository{db: db}
}

// Create creates a new session row
func (r *GormSessionRepository) Create(session *models.Session) error {
	return r.db.Create(session).Error
}

// FindByID finds a session by ID
func (r *GormSessionRepository) FindByID(id string) (*models.Session, error) {
	var session models.Session
	if err := r.db.Where("id = ?", id).First(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

// Touch updates the session's last-accessed timestamp
func (r *GormSessionRepository) Touch(id string, at time.Time) error {
	return r.db.Model(&models.Session{}).
		Where("id = ?", id).
		Update("last_accessed_at", at).Error
}

// BindTenant re-validates the membership and writes the selection in one
// transaction, closing the check-then-act window against a concurrent
// deactivation.
func (r *GormSessionRepository) BindTenant(sessionID string, tenantID uint64, email string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Membership{}).
			Where("tenant_id = ? AND lower(email) = lower(?) AND is_active = ?", tenantID, email, true).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNoActiveMembership
		}
		return tx.Model(&models.Session{}).
			Where("id = ?", sessionID).
			Update("selected_tenant_id", tenantID).Error
	})
}

// ClearSelectedTenant resets the session's selection to unset
func (r *GormSessionRepository) ClearSelectedTenant(sessionID string) error {
	return r.db.Model(&models.Session{}).
		Where("id = ?", sessionID).
		Update("selected_tenant_id", nil).Error
}

// Delete removes a session row
func (r *GormSessionRepository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&models.Session{}).Error
}

// DeleteExpired removes sessions past their expiry
func (r *GormSessionRepository) DeleteExpired(now time.Time) error {
	return r.db.Where("expires_at < ?", now).Delete(&models.Session{}).Error
}
