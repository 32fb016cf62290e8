package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kawasemi/timesheet-api/internal/models"
	"github.com/kawasemi/timesheet-api/internal/repository"
)

var (
	ErrSessionNotFound        = errors.New("session not found or expired")
	ErrInvalidTenantSelection = errors.New("no active membership for the requested tenant")
	ErrTenantNotSelected      = errors.New("no tenant selected for this session")
)

// SessionService owns the session-scoped tenant binding. The stored selection
// is a hint, never a capability: every read re-validates the membership
// behind it against live data, and a stale selection is cleared eagerly so
// the stored state always reflects the last validation result.
type SessionService struct {
	sessionRepo    repository.SessionRepository
	membershipRepo repository.MembershipRepository
	identityRepo   repository.IdentityRepository
	ttl            time.Duration
}

// NewSessionService creates a new SessionService.
func NewSessionService(
	sessionRepo repository.SessionRepository,
	membershipRepo repository.MembershipRepository,
	identityRepo repository.IdentityRepository,
	ttl time.Duration,
) *SessionService {
	return &SessionService{
		sessionRepo:    sessionRepo,
		membershipRepo: membershipRepo,
		identityRepo:   identityRepo,
		ttl:            ttl,
	}
}

// CreateForLogin creates the server-side session row for an authenticated
// identity. When the identity has exactly one membership and it is placed in
// an organization, that tenant is selected automatically so single-tenant
// users never see a selection screen. Everyone else starts unset.
func (s *SessionService) CreateForLogin(identity *models.Identity) (*models.Session, error) {
	now := time.Now()
	session := &models.Session{
		ID:             uuid.NewString(),
		UserID:         identity.ID,
		CreatedAt:      now,
		LastAccessedAt: now,
		ExpiresAt:      now.Add(s.ttl),
	}

	memberships, err := s.membershipRepo.ListByEmail(identity.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}
	if len(memberships) == 1 &&
		models.DeriveAffiliationStatus(memberships) == models.StatusFullyAssigned &&
		memberships[0].IsActive {
		tenantID := memberships[0].TenantID
		session.SelectedTenantID = &tenantID
	}

	if err := s.sessionRepo.Create(session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return session, nil
}

// Get loads a session by ID, treating an expired row identically to a
// missing one and destroying it on sight.
func (s *SessionService) Get(sessionID string) (*models.Session, error) {
	session, err := s.sessionRepo.FindByID(sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to find session: %w", err)
	}

	now := time.Now()
	if session.Expired(now) {
		_ = s.sessionRepo.Delete(session.ID)
		return nil, ErrSessionNotFound
	}

	if err := s.sessionRepo.Touch(session.ID, now); err != nil {
		return nil, fmt.Errorf("failed to touch session: %w", err)
	}
	return session, nil
}

// SelectTenant binds a tenant to the session. The membership is re-validated
// at the time of the call, in the same transaction as the write; a failed
// selection leaves any prior selection untouched. Selecting is idempotent,
// so switching tenants is just another call with a different ID.
func (s *SessionService) SelectTenant(sessionID string, tenantID uint64) error {
	session, err := s.Get(sessionID)
	if err != nil {
		return err
	}

	identity, err := s.identityRepo.FindByID(session.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrIdentityNotFound
		}
		return fmt.Errorf("failed to find identity: %w", err)
	}

	if err := s.sessionRepo.BindTenant(session.ID, tenantID, identity.Email); err != nil {
		if errors.Is(err, repository.ErrNoActiveMembership) {
			return ErrInvalidTenantSelection
		}
		return fmt.Errorf("failed to bind tenant: %w", err)
	}
	return nil
}

// ResolveActiveTenant returns the validated membership behind the session's
// selected tenant. Called by every tenant-scoped request; the membership is
// checked against live data each time, so a revoked or deactivated
// membership degrades the binding to unset instead of granting stale access.
// The stored selection is cleared eagerly on a failed validation, meaning a
// later reactivation does not restore the previous selection.
func (s *SessionService) ResolveActiveTenant(sessionID string) (*models.Membership, error) {
	session, err := s.Get(sessionID)
	if err != nil {
		return nil, err
	}

	if session.SelectedTenantID == nil {
		return nil, ErrTenantNotSelected
	}

	identity, err := s.identityRepo.FindByID(session.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIdentityNotFound
		}
		return nil, fmt.Errorf("failed to find identity: %w", err)
	}

	membership, err := s.membershipRepo.FindActiveForTenant(*session.SelectedTenantID, identity.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if clearErr := s.sessionRepo.ClearSelectedTenant(session.ID); clearErr != nil {
				return nil, fmt.Errorf("failed to clear stale selection: %w", clearErr)
			}
			return nil, ErrTenantNotSelected
		}
		return nil, fmt.Errorf("failed to validate membership: %w", err)
	}

	return membership, nil
}

// Destroy removes the session row, ending the binding with it.
func (s *SessionService) Destroy(sessionID string) error {
	return s.sessionRepo.Delete(sessionID)
}

// SweepExpired removes sessions past their expiry. Expired rows are already
// treated as missing on read; this reclaims the storage.
func (s *SessionService) SweepExpired() error {
	return s.sessionRepo.DeleteExpired(time.Now())
}
