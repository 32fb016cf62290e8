package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/kawasemi/timesheet-api/internal/models"
	"github.com/kawasemi/timesheet-api/internal/repository"
)

// AffiliationService derives an identity's affiliation status and membership
// list. It is the single component allowed to read memberships across tenant
// boundaries; every other query in the system is tenant-scoped.
type AffiliationService struct {
	identityRepo   repository.IdentityRepository
	membershipRepo repository.MembershipRepository
}

// NewAffiliationService creates a new AffiliationService.
func NewAffiliationService(identityRepo repository.IdentityRepository, membershipRepo repository.MembershipRepository) *AffiliationService {
	return &AffiliationService{
		identityRepo:   identityRepo,
		membershipRepo: membershipRepo,
	}
}

// Affiliation is the result of resolving an identity's memberships.
type Affiliation struct {
	Status      models.AffiliationStatus
	Memberships []models.Membership
}

// Resolve computes the affiliation for a verified email. Zero memberships is
// the normal UNAFFILIATED case, not an error; only a missing identity row is
// a fault. The status is recomputed from live rows on every call and never
// cached across requests.
func (s *AffiliationService) Resolve(email string) (*Affiliation, error) {
	if _, err := s.identityRepo.FindByEmail(email); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIdentityNotFound
		}
		return nil, fmt.Errorf("failed to find identity: %w", err)
	}

	memberships, err := s.membershipRepo.ListByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}

	return &Affiliation{
		Status:      models.DeriveAffiliationStatus(memberships),
		Memberships: memberships,
	}, nil
}
