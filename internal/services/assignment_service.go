package services

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/kawasemi/timesheet-api/internal/constants"
	"github.com/kawasemi/timesheet-api/internal/models"
	"github.com/kawasemi/timesheet-api/internal/repository"
	"github.com/kawasemi/timesheet-api/internal/utils"
)

var (
	ErrDuplicateTenantAssignment = errors.New("identity already assigned to tenant")
	ErrTenantNotFound            = errors.New("tenant not found")
	ErrEmptyImportBatch          = errors.New("import batch is empty")
	ErrImportBatchTooLarge       = errors.New("import batch exceeds the row limit")
	ErrImportBatchInvalid        = errors.New("import batch contains invalid rows")
)

// AssignmentService assigns existing identities into tenants and imports new
// ones in bulk. Assignments create memberships only; an identity's
// credentials and system role are never touched by this service.
type AssignmentService struct {
	identityRepo   repository.IdentityRepository
	membershipRepo repository.MembershipRepository
	tenantRepo     repository.TenantRepository
}

// NewAssignmentService creates a new AssignmentService.
func NewAssignmentService(
	identityRepo repository.IdentityRepository,
	membershipRepo repository.MembershipRepository,
	tenantRepo repository.TenantRepository,
) *AssignmentService {
	return &AssignmentService{
		identityRepo:   identityRepo,
		membershipRepo: membershipRepo,
		tenantRepo:     tenantRepo,
	}
}

// SearchResult is one row of a cross-tenant identity search, annotated with
// whether the identity already holds a membership in the target tenant.
type SearchResult struct {
	UserID            uint64
	Email             string
	DisplayName       string
	IsAlreadyInTenant bool
}

// SearchForAssignment finds existing identities by partial email so an
// administrator can assign them instead of creating duplicate accounts.
// Results are capped; an empty partial returns nothing rather than the
// whole identity table.
func (s *AssignmentService) SearchForAssignment(emailPartial string, tenantID uint64) ([]SearchResult, error) {
	emailPartial = strings.TrimSpace(emailPartial)
	if emailPartial == "" {
		return []SearchResult{}, nil
	}

	identities, err := s.identityRepo.SearchByEmail(emailPartial, constants.MaxAssignmentSearchResults)
	if err != nil {
		return nil, fmt.Errorf("failed to search identities: %w", err)
	}
	if len(identities) == 0 {
		return []SearchResult{}, nil
	}

	emails := make([]string, len(identities))
	for i, identity := range identities {
		emails[i] = identity.Email
	}
	existing, err := s.membershipRepo.ExistingEmailsForTenant(tenantID, emails)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing memberships: %w", err)
	}

	results := make([]SearchResult, len(identities))
	for i, identity := range identities {
		results[i] = SearchResult{
			UserID:            identity.ID,
			Email:             identity.Email,
			DisplayName:       identity.DisplayName,
			IsAlreadyInTenant: existing[strings.ToLower(identity.Email)],
		}
	}
	return results, nil
}

// AssignUserToTenant creates a membership binding an existing identity to a
// tenant. The duplicate check and the insert run in one transaction, with
// the per-tenant unique index as a backstop, so two concurrent assignments
// yield exactly one membership. The new membership has no organization;
// placement is a separate, later mutation.
func (s *AssignmentService) AssignUserToTenant(userID, tenantID uint64, displayName string) (uint64, error) {
	identity, err := s.identityRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrIdentityNotFound
		}
		return 0, fmt.Errorf("failed to find identity: %w", err)
	}

	if _, err := s.tenantRepo.FindByID(tenantID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrTenantNotFound
		}
		return 0, fmt.Errorf("failed to find tenant: %w", err)
	}

	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		displayName = identity.DisplayName
	}

	membership := &models.Membership{
		TenantID:    tenantID,
		Email:       identity.Email,
		DisplayName: displayName,
		Role:        models.TenantRoleStaff,
		IsActive:    true,
	}

	if err := s.membershipRepo.CreateIfAbsent(membership); err != nil {
		if errors.Is(err, repository.ErrDuplicateMembership) {
			return 0, ErrDuplicateTenantAssignment
		}
		return 0, fmt.Errorf("failed to create membership: %w", err)
	}

	return membership.ID, nil
}

// ImportRowStatus tells a bulk-import submitter what happened to one row.
type ImportRowStatus string

const (
	// ImportCreated means a new identity was created along with the
	// membership; the temporary password travels with this result exactly
	// once and is not stored in clear anywhere.
	ImportCreated ImportRowStatus = "CREATED"
	// ImportExisting means the email already had an identity, so only a
	// membership was created.
	ImportExisting ImportRowStatus = "EXISTING"
)

// ImportRow is one requested row of a bulk import.
type ImportRow struct {
	Email       string
	DisplayName string
}

// ImportRowResult is the outcome for one committed row.
type ImportRowResult struct {
	Email             string
	MembershipID      uint64
	Status            ImportRowStatus
	TemporaryPassword string
}

// ImportRowError is one validation failure, indexed by the submitted row.
type ImportRowError struct {
	Row    int
	Email  string
	Reason string
}

// ImportUsers validates the whole batch before committing anything: format
// errors, in-batch duplicate emails, and per-tenant membership collisions
// are all collected and reported together so the submitter can fix every
// problem in one pass. A batch with any error commits nothing.
func (s *AssignmentService) ImportUsers(tenantID uint64, rows []ImportRow) ([]ImportRowResult, []ImportRowError, error) {
	if len(rows) == 0 {
		return nil, nil, ErrEmptyImportBatch
	}
	if len(rows) > constants.MaxImportBatchSize {
		return nil, nil, ErrImportBatchTooLarge
	}
	if _, err := s.tenantRepo.FindByID(tenantID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrTenantNotFound
		}
		return nil, nil, fmt.Errorf("failed to find tenant: %w", err)
	}

	var rowErrors []ImportRowError
	seen := make(map[string]int, len(rows))
	emails := make([]string, 0, len(rows))

	for i, row := range rows {
		email := strings.TrimSpace(strings.ToLower(row.Email))
		if email == "" || !strings.Contains(email, "@") {
			rowErrors = append(rowErrors, ImportRowError{Row: i, Email: row.Email, Reason: "invalid email"})
			continue
		}
		if strings.TrimSpace(row.DisplayName) == "" {
			rowErrors = append(rowErrors, ImportRowError{Row: i, Email: email, Reason: "display name is required"})
			continue
		}
		if _, dup := seen[email]; dup {
			rowErrors = append(rowErrors, ImportRowError{Row: i, Email: email, Reason: "duplicate email in batch"})
			continue
		}
		seen[email] = i
		emails = append(emails, email)
	}

	existing, err := s.membershipRepo.ExistingEmailsForTenant(tenantID, emails)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to check existing memberships: %w", err)
	}
	for _, email := range emails {
		if existing[email] {
			rowErrors = append(rowErrors, ImportRowError{
				Row:    seen[email],
				Email:  email,
				Reason: "already a member of this tenant",
			})
		}
	}

	if len(rowErrors) > 0 {
		return nil, rowErrors, ErrImportBatchInvalid
	}

	var (
		newIdentities  []*models.Identity
		newMemberships []*models.Membership
		results        = make([]ImportRowResult, 0, len(emails))
	)

	for _, email := range emails {
		row := rows[seen[email]]
		displayName := strings.TrimSpace(row.DisplayName)

		membership := &models.Membership{
			TenantID:    tenantID,
			Email:       email,
			DisplayName: displayName,
			Role:        models.TenantRoleStaff,
			IsActive:    true,
		}
		newMemberships = append(newMemberships, membership)

		result := ImportRowResult{Email: email, Status: ImportExisting}

		if _, err := s.identityRepo.FindByEmail(email); err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil, fmt.Errorf("failed to check identity: %w", err)
			}

			tempPassword, err := utils.GenerateTemporaryPassword()
			if err != nil {
				return nil, nil, fmt.Errorf("failed to generate temporary password: %w", err)
			}
			hash, err := bcrypt.GenerateFromPassword([]byte(tempPassword), bcrypt.DefaultCost)
			if err != nil {
				return nil, nil, ErrFailedToHashPassword
			}

			newIdentities = append(newIdentities, &models.Identity{
				Email:         email,
				DisplayName:   displayName,
				PasswordHash:  string(hash),
				AccountStatus: models.AccountActive,
			})
			result.Status = ImportCreated
			result.TemporaryPassword = tempPassword
		}

		results = append(results, result)
	}

	if err := s.identityRepo.CreateBatchWithMemberships(newIdentities, newMemberships); err != nil {
		return nil, nil, fmt.Errorf("failed to commit import batch: %w", err)
	}

	for i, membership := range newMemberships {
		results[i].MembershipID = membership.ID
	}

	return results, nil, nil
}
