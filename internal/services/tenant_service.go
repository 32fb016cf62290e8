package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/kawasemi/timesheet-api/internal/models"
	"github.com/kawasemi/timesheet-api/internal/repository"
	"github.com/kawasemi/timesheet-api/internal/utils"
)

var (
	ErrInvalidTenantName        = errors.New("tenant name cannot be empty")
	ErrInvalidOrganizationName  = errors.New("organization name cannot be empty")
	ErrOrganizationNotFound     = errors.New("organization not found")
	ErrMembershipNotFound       = errors.New("membership not found")
	ErrOrganizationWrongTenant  = errors.New("organization belongs to a different tenant")
	ErrMembershipWrongTenant    = errors.New("membership belongs to a different tenant")
	ErrMembershipAlreadyInactive = errors.New("membership is already inactive")
)

// TenantService provides tenant lifecycle and membership administration.
type TenantService struct {
	tenantRepo     repository.TenantRepository
	membershipRepo repository.MembershipRepository
}

// NewTenantService creates a new TenantService.
func NewTenantService(tenantRepo repository.TenantRepository, membershipRepo repository.MembershipRepository) *TenantService {
	return &TenantService{
		tenantRepo:     tenantRepo,
		membershipRepo: membershipRepo,
	}
}

// CreateTenant creates a new tenant.
func (s *TenantService) CreateTenant(name string) (*models.Tenant, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrInvalidTenantName
	}

	tenant := &models.Tenant{Name: strings.TrimSpace(name)}
	if err := s.tenantRepo.Create(tenant); err != nil {
		return nil, fmt.Errorf("failed to create tenant: %w", err)
	}
	return tenant, nil
}

// ListTenants lists all tenants.
func (s *TenantService) ListTenants() ([]models.Tenant, error) {
	tenants, err := s.tenantRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}
	return tenants, nil
}

// CreateOrganization creates an organization under a tenant.
func (s *TenantService) CreateOrganization(tenantID uint64, name string) (*models.Organization, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrInvalidOrganizationName
	}

	if _, err := s.tenantRepo.FindByID(tenantID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTenantNotFound
		}
		return nil, fmt.Errorf("failed to find tenant: %w", err)
	}

	org := &models.Organization{
		TenantID: tenantID,
		Name:     strings.TrimSpace(name),
	}
	if err := s.tenantRepo.CreateOrganization(org); err != nil {
		return nil, fmt.Errorf("failed to create organization: %w", err)
	}
	return org, nil
}

// PlaceInOrganization attaches an organization to an existing membership of
// the given tenant. The membership row is mutated in place, never recreated,
// and the organization must belong to the membership's own tenant.
func (s *TenantService) PlaceInOrganization(membershipID, organizationID, tenantID uint64) (*models.Membership, error) {
	membership, err := s.membershipRepo.FindByID(membershipID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMembershipNotFound
		}
		return nil, fmt.Errorf("failed to find membership: %w", err)
	}

	if membership.TenantID != tenantID {
		return nil, ErrMembershipWrongTenant
	}

	org, err := s.tenantRepo.FindOrganization(organizationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("failed to find organization: %w", err)
	}

	if org.TenantID != membership.TenantID {
		return nil, ErrOrganizationWrongTenant
	}

	membership.OrganizationID = &org.ID
	if err := s.membershipRepo.Update(membership); err != nil {
		return nil, fmt.Errorf("failed to update membership: %w", err)
	}
	return membership, nil
}

// DeactivateMembership flips a membership inactive. Sessions pointing at the
// tenant degrade to unset on their next active-tenant resolution.
func (s *TenantService) DeactivateMembership(membershipID, tenantID uint64) (*models.Membership, error) {
	membership, err := s.membershipRepo.FindByID(membershipID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMembershipNotFound
		}
		return nil, fmt.Errorf("failed to find membership: %w", err)
	}

	if membership.TenantID != tenantID {
		return nil, ErrMembershipWrongTenant
	}
	if !membership.IsActive {
		return nil, ErrMembershipAlreadyInactive
	}

	membership.IsActive = false
	if err := s.membershipRepo.Update(membership); err != nil {
		return nil, fmt.Errorf("failed to update membership: %w", err)
	}
	return membership, nil
}

// ListMembers lists a tenant's memberships with pagination.
func (s *TenantService) ListMembers(tenantID uint64, params utils.PaginationParams) ([]models.Membership, int64, error) {
	members, total, err := s.membershipRepo.ListByTenant(tenantID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list members: %w", err)
	}
	return members, total, nil
}
