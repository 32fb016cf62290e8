package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/kawasemi/timesheet-api/internal/models"
	"github.com/kawasemi/timesheet-api/internal/repository"
)

type serviceTestEnv struct {
	db                 *gorm.DB
	identityRepo       repository.IdentityRepository
	membershipRepo     repository.MembershipRepository
	sessionRepo        repository.SessionRepository
	tenantRepo         repository.TenantRepository
	authService        *AuthService
	affiliationService *AffiliationService
	sessionService     *SessionService
	assignmentService  *AssignmentService
	tenantService      *TenantService
}

func setupServiceTestEnv(t *testing.T) serviceTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.Identity{},
		&models.Tenant{},
		&models.Organization{},
		&models.Membership{},
		&models.Session{},
		&models.TimesheetEntry{},
	)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// Serialize connections so concurrent service calls are safe on sqlite.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	identityRepo := repository.NewIdentityRepository(db)
	membershipRepo := repository.NewMembershipRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	tenantRepo := repository.NewTenantRepository(db)

	return serviceTestEnv{
		db:                 db,
		identityRepo:       identityRepo,
		membershipRepo:     membershipRepo,
		sessionRepo:        sessionRepo,
		tenantRepo:         tenantRepo,
		authService:        NewAuthService(identityRepo),
		affiliationService: NewAffiliationService(identityRepo, membershipRepo),
		sessionService:     NewSessionService(sessionRepo, membershipRepo, identityRepo, time.Hour),
		assignmentService:  NewAssignmentService(identityRepo, membershipRepo, tenantRepo),
		tenantService:      NewTenantService(tenantRepo, membershipRepo),
	}
}

func (env serviceTestEnv) createIdentity(t *testing.T, email string) *models.Identity {
	t.Helper()
	identity := &models.Identity{
		Email:         email,
		DisplayName:   email,
		PasswordHash:  "x",
		AccountStatus: models.AccountActive,
	}
	require.NoError(t, env.identityRepo.Create(identity))
	return identity
}

func (env serviceTestEnv) createTenant(t *testing.T, name string) *models.Tenant {
	t.Helper()
	tenant := &models.Tenant{Name: name}
	require.NoError(t, env.tenantRepo.Create(tenant))
	return tenant
}

func (env serviceTestEnv) createMembership(t *testing.T, tenantID uint64, email string, role models.TenantRole, orgID *uint64) *models.Membership {
	t.Helper()
	membership := &models.Membership{
		TenantID:       tenantID,
		OrganizationID: orgID,
		Email:          email,
		DisplayName:    email,
		Role:           role,
		IsActive:       true,
	}
	require.NoError(t, env.db.Create(membership).Error)
	return membership
}

func (env serviceTestEnv) createOrganization(t *testing.T, tenantID uint64, name string) *models.Organization {
	t.Helper()
	org := &models.Organization{TenantID: tenantID, Name: name}
	require.NoError(t, env.tenantRepo.CreateOrganization(org))
	return org
}
