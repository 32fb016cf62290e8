package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/kawasemi/timesheet-api/internal/authz"
	"github.com/kawasemi/timesheet-api/internal/constants"
	"github.com/kawasemi/timesheet-api/internal/database"
	"github.com/kawasemi/timesheet-api/internal/middleware"
	"github.com/kawasemi/timesheet-api/internal/models"
	"github.com/kawasemi/timesheet-api/internal/repository"
	"github.com/kawasemi/timesheet-api/internal/services"
)

type handlerTestEnv struct {
	db             *gorm.DB
	router         *gin.Engine
	authService    *services.AuthService
	sessionService *services.SessionService
	membershipRepo repository.MembershipRepository
	identityRepo   repository.IdentityRepository
}

// setupHandlerTestEnv builds the real route tree over an in-memory store so
// handler tests exercise the same middleware chain as production.
func setupHandlerTestEnv(t *testing.T) handlerTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

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

	database.SetDB(db)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	identityRepo := repository.NewIdentityRepository(db)
	membershipRepo := repository.NewMembershipRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	tenantRepo := repository.NewTenantRepository(db)
	timesheetRepo := repository.NewTimesheetRepository(db)

	authService := services.NewAuthService(identityRepo)
	affiliationService := services.NewAffiliationService(identityRepo, membershipRepo)
	sessionService := services.NewSessionService(sessionRepo, membershipRepo, identityRepo, time.Hour)
	assignmentService := services.NewAssignmentService(identityRepo, membershipRepo, tenantRepo)
	tenantService := services.NewTenantService(tenantRepo, membershipRepo)
	timesheetService := services.NewTimesheetService(timesheetRepo)

	authHandler := NewAuthHandler(authService, sessionService)
	affiliationHandler := NewAffiliationHandler(affiliationService, sessionService)
	assignmentHandler := NewAssignmentHandler(assignmentService)
	adminHandler := NewAdminHandler(tenantService)
	timesheetHandler := NewTimesheetHandler(timesheetService)

	r := gin.New()
	store := cookie.NewStore([]byte("secret"))
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	requireAuth := middleware.RequireAuth(sessionService, authService)
	requireActiveTenant := middleware.RequireActiveTenant(sessionService)

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", requireAuth, authHandler.GetCurrentUser)
		}

		affiliation := api.Group("/affiliation")
		affiliation.Use(requireAuth)
		{
			affiliation.GET("", affiliationHandler.GetAffiliation)
			affiliation.POST("/select-tenant", affiliationHandler.SelectTenant)
		}

		admin := api.Group("/admin")
		admin.Use(requireAuth, requireActiveTenant)
		{
			admin.GET("/members", middleware.RequirePermission(authz.PermMemberView), adminHandler.ListMembers)
			admin.GET("/users/search", middleware.RequirePermission(authz.PermMemberAssignTenant), assignmentHandler.SearchUsers)
			admin.POST("/users/assign", middleware.RequirePermission(authz.PermMemberAssignTenant), assignmentHandler.AssignUser)
			admin.POST("/users/import", middleware.RequirePermission(authz.PermMemberAssignTenant), assignmentHandler.ImportUsers)
			admin.POST("/memberships/:id/organization", middleware.RequirePermission(authz.PermMemberManage), adminHandler.PlaceInOrganization)
			admin.POST("/memberships/:id/deactivate", middleware.RequirePermission(authz.PermMemberManage), adminHandler.DeactivateMembership)
		}

		system := api.Group("/system")
		system.Use(requireAuth)
		{
			system.POST("/tenants", middleware.RequirePermission(authz.PermTenantManage), adminHandler.CreateTenant)
			system.GET("/tenants", middleware.RequirePermission(authz.PermTenantManage), adminHandler.ListTenants)
			system.POST("/tenants/:id/organizations", middleware.RequirePermission(authz.PermTenantManage), adminHandler.CreateOrganization)
			system.POST("/users/:id/status", middleware.RequirePermission(authz.PermUserManage), authHandler.SetAccountStatus)
		}

		timesheets := api.Group("/timesheets")
		timesheets.Use(requireAuth, requireActiveTenant)
		{
			timesheets.GET("", middleware.RequirePermission(authz.PermTimesheetView), timesheetHandler.ListEntries)
			timesheets.POST("", middleware.RequirePermission(authz.PermTimesheetEdit), timesheetHandler.CreateEntry)
		}
	}

	return handlerTestEnv{
		db:             db,
		router:         r,
		authService:    authService,
		sessionService: sessionService,
		membershipRepo: membershipRepo,
		identityRepo:   identityRepo,
	}
}

func (env handlerTestEnv) createIdentity(t *testing.T, email, password string) *models.Identity {
	t.Helper()
	identity, err := env.authService.Signup(services.SignupInput{
		Email:       email,
		DisplayName: email,
		Password:    password,
	})
	require.NoError(t, err)
	return identity
}

func (env handlerTestEnv) promoteToSystemAdmin(t *testing.T, identity *models.Identity) {
	t.Helper()
	err := env.db.Model(&models.Identity{}).
		Where("id = ?", identity.ID).
		Update("system_role", models.SystemRoleAdmin).Error
	require.NoError(t, err)
}

func (env handlerTestEnv) createTenant(t *testing.T, name string) *models.Tenant {
	t.Helper()
	tenant := &models.Tenant{Name: name}
	require.NoError(t, env.db.Create(tenant).Error)
	return tenant
}

func (env handlerTestEnv) createOrganization(t *testing.T, tenantID uint64, name string) *models.Organization {
	t.Helper()
	org := &models.Organization{TenantID: tenantID, Name: name}
	require.NoError(t, env.db.Create(org).Error)
	return org
}

func (env handlerTestEnv) createMembership(t *testing.T, tenantID uint64, email string, role models.TenantRole, orgID *uint64) *models.Membership {
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

// login authenticates through the real endpoint and returns the session
// cookies subsequent requests must carry.
func (env handlerTestEnv) login(t *testing.T, email, password string) []*http.Cookie {
	t.Helper()
	w := env.request(t, http.MethodPost, "/api/auth/login", map[string]any{
		"email":    email,
		"password": password,
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	return cookies
}

func (env handlerTestEnv) request(t *testing.T, method, path string, payload any, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}
