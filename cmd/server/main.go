package main

import (
	"log"
	"time"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kawasemi/timesheet-api/internal/authz"
	"github.com/kawasemi/timesheet-api/internal/config"
	"github.com/kawasemi/timesheet-api/internal/constants"
	"github.com/kawasemi/timesheet-api/internal/database"
	"github.com/kawasemi/timesheet-api/internal/handlers"
	"github.com/kawasemi/timesheet-api/internal/logging"
	"github.com/kawasemi/timesheet-api/internal/metrics"
	"github.com/kawasemi/timesheet-api/internal/middleware"
	"github.com/kawasemi/timesheet-api/internal/repository"
	"github.com/kawasemi/timesheet-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	if err := logging.Init(cfg); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = logging.L().Sync() }()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		logging.L().Fatal("Failed to connect to database", zap.Error(err))
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		logging.L().Fatal("Failed to run migrations", zap.Error(err))
	}

	db := database.GetDB()

	// Repositories
	identityRepo := repository.NewIdentityRepository(db)
	membershipRepo := repository.NewMembershipRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	tenantRepo := repository.NewTenantRepository(db)
	timesheetRepo := repository.NewTimesheetRepository(db)

	// Services
	authService := services.NewAuthService(identityRepo)
	affiliationService := services.NewAffiliationService(identityRepo, membershipRepo)
	sessionService := services.NewSessionService(sessionRepo, membershipRepo, identityRepo, cfg.SessionTTL)
	assignmentService := services.NewAssignmentService(identityRepo, membershipRepo, tenantRepo)
	tenantService := services.NewTenantService(tenantRepo, membershipRepo)
	timesheetService := services.NewTimesheetService(timesheetRepo)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, sessionService)
	affiliationHandler := handlers.NewAffiliationHandler(affiliationService, sessionService)
	assignmentHandler := handlers.NewAssignmentHandler(assignmentService)
	adminHandler := handlers.NewAdminHandler(tenantService)
	timesheetHandler := handlers.NewTimesheetHandler(timesheetService)

	// Initialize Gin router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logging.Middleware())

	httpMetrics := metrics.NewHTTPMetrics(cfg.ServiceName)
	r.Use(httpMetrics.Middleware())

	// Setup cookie session middleware with Redis; the cookie carries only
	// the server-side session ID.
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,
		"tcp",
		redisAddr,
		"",
		[]byte(cfg.SessionSecret),
	)
	if err != nil {
		logging.L().Fatal("Failed to create Redis store", zap.Error(err))
	}
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // SameSite=Lax (1=Strict, 2=Lax, 3=None)
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	requireAuth := middleware.RequireAuth(sessionService, authService)
	requireActiveTenant := middleware.RequireActiveTenant(sessionService)

	// Periodic sweep of expired session rows.
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			if err := sessionService.SweepExpired(); err != nil {
				logging.L().Warn("Failed to sweep expired sessions", zap.Error(err))
			}
		}
	}()

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Timesheet API is running",
		})
	})

	// Prometheus metrics
	r.GET("/metrics", httpMetrics.Handler())

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", requireAuth, authHandler.GetCurrentUser)
		}

		// Affiliation status and tenant selection (authenticated)
		affiliation := api.Group("/affiliation")
		affiliation.Use(requireAuth)
		{
			affiliation.GET("", affiliationHandler.GetAffiliation)
			affiliation.POST("/select-tenant", affiliationHandler.SelectTenant)
		}

		// Tenant administration (authenticated, tenant-scoped)
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

		// Tenant lifecycle (authenticated, system-level; no active tenant)
		system := api.Group("/system")
		system.Use(requireAuth)
		{
			system.POST("/tenants", middleware.RequirePermission(authz.PermTenantManage), adminHandler.CreateTenant)
			system.GET("/tenants", middleware.RequirePermission(authz.PermTenantManage), adminHandler.ListTenants)
			system.POST("/tenants/:id/organizations", middleware.RequirePermission(authz.PermTenantManage), adminHandler.CreateOrganization)
			system.POST("/users/:id/status", middleware.RequirePermission(authz.PermUserManage), authHandler.SetAccountStatus)
		}

		// Timesheet entries (authenticated, tenant-scoped)
		timesheets := api.Group("/timesheets")
		timesheets.Use(requireAuth, requireActiveTenant)
		{
			timesheets.GET("", middleware.RequirePermission(authz.PermTimesheetView), timesheetHandler.ListEntries)
			timesheets.POST("", middleware.RequirePermission(authz.PermTimesheetEdit), timesheetHandler.CreateEntry)
			timesheets.PATCH("/:id", middleware.RequirePermission(authz.PermTimesheetEdit), timesheetHandler.UpdateEntry)
			timesheets.DELETE("/:id", middleware.RequirePermission(authz.PermTimesheetEdit), timesheetHandler.DeleteEntry)
		}
	}

	// Start server
	logging.L().Info("Server starting on :8080")
	if err := r.Run(":8080"); err != nil {
		logging.L().Fatal("Failed to start server", zap.Error(err))
	}
}
