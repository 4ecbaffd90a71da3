package main

import (
	"github.com/taskhive/taskhive/internal/config"
	"github.com/taskhive/taskhive/internal/handlers"
	"github.com/taskhive/taskhive/internal/models"
	"github.com/taskhive/taskhive/internal/services"
	"github.com/taskhive/taskhive/internal/utils"
	"github.com/taskhive/taskhive/pkg/logger"
)

// appServices holds the initialized services and handlers the router needs.
type appServices struct {
	sessionService   *services.SessionService
	authHandler      *handlers.AuthHandler
	workerHandler    *handlers.WorkerHandler
	teamHandler      *handlers.TeamHandler
	projectHandler   *handlers.ProjectHandler
	taskHandler      *handlers.TaskHandler
	positionHandler  *handlers.LookupHandler
	tagHandler       *handlers.LookupHandler
	taskTypeHandler  *handlers.LookupHandler
	dashboardHandler *handlers.DashboardHandler
}

// bootstrap initializes all application dependencies: database, seed data,
// schedulers, handlers.
func bootstrap(cfg *config.Config) *appServices {
	utils.SetJWTSecret(cfg.JWT.Secret)

	// Initialize database
	if err := models.InitDB(&cfg.Database); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto migrate database
	if err := models.AutoMigrate(); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	// Seed the sentinel team and permission rows
	if err := models.SeedDefaultData(); err != nil {
		logger.Fatalf("Failed to seed default data: %v", err)
	}

	db := models.GetDB()

	sessionService := services.NewSessionService(db, cfg.Session.TTLHours)
	services.StartSessionCleanupScheduler(sessionService)

	// Create default admin user
	authHandler := handlers.NewAuthHandler(db, cfg)
	if err := authHandler.CreateAdminIfNotExists(); err != nil {
		logger.Warn().Err(err).Msg("Failed to create admin user")
	}

	return &appServices{
		sessionService:   sessionService,
		authHandler:      authHandler,
		workerHandler:    handlers.NewWorkerHandler(db, sessionService, cfg),
		teamHandler:      handlers.NewTeamHandler(db, sessionService, cfg),
		projectHandler:   handlers.NewProjectHandler(db, sessionService, cfg),
		taskHandler:      handlers.NewTaskHandler(db, sessionService, cfg),
		positionHandler:  handlers.NewLookupHandler(db, sessionService, cfg, services.KindPosition),
		tagHandler:       handlers.NewLookupHandler(db, sessionService, cfg, services.KindTag),
		taskTypeHandler:  handlers.NewLookupHandler(db, sessionService, cfg, services.KindTaskType),
		dashboardHandler: handlers.NewDashboardHandler(db),
	}
}

// shutdown gracefully stops background schedulers.
func (s *appServices) shutdown() {
	services.StopSessionCleanupScheduler()
	logger.Info().Msg("All schedulers stopped")
}
