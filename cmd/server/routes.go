package main

import (
	"github.com/gin-gonic/gin"
	"github.com/taskhive/taskhive/internal/config"
	"github.com/taskhive/taskhive/internal/middleware"
	"github.com/taskhive/taskhive/internal/models"
	"github.com/taskhive/taskhive/pkg/logger"
)

// registerRoutes sets up all HTTP routes on the given Gin engine.
func registerRoutes(r *gin.Engine, svc *appServices, cfg *config.Config) {
	// Middleware
	r.Use(logger.GinLogger(), logger.GinRecovery())
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false
	r.Use(middleware.CORS())

	// Rate limiter for credential-guessing surfaces
	loginLimiter := middleware.NewRateLimiter(cfg.RateLimit.LoginRPS, cfg.RateLimit.LoginBurst)

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "service": "taskhive"})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/login", loginLimiter.Middleware(), svc.authHandler.Login)
			auth.GET("/config", svc.authHandler.GetAuthConfig)
		}

		// Open registration
		api.POST("/workers", loginLimiter.Middleware(), svc.authHandler.Register)

		// Protected routes
		protected := api.Group("")
		protected.Use(middleware.AuthRequired(models.GetDB()))
		protected.Use(middleware.Session(svc.sessionService, &cfg.Session))
		{
			// Auth
			protected.GET("/auth/me", svc.authHandler.GetCurrentUser)
			protected.POST("/auth/logout", svc.authHandler.Logout)
			protected.POST("/auth/change-password", svc.authHandler.ChangePassword)

			// Dashboard
			protected.GET("/dashboard", svc.dashboardHandler.Summary)

			// Tasks
			protected.GET("/tasks", svc.taskHandler.List)
			protected.GET("/tasks/:id", svc.taskHandler.Get)
			protected.POST("/tasks", svc.taskHandler.Create)
			protected.PUT("/tasks/:id", svc.taskHandler.Update)
			protected.DELETE("/tasks/:id", svc.taskHandler.Delete)
			protected.POST("/tasks/:id/comments", svc.taskHandler.AddComment)
			protected.POST("/tasks/:id/toggle-assign", svc.taskHandler.ToggleAssign)

			// Projects
			protected.GET("/projects", svc.projectHandler.List)
			protected.GET("/projects/:id", svc.projectHandler.Get)
			protected.POST("/projects", svc.projectHandler.Create)
			protected.PUT("/projects/:id", svc.projectHandler.Update)
			protected.DELETE("/projects/:id", svc.projectHandler.Delete)

			// Teams
			protected.GET("/teams", svc.teamHandler.List)
			protected.GET("/teams/:id", svc.teamHandler.Get)
			protected.POST("/teams", svc.teamHandler.Create)
			protected.PUT("/teams/:id", svc.teamHandler.Update)
			protected.DELETE("/teams/:id", svc.teamHandler.Delete)

			// Workers
			protected.GET("/workers", svc.workerHandler.List)
			protected.GET("/workers/:id", svc.workerHandler.Get)
			protected.PUT("/workers/:id", svc.workerHandler.Update)
			protected.DELETE("/workers/:id", svc.workerHandler.Delete)

			// Positions
			protected.GET("/positions", svc.positionHandler.List)
			protected.GET("/positions/:id", svc.positionHandler.Get)
			protected.POST("/positions", svc.positionHandler.Create)
			protected.PUT("/positions/:id", svc.positionHandler.Update)
			protected.DELETE("/positions/:id", svc.positionHandler.Delete)

			// Tags
			protected.GET("/tags", svc.tagHandler.List)
			protected.GET("/tags/:id", svc.tagHandler.Get)
			protected.POST("/tags", svc.tagHandler.Create)
			protected.PUT("/tags/:id", svc.tagHandler.Update)
			protected.DELETE("/tags/:id", svc.tagHandler.Delete)

			// Task types
			protected.GET("/task-types", svc.taskTypeHandler.List)
			protected.GET("/task-types/:id", svc.taskTypeHandler.Get)
			protected.POST("/task-types", svc.taskTypeHandler.Create)
			protected.PUT("/task-types/:id", svc.taskTypeHandler.Update)
			protected.DELETE("/task-types/:id", svc.taskTypeHandler.Delete)
		}

		// Admin only routes
		admin := api.Group("")
		admin.Use(middleware.AuthRequired(models.GetDB()), middleware.AdminRequired())
		{
			admin.POST("/workers/:id/permissions", svc.workerHandler.GrantPermission)
		}
	}
}
