package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskhive/taskhive/internal/config"
	"github.com/taskhive/taskhive/internal/middleware"
	"github.com/taskhive/taskhive/internal/services"
	"github.com/taskhive/taskhive/pkg/response"
	"gorm.io/gorm"
)

type AuthHandler struct {
	authService   *services.AuthService
	workerService *services.WorkerService
	ldapEnabled   bool
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService:   services.NewAuthService(db, &cfg.LDAP, &cfg.JWT),
		workerService: services.NewWorkerService(db),
		ldapEnabled:   cfg.LDAP.Enabled,
	}
}

// Login handles worker login
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.authService.Login(&req)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Register handles public worker sign-up
// POST /api/workers
func (h *AuthHandler) Register(c *gin.Context) {
	var req services.RegisterWorkerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	worker, err := h.workerService.Register(&req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, worker)
}

// GetCurrentUser returns the current logged-in worker
// GET /api/auth/me
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	worker, err := h.authService.GetWorkerByID(middleware.GetUserID(c))
	if err != nil {
		response.NotFound(c, "worker not found")
		return
	}
	response.Success(c, worker)
}

// ChangePassword updates the requester's own password
// POST /api/auth/change-password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req services.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.authService.ChangePassword(middleware.GetUserID(c), &req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	response.Success(c, gin.H{"message": "password changed"})
}

// GetAuthConfig returns authentication configuration
// GET /api/auth/config
func (h *AuthHandler) GetAuthConfig(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"ldap_enabled": h.ldapEnabled,
	})
}

// Logout handles worker logout (client-side token removal)
// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "logged out successfully"})
}

// CreateAdminIfNotExists creates the default admin user
func (h *AuthHandler) CreateAdminIfNotExists() error {
	return h.authService.CreateAdminIfNotExists()
}
