package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/taskhive/taskhive/internal/models"
	"github.com/taskhive/taskhive/internal/utils"
	"gorm.io/gorm"
)

const (
	ContextUserID   = "user_id"
	ContextUsername = "username"
	ContextRole     = "role"
	ContextWorker   = "worker"
)

// AuthRequired checks for a valid JWT token and loads the authenticated
// worker row, so downstream scoping and permission checks see current team
// membership rather than token-time claims.
func AuthRequired(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization header required"})
			c.Abort()
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			c.Abort()
			return
		}

		claims, err := utils.ParseToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			c.Abort()
			return
		}

		var worker models.Worker
		if err := db.First(&worker, claims.UserID).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "account no longer exists"})
			c.Abort()
			return
		}
		if !worker.IsActive {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "account is disabled"})
			c.Abort()
			return
		}

		c.Set(ContextUserID, worker.ID)
		c.Set(ContextUsername, worker.Username)
		c.Set(ContextRole, worker.Role)
		c.Set(ContextWorker, &worker)

		c.Next()
	}
}

// AdminRequired checks for admin role. Must run after AuthRequired.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(ContextRole)
		if !exists || role != models.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetUserID gets the current user ID from context
func GetUserID(c *gin.Context) uint {
	if id, exists := c.Get(ContextUserID); exists {
		return id.(uint)
	}
	return 0
}

// GetUsername gets the current username from context
func GetUsername(c *gin.Context) string {
	if username, exists := c.Get(ContextUsername); exists {
		return username.(string)
	}
	return ""
}

// GetRole gets the current user role from context
func GetRole(c *gin.Context) string {
	if role, exists := c.Get(ContextRole); exists {
		return role.(string)
	}
	return ""
}

// GetWorker gets the authenticated worker row from context.
func GetWorker(c *gin.Context) *models.Worker {
	if w, exists := c.Get(ContextWorker); exists {
		return w.(*models.Worker)
	}
	return nil
}
