package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/taskhive/taskhive/internal/config"
	"github.com/taskhive/taskhive/internal/models"
	"github.com/taskhive/taskhive/internal/services"
	"github.com/taskhive/taskhive/pkg/logger"
)

const ContextSession = "session"

// Session resolves the session cookie to a server-side session row, creating
// one when the cookie is absent or stale, and refreshes the cookie. Runs
// after AuthRequired so a fresh session is bound to the worker immediately.
func Session(svc *services.SessionService, cfg *config.SessionConfig) gin.HandlerFunc {
	maxAge := cfg.TTLHours * 3600
	return func(c *gin.Context) {
		cookie, _ := c.Cookie(cfg.CookieName)

		var workerID *uint
		if id := GetUserID(c); id != 0 {
			workerID = &id
		}

		sess, err := svc.GetOrCreate(cookie, workerID)
		if err != nil {
			logger.Error().Err(err).Msg("failed to resolve session")
			c.Next()
			return
		}

		if sess.ID != cookie {
			c.SetCookie(cfg.CookieName, sess.ID, maxAge, "/", "", false, true)
		}
		c.Set(ContextSession, sess)

		c.Next()
	}
}

// GetSession gets the resolved session row from context, nil when session
// resolution failed.
func GetSession(c *gin.Context) *models.Session {
	if s, exists := c.Get(ContextSession); exists {
		return s.(*models.Session)
	}
	return nil
}
