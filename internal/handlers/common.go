package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/taskhive/taskhive/internal/listing"
	"github.com/taskhive/taskhive/internal/middleware"
	"github.com/taskhive/taskhive/internal/permission"
	"github.com/taskhive/taskhive/internal/services"
	"github.com/taskhive/taskhive/pkg/logger"
	"github.com/taskhive/taskhive/pkg/response"
)

// parseID parses the :id path parameter.
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		response.BadRequest(c, "invalid id")
		return 0, false
	}
	return uint(id), true
}

// resolvePaging binds the pagination parameters and applies the session's
// remembered page size. A valid override is persisted back to the session.
func resolvePaging(c *gin.Context, sessions *services.SessionService, defaultSize int) (page, size int) {
	var req listing.PageRequest
	_ = c.ShouldBindQuery(&req)

	sess := middleware.GetSession(c)
	var remembered *int
	if sess != nil {
		remembered = sess.PageSize
	}

	size, persist := listing.ResolvePageSize(req.ElemsOnPage, remembered, defaultSize)
	if persist != nil && sess != nil {
		if err := sessions.SetPageSize(sess, *persist); err != nil {
			logger.Warn().Err(err).Msg("failed to persist page size")
		}
	}

	page = req.Page
	if page <= 0 {
		page = 1
	}
	return page, size
}

// gateError renders a gate denial, hiding out-of-scope objects as 404.
func gateError(c *gin.Context, err error) {
	switch err {
	case permission.ErrNotFound:
		response.NotFound(c, "not found")
	case permission.ErrForbidden:
		response.Forbidden(c, "forbidden")
	default:
		response.Error(c, err)
	}
}

// notFoundOr renders err as 404 when the record is missing, otherwise as a
// generic error.
func notFoundOr(c *gin.Context, err error, msg string) {
	if services.IsNotFound(err) {
		response.NotFound(c, msg)
		return
	}
	response.Error(c, err)
}
