package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/taskhive/taskhive/internal/middleware"
	"github.com/taskhive/taskhive/internal/services"
	"github.com/taskhive/taskhive/pkg/response"
	"gorm.io/gorm"
)

type DashboardHandler struct {
	dashboardService *services.DashboardService
}

func NewDashboardHandler(db *gorm.DB) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: services.NewDashboardService(db),
	}
}

// Summary returns the landing-page overview. The overdue counter covers
// unfinished tasks with a deadline before today, excluding today itself.
// GET /api/dashboard
func (h *DashboardHandler) Summary(c *gin.Context) {
	resp, err := h.dashboardService.Summary(middleware.GetWorker(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, resp)
}
