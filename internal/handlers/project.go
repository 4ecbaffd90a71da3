package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/taskhive/taskhive/internal/config"
	"github.com/taskhive/taskhive/internal/middleware"
	"github.com/taskhive/taskhive/internal/models"
	"github.com/taskhive/taskhive/internal/permission"
	"github.com/taskhive/taskhive/internal/query"
	"github.com/taskhive/taskhive/internal/services"
	"github.com/taskhive/taskhive/pkg/response"
	"gorm.io/gorm"
)

type ProjectHandler struct {
	db             *gorm.DB
	projectService *services.ProjectService
	sessions       *services.SessionService
	gate           *permission.Gate
	defaultSize    int
}

func NewProjectHandler(db *gorm.DB, sessions *services.SessionService, cfg *config.Config) *ProjectHandler {
	return &ProjectHandler{
		db:             db,
		projectService: services.NewProjectService(db),
		sessions:       sessions,
		gate:           permission.NewGate(db),
		defaultSize:    cfg.Session.DefaultPageSize,
	}
}

// List returns the projects visible to the requester
// GET /api/projects
func (h *ProjectHandler) List(c *gin.Context) {
	var params query.NameFilterParams
	_ = c.ShouldBindQuery(&params)

	page, size := resolvePaging(c, h.sessions, h.defaultSize)

	resp, err := h.projectService.List(middleware.GetWorker(c), &params, page, size)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, resp)
}

// Get returns one project with its teams
// GET /api/projects/:id
func (h *ProjectHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.gate.Allow(middleware.GetWorker(c), permission.ProjectView, id); err != nil {
		gateError(c, err)
		return
	}

	project, err := h.projectService.GetDetail(id)
	if err != nil {
		notFoundOr(c, err, "project not found")
		return
	}
	response.Success(c, project)
}

// Create creates a project, requires the add permission
// POST /api/projects
func (h *ProjectHandler) Create(c *gin.Context) {
	if !models.HasPerm(h.db, middleware.GetWorker(c), models.PermAddProject) {
		response.Forbidden(c, "forbidden")
		return
	}

	var req services.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	project, err := h.projectService.Create(&req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, project)
}

// Update edits a project or replaces its teams
// PUT /api/projects/:id
func (h *ProjectHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.gate.Allow(middleware.GetWorker(c), permission.ProjectChange, id); err != nil {
		gateError(c, err)
		return
	}

	var req services.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	project, err := h.projectService.Update(id, &req)
	if err != nil {
		notFoundOr(c, err, "project not found")
		return
	}
	response.Success(c, project)
}

// Delete removes a project and everything under it
// DELETE /api/projects/:id
func (h *ProjectHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.gate.Allow(middleware.GetWorker(c), permission.ProjectDelete, id); err != nil {
		gateError(c, err)
		return
	}

	if err := h.projectService.Delete(id); err != nil {
		notFoundOr(c, err, "project not found")
		return
	}
	response.Success(c, gin.H{"message": "project deleted"})
}
