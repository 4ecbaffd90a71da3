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

type TeamHandler struct {
	db          *gorm.DB
	teamService *services.TeamService
	sessions    *services.SessionService
	gate        *permission.Gate
	defaultSize int
}

func NewTeamHandler(db *gorm.DB, sessions *services.SessionService, cfg *config.Config) *TeamHandler {
	return &TeamHandler{
		db:          db,
		teamService: services.NewTeamService(db),
		sessions:    sessions,
		gate:        permission.NewGate(db),
		defaultSize: cfg.Session.DefaultPageSize,
	}
}

// List returns the teams visible to the requester
// GET /api/teams
func (h *TeamHandler) List(c *gin.Context) {
	var params query.NameFilterParams
	_ = c.ShouldBindQuery(&params)

	page, size := resolvePaging(c, h.sessions, h.defaultSize)

	resp, err := h.teamService.List(middleware.GetWorker(c), &params, page, size)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, resp)
}

// Get returns one team with members and projects
// GET /api/teams/:id
func (h *TeamHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.gate.Allow(middleware.GetWorker(c), permission.TeamView, id); err != nil {
		gateError(c, err)
		return
	}

	team, err := h.teamService.GetDetail(id)
	if err != nil {
		notFoundOr(c, err, "team not found")
		return
	}
	response.Success(c, team)
}

// Create creates a team, requires the add permission
// POST /api/teams
func (h *TeamHandler) Create(c *gin.Context) {
	if !models.HasPerm(h.db, middleware.GetWorker(c), models.PermAddTeam) {
		response.Forbidden(c, "forbidden")
		return
	}

	var req services.CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	team, err := h.teamService.Create(&req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, team)
}

// Update renames a team or replaces its project attachments
// PUT /api/teams/:id
func (h *TeamHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.gate.Allow(middleware.GetWorker(c), permission.TeamChange, id); err != nil {
		gateError(c, err)
		return
	}

	var req services.UpdateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	team, err := h.teamService.Update(id, &req)
	if err != nil {
		notFoundOr(c, err, "team not found")
		return
	}
	response.Success(c, team)
}

// Delete removes a team, parking its members in the default team
// DELETE /api/teams/:id
func (h *TeamHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.gate.Allow(middleware.GetWorker(c), permission.TeamDelete, id); err != nil {
		gateError(c, err)
		return
	}

	if err := h.teamService.Delete(id); err != nil {
		notFoundOr(c, err, "team not found")
		return
	}
	response.Success(c, gin.H{"message": "team deleted"})
}
