package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/taskhive/taskhive/internal/config"
	"github.com/taskhive/taskhive/internal/middleware"
	"github.com/taskhive/taskhive/internal/permission"
	"github.com/taskhive/taskhive/internal/query"
	"github.com/taskhive/taskhive/internal/services"
	"github.com/taskhive/taskhive/pkg/response"
	"gorm.io/gorm"
)

type WorkerHandler struct {
	workerService *services.WorkerService
	sessions      *services.SessionService
	gate          *permission.Gate
	defaultSize   int
}

func NewWorkerHandler(db *gorm.DB, sessions *services.SessionService, cfg *config.Config) *WorkerHandler {
	return &WorkerHandler{
		workerService: services.NewWorkerService(db),
		sessions:      sessions,
		gate:          permission.NewGate(db),
		defaultSize:   cfg.Session.DefaultPageSize,
	}
}

// List returns the workers visible to the requester
// GET /api/workers
func (h *WorkerHandler) List(c *gin.Context) {
	var params query.WorkerFilterParams
	_ = c.ShouldBindQuery(&params)

	page, size := resolvePaging(c, h.sessions, h.defaultSize)

	resp, err := h.workerService.List(middleware.GetWorker(c), &params, page, size)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, resp)
}

// Get returns one worker's profile
// GET /api/workers/:id
func (h *WorkerHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.gate.Allow(middleware.GetWorker(c), permission.WorkerView, id); err != nil {
		gateError(c, err)
		return
	}

	worker, err := h.workerService.GetDetail(id)
	if err != nil {
		notFoundOr(c, err, "worker not found")
		return
	}
	response.Success(c, worker)
}

// Update edits a worker's profile, own profile or with the change permission
// PUT /api/workers/:id
func (h *WorkerHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.gate.Allow(middleware.GetWorker(c), permission.WorkerChange, id); err != nil {
		gateError(c, err)
		return
	}

	var req services.UpdateWorkerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	worker, err := h.workerService.Update(middleware.GetWorker(c), id, &req)
	if err != nil {
		notFoundOr(c, err, "worker not found")
		return
	}
	response.Success(c, worker)
}

// Delete removes a worker account
// DELETE /api/workers/:id
func (h *WorkerHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.gate.Allow(middleware.GetWorker(c), permission.WorkerDelete, id); err != nil {
		gateError(c, err)
		return
	}

	if err := h.workerService.Delete(id); err != nil {
		notFoundOr(c, err, "worker not found")
		return
	}
	response.Success(c, gin.H{"message": "worker deleted"})
}

type grantPermissionRequest struct {
	Codename string `json:"codename" binding:"required"`
}

// GrantPermission attaches a coarse permission to a worker, admin only
// POST /api/workers/:id/permissions
func (h *WorkerHandler) GrantPermission(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req grantPermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.workerService.GrantPermission(id, req.Codename); err != nil {
		notFoundOr(c, err, "worker not found")
		return
	}
	response.Success(c, gin.H{"message": "permission granted"})
}
