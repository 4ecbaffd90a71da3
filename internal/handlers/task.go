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

type TaskHandler struct {
	taskService *services.TaskService
	sessions    *services.SessionService
	gate        *permission.Gate
	defaultSize int
}

func NewTaskHandler(db *gorm.DB, sessions *services.SessionService, cfg *config.Config) *TaskHandler {
	return &TaskHandler{
		taskService: services.NewTaskService(db),
		sessions:    sessions,
		gate:        permission.NewGate(db),
		defaultSize: cfg.Session.DefaultPageSize,
	}
}

// List returns the requester's visible tasks
// GET /api/tasks
func (h *TaskHandler) List(c *gin.Context) {
	var params query.TaskFilterParams
	_ = c.ShouldBindQuery(&params)

	page, size := resolvePaging(c, h.sessions, h.defaultSize)

	resp, err := h.taskService.List(middleware.GetWorker(c), &params, page, size)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, resp)
}

// Get returns one task with comments and activity
// GET /api/tasks/:id
func (h *TaskHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.gate.Allow(middleware.GetWorker(c), permission.TaskView, id); err != nil {
		gateError(c, err)
		return
	}

	detail, err := h.taskService.GetDetail(id)
	if err != nil {
		notFoundOr(c, err, "task not found")
		return
	}
	response.Success(c, detail)
}

// Create creates a task in one of the requester's projects
// POST /api/tasks
func (h *TaskHandler) Create(c *gin.Context) {
	var req services.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	task, err := h.taskService.Create(middleware.GetWorker(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, task)
}

// Update applies a partial task update
// PUT /api/tasks/:id
func (h *TaskHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.gate.Allow(middleware.GetWorker(c), permission.TaskChange, id); err != nil {
		gateError(c, err)
		return
	}

	var req services.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	task, err := h.taskService.Update(middleware.GetWorker(c), id, &req)
	if err != nil {
		notFoundOr(c, err, "task not found")
		return
	}
	response.Success(c, task)
}

// Delete removes a task
// DELETE /api/tasks/:id
func (h *TaskHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.gate.Allow(middleware.GetWorker(c), permission.TaskDelete, id); err != nil {
		gateError(c, err)
		return
	}

	if err := h.taskService.Delete(id); err != nil {
		notFoundOr(c, err, "task not found")
		return
	}
	response.Success(c, gin.H{"message": "task deleted"})
}

// AddComment appends a comment to a visible task
// POST /api/tasks/:id/comments
func (h *TaskHandler) AddComment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.gate.Allow(middleware.GetWorker(c), permission.TaskView, id); err != nil {
		gateError(c, err)
		return
	}

	var req services.AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	comment, err := h.taskService.AddComment(middleware.GetWorker(c), id, &req)
	if err != nil {
		notFoundOr(c, err, "task not found")
		return
	}
	response.Created(c, comment)
}

// ToggleAssign flips the requester's assignment on a visible task
// POST /api/tasks/:id/toggle-assign
func (h *TaskHandler) ToggleAssign(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.gate.Allow(middleware.GetWorker(c), permission.TaskView, id); err != nil {
		gateError(c, err)
		return
	}

	assigned, err := h.taskService.ToggleAssignee(middleware.GetWorker(c), id)
	if err != nil {
		notFoundOr(c, err, "task not found")
		return
	}
	response.Success(c, gin.H{"assigned": assigned})
}
