package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/taskhive/taskhive/internal/config"
	"github.com/taskhive/taskhive/internal/query"
	"github.com/taskhive/taskhive/internal/services"
	"github.com/taskhive/taskhive/pkg/response"
	"gorm.io/gorm"
)

// LookupHandler serves the three name-keyed entities. One handler per kind
// is registered, sharing the implementation.
type LookupHandler struct {
	kind          services.LookupKind
	lookupService *services.LookupService
	sessions      *services.SessionService
	defaultSize   int
}

func NewLookupHandler(db *gorm.DB, sessions *services.SessionService, cfg *config.Config, kind services.LookupKind) *LookupHandler {
	return &LookupHandler{
		kind:          kind,
		lookupService: services.NewLookupService(db),
		sessions:      sessions,
		defaultSize:   cfg.Session.DefaultPageSize,
	}
}

// List returns the rows of the lookup table
// GET /api/{positions,tags,task-types}
func (h *LookupHandler) List(c *gin.Context) {
	var params query.NameFilterParams
	_ = c.ShouldBindQuery(&params)

	page, size := resolvePaging(c, h.sessions, h.defaultSize)

	resp, err := h.lookupService.List(h.kind, &params, page, size)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, resp)
}

// Get returns one row
// GET /api/{positions,tags,task-types}/:id
func (h *LookupHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	item, err := h.lookupService.Get(h.kind, id)
	if err != nil {
		notFoundOr(c, err, "not found")
		return
	}
	response.Success(c, item)
}

// Create adds a row
// POST /api/{positions,tags,task-types}
func (h *LookupHandler) Create(c *gin.Context) {
	var req services.LookupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	item, err := h.lookupService.Create(h.kind, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, item)
}

// Update renames a row
// PUT /api/{positions,tags,task-types}/:id
func (h *LookupHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req services.LookupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	item, err := h.lookupService.Update(h.kind, id, &req)
	if err != nil {
		notFoundOr(c, err, "not found")
		return
	}
	response.Success(c, item)
}

// Delete removes a row, clearing references from tasks and workers
// DELETE /api/{positions,tags,task-types}/:id
func (h *LookupHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.lookupService.Delete(h.kind, id); err != nil {
		notFoundOr(c, err, "not found")
		return
	}
	response.Success(c, gin.H{"message": "deleted"})
}
