package services

import (
	"github.com/taskhive/taskhive/internal/models"
	"github.com/taskhive/taskhive/internal/query"
	"github.com/taskhive/taskhive/pkg/response"
	"gorm.io/gorm"
)

// LookupService handles the three name-only entities (positions, tags, task
// types). They share storage shape and rules, so one service covers all
// three, keyed by table.
type LookupService struct {
	db *gorm.DB
}

func NewLookupService(db *gorm.DB) *LookupService {
	return &LookupService{db: db}
}

// LookupKind selects which name-keyed table an operation targets.
type LookupKind string

const (
	KindPosition LookupKind = "position"
	KindTag      LookupKind = "tag"
	KindTaskType LookupKind = "task_type"
)

func (k LookupKind) model() interface{} {
	switch k {
	case KindPosition:
		return &models.Position{}
	case KindTag:
		return &models.Tag{}
	case KindTaskType:
		return &models.TaskType{}
	}
	return nil
}

func (k LookupKind) table() string {
	switch k {
	case KindPosition:
		return "positions"
	case KindTag:
		return "tags"
	case KindTaskType:
		return "task_types"
	}
	return ""
}

// LookupItem is the common row shape of the name-keyed entities.
type LookupItem struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type LookupListResponse struct {
	Total    int64        `json:"total"`
	Page     int          `json:"page"`
	PageSize int          `json:"page_size"`
	Items    []LookupItem `json:"items"`
}

// List returns the rows of one lookup table, name-filtered and paginated.
// Lookup entities are not team-scoped; any authenticated worker sees all.
func (s *LookupService) List(kind LookupKind, params *query.NameFilterParams, page, pageSize int) (*LookupListResponse, error) {
	if page <= 0 {
		page = 1
	}

	base := s.db.Table(kind.table())
	base = query.Apply(base, params.Filters(kind.table()+".name"))

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, err
	}

	var items []LookupItem
	err := base.
		Order("name ASC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&items).Error
	if err != nil {
		return nil, err
	}

	return &LookupListResponse{
		Total:    total,
		Page:     page,
		PageSize: pageSize,
		Items:    items,
	}, nil
}

// Get loads one lookup row by ID.
func (s *LookupService) Get(kind LookupKind, id uint) (*LookupItem, error) {
	var item LookupItem
	if err := s.db.Table(kind.table()).First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

type LookupRequest struct {
	Name string `json:"name" binding:"required"`
}

func (s *LookupService) Create(kind LookupKind, req *LookupRequest) (*LookupItem, error) {
	var count int64
	s.db.Table(kind.table()).Where("name = ?", req.Name).Count(&count)
	if count > 0 {
		return nil, response.NewBadRequest("name already taken")
	}

	item := LookupItem{Name: req.Name}
	if err := s.db.Table(kind.table()).Create(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *LookupService) Update(kind LookupKind, id uint, req *LookupRequest) (*LookupItem, error) {
	var item LookupItem
	if err := s.db.Table(kind.table()).First(&item, id).Error; err != nil {
		return nil, err
	}

	var count int64
	s.db.Table(kind.table()).Where("name = ? AND id <> ?", req.Name, id).Count(&count)
	if count > 0 {
		return nil, response.NewBadRequest("name already taken")
	}

	if err := s.db.Table(kind.table()).Where("id = ?", id).Update("name", req.Name).Error; err != nil {
		return nil, err
	}
	item.Name = req.Name
	return &item, nil
}

// Delete removes a lookup row. Referencing tasks and workers survive: the
// foreign keys are nullable and cleared, tag memberships are dropped.
func (s *LookupService) Delete(kind LookupKind, id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Table(kind.table()).Where("id = ?", id).Delete(kind.model())
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		switch kind {
		case KindPosition:
			return tx.Model(&models.Worker{}).Where("position_id = ?", id).Update("position_id", nil).Error
		case KindTag:
			return tx.Exec("DELETE FROM task_tags WHERE tag_id = ?", id).Error
		case KindTaskType:
			return tx.Model(&models.Task{}).Where("task_type_id = ?", id).Update("task_type_id", nil).Error
		}
		return nil
	})
}
