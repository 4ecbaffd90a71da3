package services

import (
	"errors"

	"github.com/taskhive/taskhive/internal/models"
	"github.com/taskhive/taskhive/internal/query"
	"github.com/taskhive/taskhive/internal/scope"
	"github.com/taskhive/taskhive/internal/utils"
	"github.com/taskhive/taskhive/pkg/response"
	"gorm.io/gorm"
)

type WorkerService struct {
	db *gorm.DB
}

func NewWorkerService(db *gorm.DB) *WorkerService {
	return &WorkerService{db: db}
}

type WorkerListResponse struct {
	Total    int64           `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
	Items    []models.Worker `json:"items"`
}

// List returns the workers visible to the requester, filtered and paginated.
func (s *WorkerService) List(u *models.Worker, params *query.WorkerFilterParams, page, pageSize int) (*WorkerListResponse, error) {
	if page <= 0 {
		page = 1
	}

	visible := scope.ForEntity(s.db, scope.EntityWorker).Visible(u)

	base := visible(s.db.Model(&models.Worker{}))
	base = query.Apply(base, params.Filters())

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, err
	}

	var workers []models.Worker
	err := base.
		Preload("Team").
		Preload("Position").
		Order("workers.username ASC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&workers).Error
	if err != nil {
		return nil, err
	}

	return &WorkerListResponse{
		Total:    total,
		Page:     page,
		PageSize: pageSize,
		Items:    workers,
	}, nil
}

// GetDetail loads a worker with team, position and assigned tasks.
func (s *WorkerService) GetDetail(id uint) (*models.Worker, error) {
	var worker models.Worker
	err := s.db.
		Preload("Team").
		Preload("Position").
		Preload("AssignedTasks").
		First(&worker, id).Error
	if err != nil {
		return nil, err
	}
	return &worker, nil
}

type RegisterWorkerRequest struct {
	Username   string `json:"username" binding:"required"`
	Password   string `json:"password" binding:"required,min=6"`
	Email      string `json:"email" binding:"required,email"`
	FirstName  string `json:"first_name" binding:"required"`
	LastName   string `json:"last_name" binding:"required"`
	PositionID *uint  `json:"position_id"`
}

// Register creates a regular worker account. New accounts always land in the
// sentinel team via the model hook; a real team is assigned later by a worker
// holding the change_worker permission.
func (s *WorkerService) Register(req *RegisterWorkerRequest) (*models.Worker, error) {
	var count int64
	s.db.Model(&models.Worker{}).Where("username = ?", req.Username).Count(&count)
	if count > 0 {
		return nil, response.NewBadRequest("username already taken")
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	worker := models.Worker{
		Username:   req.Username,
		Password:   hash,
		Email:      req.Email,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Role:       models.RoleUser,
		AuthType:   "local",
		IsActive:   true,
		PositionID: req.PositionID,
	}
	if err := s.db.Create(&worker).Error; err != nil {
		return nil, err
	}
	return &worker, nil
}

type UpdateWorkerRequest struct {
	Email      string `json:"email"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	PositionID *uint  `json:"position_id"`
	TeamID     *uint  `json:"team_id"`
	IsActive   *bool  `json:"is_active"`
}

// Update edits a worker's profile. Email, name and position are open to
// anyone the gate lets through; team membership and the active flag only
// change for requesters holding change_worker (or superusers).
func (s *WorkerService) Update(u *models.Worker, id uint, req *UpdateWorkerRequest) (*models.Worker, error) {
	var worker models.Worker
	if err := s.db.First(&worker, id).Error; err != nil {
		return nil, err
	}

	if req.TeamID != nil || req.IsActive != nil {
		if !models.HasPerm(s.db, u, models.PermChangeWorker) {
			return nil, response.NewForbidden("team and active status require the change_worker permission")
		}
	}

	updates := make(map[string]interface{})
	if req.Email != "" {
		updates["email"] = req.Email
	}
	if req.FirstName != "" {
		updates["first_name"] = req.FirstName
	}
	if req.LastName != "" {
		updates["last_name"] = req.LastName
	}
	if req.PositionID != nil {
		updates["position_id"] = req.PositionID
	}
	if req.TeamID != nil {
		teamID := *req.TeamID
		if teamID == 0 {
			teamID = models.DefaultTeamID()
		} else {
			var count int64
			s.db.Model(&models.Team{}).Where("id = ?", teamID).Count(&count)
			if count == 0 {
				return nil, response.NewBadRequest("unknown team")
			}
		}
		updates["team_id"] = teamID
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) > 0 {
		if err := s.db.Model(&worker).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return &worker, nil
}

// Delete removes a worker. Their tasks survive with the creator cleared and
// their comments and activities are removed with them.
func (s *WorkerService) Delete(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var worker models.Worker
		if err := tx.First(&worker, id).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Task{}).Where("creator_id = ?", id).Update("creator_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM task_assignees WHERE worker_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Where("worker_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("worker_id = ?", id).Delete(&models.Activity{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM worker_permissions WHERE worker_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&worker).Error
	})
}

// GrantPermission attaches a coarse permission to a worker by codename.
func (s *WorkerService) GrantPermission(workerID uint, codename string) error {
	var worker models.Worker
	if err := s.db.First(&worker, workerID).Error; err != nil {
		return err
	}
	if err := models.GrantPerm(s.db, &worker, codename); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewBadRequest("unknown permission codename")
		}
		return err
	}
	return nil
}
