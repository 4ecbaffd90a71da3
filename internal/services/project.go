package services

import (
	"github.com/taskhive/taskhive/internal/models"
	"github.com/taskhive/taskhive/internal/query"
	"github.com/taskhive/taskhive/internal/scope"
	"github.com/taskhive/taskhive/pkg/response"
	"gorm.io/gorm"
)

type ProjectService struct {
	db *gorm.DB
}

func NewProjectService(db *gorm.DB) *ProjectService {
	return &ProjectService{db: db}
}

type ProjectListResponse struct {
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
	Items    []models.Project `json:"items"`
}

// List returns the projects visible to the requester, filtered and paginated.
func (s *ProjectService) List(u *models.Worker, params *query.NameFilterParams, page, pageSize int) (*ProjectListResponse, error) {
	if page <= 0 {
		page = 1
	}

	visible := scope.ForEntity(s.db, scope.EntityProject).Visible(u)

	base := visible(s.db.Model(&models.Project{}))
	base = query.Apply(base, params.Filters("projects.name"))

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, err
	}

	var projects []models.Project
	err := base.
		Preload("Teams").
		Order("projects.name ASC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&projects).Error
	if err != nil {
		return nil, err
	}

	return &ProjectListResponse{
		Total:    total,
		Page:     page,
		PageSize: pageSize,
		Items:    projects,
	}, nil
}

// GetDetail loads a project with its teams and tasks.
func (s *ProjectService) GetDetail(id uint) (*models.Project, error) {
	var project models.Project
	err := s.db.
		Preload("Teams").
		First(&project, id).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

type CreateProjectRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	TeamIDs     []uint `json:"team_ids"`
}

func (s *ProjectService) Create(req *CreateProjectRequest) (*models.Project, error) {
	project := models.Project{
		Name:        req.Name,
		Description: req.Description,
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&project).Error; err != nil {
			return err
		}
		return s.attachTeams(tx, &project, req.TeamIDs, false)
	})
	if err != nil {
		return nil, err
	}
	return &project, nil
}

type UpdateProjectRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	TeamIDs     *[]uint `json:"team_ids"`
}

func (s *ProjectService) Update(id uint, req *UpdateProjectRequest) (*models.Project, error) {
	var project models.Project
	if err := s.db.First(&project, id).Error; err != nil {
		return nil, err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		updates := make(map[string]interface{})
		if req.Name != "" {
			updates["name"] = req.Name
		}
		if req.Description != nil {
			updates["description"] = *req.Description
		}
		if len(updates) > 0 {
			if err := tx.Model(&project).Updates(updates).Error; err != nil {
				return err
			}
		}
		if req.TeamIDs != nil {
			return s.attachTeams(tx, &project, *req.TeamIDs, true)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// Delete removes a project and everything under it: its tasks with their
// comments, activities and memberships, plus the team attachments.
func (s *ProjectService) Delete(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var project models.Project
		if err := tx.First(&project, id).Error; err != nil {
			return err
		}

		taskIDs := tx.Model(&models.Task{}).Select("id").Where("project_id = ?", id)
		if err := tx.Where("task_id IN (?)", taskIDs).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("task_id IN (?)", taskIDs).Delete(&models.Activity{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM task_assignees WHERE task_id IN (SELECT id FROM tasks WHERE project_id = ?)", id).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM task_tags WHERE task_id IN (SELECT id FROM tasks WHERE project_id = ?)", id).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&models.Task{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM project_teams WHERE project_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&project).Error
	})
}

// attachTeams binds teams to the project. The sentinel team is rejected, not
// silently dropped, so a bad client request is visible.
func (s *ProjectService) attachTeams(tx *gorm.DB, project *models.Project, ids []uint, replace bool) error {
	if len(ids) == 0 {
		if replace {
			return tx.Model(project).Association("Teams").Clear()
		}
		return nil
	}

	for _, id := range ids {
		if models.IsDefaultTeam(id) {
			return response.NewBadRequest("the default team cannot join a project")
		}
	}

	var teams []models.Team
	if err := tx.Find(&teams, ids).Error; err != nil {
		return err
	}
	if len(teams) != len(ids) {
		return response.NewBadRequest("unknown team")
	}
	if replace {
		return tx.Model(project).Association("Teams").Replace(&teams)
	}
	return tx.Model(project).Association("Teams").Append(&teams)
}
