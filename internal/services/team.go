package services

import (
	"github.com/taskhive/taskhive/internal/models"
	"github.com/taskhive/taskhive/internal/query"
	"github.com/taskhive/taskhive/internal/scope"
	"github.com/taskhive/taskhive/pkg/response"
	"gorm.io/gorm"
)

type TeamService struct {
	db *gorm.DB
}

func NewTeamService(db *gorm.DB) *TeamService {
	return &TeamService{db: db}
}

type TeamListResponse struct {
	Total    int64         `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
	Items    []models.Team `json:"items"`
}

// List returns the teams visible to the requester. The sentinel team never
// appears, whatever the requester's privileges.
func (s *TeamService) List(u *models.Worker, params *query.NameFilterParams, page, pageSize int) (*TeamListResponse, error) {
	if page <= 0 {
		page = 1
	}

	visible := scope.ForEntity(s.db, scope.EntityTeam).Visible(u)

	base := visible(s.db.Model(&models.Team{}))
	base = query.Apply(base, params.Filters("teams.name"))

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, err
	}

	var teams []models.Team
	err := base.
		Order("teams.name ASC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&teams).Error
	if err != nil {
		return nil, err
	}

	return &TeamListResponse{
		Total:    total,
		Page:     page,
		PageSize: pageSize,
		Items:    teams,
	}, nil
}

// GetDetail loads a team with its members and projects.
func (s *TeamService) GetDetail(id uint) (*models.Team, error) {
	var team models.Team
	err := s.db.
		Preload("Workers").
		Preload("Projects").
		First(&team, id).Error
	if err != nil {
		return nil, err
	}
	return &team, nil
}

type CreateTeamRequest struct {
	Name       string `json:"name" binding:"required"`
	ProjectIDs []uint `json:"project_ids"`
}

func (s *TeamService) Create(req *CreateTeamRequest) (*models.Team, error) {
	if req.Name == models.DefaultTeamName {
		return nil, response.NewBadRequest("team name is reserved")
	}

	var count int64
	s.db.Model(&models.Team{}).Where("name = ?", req.Name).Count(&count)
	if count > 0 {
		return nil, response.NewBadRequest("team name already taken")
	}

	team := models.Team{Name: req.Name}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&team).Error; err != nil {
			return err
		}
		return s.attachProjects(tx, &team, req.ProjectIDs, false)
	})
	if err != nil {
		return nil, err
	}
	return &team, nil
}

type UpdateTeamRequest struct {
	Name       string  `json:"name"`
	ProjectIDs *[]uint `json:"project_ids"`
}

func (s *TeamService) Update(id uint, req *UpdateTeamRequest) (*models.Team, error) {
	var team models.Team
	if err := s.db.First(&team, id).Error; err != nil {
		return nil, err
	}
	if models.IsDefaultTeam(team.ID) {
		return nil, response.NewNotFound("team not found")
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if req.Name != "" && req.Name != team.Name {
			if req.Name == models.DefaultTeamName {
				return response.NewBadRequest("team name is reserved")
			}
			if err := tx.Model(&team).Update("name", req.Name).Error; err != nil {
				return err
			}
		}
		if req.ProjectIDs != nil {
			return s.attachProjects(tx, &team, *req.ProjectIDs, true)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &team, nil
}

// Delete removes a team. Its members are parked in the sentinel team and its
// project attachments are dropped; the projects themselves survive.
func (s *TeamService) Delete(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var team models.Team
		if err := tx.First(&team, id).Error; err != nil {
			return err
		}
		if models.IsDefaultTeam(team.ID) {
			return response.NewNotFound("team not found")
		}

		defaultID := models.DefaultTeamID()
		if err := tx.Model(&models.Worker{}).
			Where("team_id = ?", team.ID).
			Update("team_id", defaultID).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM project_teams WHERE team_id = ?", team.ID).Error; err != nil {
			return err
		}
		return tx.Delete(&team).Error
	})
}

func (s *TeamService) attachProjects(tx *gorm.DB, team *models.Team, ids []uint, replace bool) error {
	if len(ids) == 0 {
		if replace {
			return tx.Model(team).Association("Projects").Clear()
		}
		return nil
	}
	var projects []models.Project
	if err := tx.Find(&projects, ids).Error; err != nil {
		return err
	}
	if len(projects) != len(ids) {
		return response.NewBadRequest("unknown project")
	}
	if replace {
		return tx.Model(team).Association("Projects").Replace(&projects)
	}
	return tx.Model(team).Association("Projects").Append(&projects)
}
