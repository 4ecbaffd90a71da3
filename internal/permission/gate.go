// Package permission authorizes object-level access. A gate runs an ordered
// list of checker functions for the requested action and short-circuits on
// the first success: superuser, then the coarse model permission, then the
// relational fallback (is the object inside the requester's team/project
// scope). Denials distinguish "forbidden" from "not found" so that handlers
// can hide the existence of out-of-scope objects.
package permission

import (
	"errors"

	"github.com/taskhive/taskhive/internal/models"
	"gorm.io/gorm"
)

var (
	// ErrForbidden means the object exists but the requester may not act on it.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound means the object is missing, or its existence is hidden
	// from the requester.
	ErrNotFound = errors.New("not found")
)

// Action names an entity-level operation to authorize.
type Action int

const (
	TaskView Action = iota
	TaskChange
	TaskDelete
	ProjectView
	ProjectChange
	ProjectDelete
	TeamView
	TeamChange
	TeamDelete
	WorkerView
	WorkerChange
	WorkerDelete
)

// coarsePerm maps each action to its model-level permission codename.
var coarsePerm = map[Action]string{
	TaskView:      models.PermViewTask,
	TaskChange:    models.PermChangeTask,
	TaskDelete:    models.PermDeleteTask,
	ProjectView:   models.PermViewProject,
	ProjectChange: models.PermChangeProject,
	ProjectDelete: models.PermDeleteProject,
	TeamView:      models.PermViewTeam,
	TeamChange:    models.PermChangeTeam,
	TeamDelete:    models.PermDeleteTeam,
	WorkerView:    models.PermViewWorker,
	WorkerChange:  models.PermChangeWorker,
	WorkerDelete:  models.PermDeleteWorker,
}

// checkFunc reports whether the requester may proceed. A non-nil error is a
// denial reason recorded in case no later checker allows the action.
type checkFunc func(u *models.Worker, objectID uint) (bool, error)

type Gate struct {
	db *gorm.DB
}

func NewGate(db *gorm.DB) *Gate {
	return &Gate{db: db}
}

// Allow authorizes the action against the object. It returns nil when
// allowed, ErrNotFound when the object is missing or hidden, and
// ErrForbidden otherwise.
//
// A requester holding the coarse permission is allowed even when the object
// does not exist; the handler's own lookup then reports the miss.
func (g *Gate) Allow(u *models.Worker, action Action, objectID uint) error {
	if u == nil {
		return ErrForbidden
	}

	// The sentinel team is not a real team: its detail surface is hidden
	// from everyone, coarse permission or not.
	if (action == TeamView || action == TeamChange || action == TeamDelete) &&
		models.IsDefaultTeam(objectID) {
		return ErrNotFound
	}

	var denial error
	for _, check := range g.checksFor(action) {
		ok, err := check(u, objectID)
		if ok {
			return nil
		}
		if err != nil && denial == nil {
			denial = err
		}
	}
	if denial != nil {
		return denial
	}
	return ErrForbidden
}

func (g *Gate) checksFor(action Action) []checkFunc {
	coarse := func(u *models.Worker, _ uint) (bool, error) {
		return models.HasPerm(g.db, u, coarsePerm[action]), nil
	}

	var relational checkFunc
	switch action {
	case TaskView, TaskChange, TaskDelete:
		relational = g.taskInTeamProjects
	case ProjectView, ProjectChange, ProjectDelete:
		relational = g.projectHasTeam
	case TeamView, TeamChange, TeamDelete:
		relational = g.isOwnTeam
	case WorkerView:
		relational = g.workerInScope
	case WorkerChange, WorkerDelete:
		relational = g.isSelf
	}

	return []checkFunc{coarse, relational}
}

// taskInTeamProjects: the task's project must be among the requester's
// team's projects.
func (g *Gate) taskInTeamProjects(u *models.Worker, taskID uint) (bool, error) {
	var task models.Task
	if err := g.db.Select("id", "project_id").First(&task, taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrNotFound
		}
		return false, err
	}

	var count int64
	g.db.Table("project_teams").
		Where("project_id = ? AND team_id = ?", task.ProjectID, u.TeamID).
		Count(&count)
	return count > 0, nil
}

func (g *Gate) projectHasTeam(u *models.Worker, projectID uint) (bool, error) {
	var count int64
	g.db.Model(&models.Project{}).Where("id = ?", projectID).Count(&count)
	if count == 0 {
		return false, ErrNotFound
	}

	var member int64
	g.db.Table("project_teams").
		Where("project_id = ? AND team_id = ?", projectID, u.TeamID).
		Count(&member)
	return member > 0, nil
}

func (g *Gate) isOwnTeam(u *models.Worker, teamID uint) (bool, error) {
	var count int64
	g.db.Model(&models.Team{}).Where("id = ?", teamID).Count(&count)
	if count == 0 {
		return false, ErrNotFound
	}
	return u.TeamID == teamID, nil
}

func (g *Gate) isSelf(u *models.Worker, workerID uint) (bool, error) {
	var count int64
	g.db.Model(&models.Worker{}).Where("id = ?", workerID).Count(&count)
	if count == 0 {
		return false, ErrNotFound
	}
	return u.ID == workerID, nil
}

// workerInScope mirrors the worker visibility rule: teammates and members of
// teams collaborating on the requester's team's projects.
func (g *Gate) workerInScope(u *models.Worker, workerID uint) (bool, error) {
	var target models.Worker
	if err := g.db.Select("id", "team_id").First(&target, workerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrNotFound
		}
		return false, err
	}

	if target.ID == u.ID {
		return true, nil
	}
	if models.IsDefaultTeam(u.TeamID) {
		return false, nil
	}
	if target.TeamID == u.TeamID {
		return true, nil
	}

	var count int64
	g.db.Table("project_teams").
		Where("team_id = ?", target.TeamID).
		Where("project_id IN (?)", g.db.Table("project_teams").Select("project_id").Where("team_id = ?", u.TeamID)).
		Count(&count)
	return count > 0, nil
}
