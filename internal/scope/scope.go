// Package scope computes "visible to this requester" restrictions as
// composable GORM scopes. One policy per listable entity type; callers chain
// the returned predicate with their own ad hoc filters, so scoping and
// filtering stay independent and intersect with plain AND.
package scope

import (
	"github.com/taskhive/taskhive/internal/models"
	"gorm.io/gorm"
)

// Entity tags select a policy without inheritance chains.
type Entity string

const (
	EntityTask    Entity = "task"
	EntityProject Entity = "project"
	EntityTeam    Entity = "team"
	EntityWorker  Entity = "worker"
)

// Predicate narrows a query to the visible subset. It never materializes
// rows itself.
type Predicate = func(*gorm.DB) *gorm.DB

// Policy computes the visible-subset predicate for a requesting worker.
type Policy interface {
	Visible(u *models.Worker) Predicate
}

// ForEntity returns the policy registered for the entity tag.
func ForEntity(db *gorm.DB, e Entity) Policy {
	switch e {
	case EntityTask:
		return TaskPolicy{db: db}
	case EntityProject:
		return ProjectPolicy{db: db}
	case EntityTeam:
		return TeamPolicy{db: db}
	case EntityWorker:
		return WorkerPolicy{db: db}
	}
	return nonePolicy{}
}

func unrestricted(db *gorm.DB) *gorm.DB { return db }

func none(db *gorm.DB) *gorm.DB { return db.Where("1 = 0") }

type nonePolicy struct{}

func (nonePolicy) Visible(*models.Worker) Predicate { return none }

// privileged reports whether the requester bypasses relationship scoping:
// superusers always, and holders of the entity's coarse view permission even
// if they belong to no real team.
func privileged(db *gorm.DB, u *models.Worker, viewPerm string) bool {
	if u == nil {
		return false
	}
	if u.IsSuperuser() {
		return true
	}
	return models.HasPerm(db, u, viewPerm)
}

// teamProjects selects the project IDs the worker's team is attached to.
func teamProjects(db *gorm.DB, teamID uint) *gorm.DB {
	return db.Table("project_teams").Select("project_id").Where("team_id = ?", teamID)
}

// TaskPolicy: a task is visible iff its project has a team containing the
// requester.
type TaskPolicy struct {
	db *gorm.DB
}

func (p TaskPolicy) Visible(u *models.Worker) Predicate {
	if privileged(p.db, u, models.PermViewTask) {
		return unrestricted
	}
	if u == nil {
		return none
	}
	teamID := u.TeamID
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("tasks.project_id IN (?)", teamProjects(p.db, teamID))
	}
}

// ProjectPolicy: a project is visible iff one of its teams contains the
// requester.
type ProjectPolicy struct {
	db *gorm.DB
}

func (p ProjectPolicy) Visible(u *models.Worker) Predicate {
	if privileged(p.db, u, models.PermViewProject) {
		return unrestricted
	}
	if u == nil {
		return none
	}
	teamID := u.TeamID
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("projects.id IN (?)", teamProjects(p.db, teamID))
	}
}

// TeamPolicy: the sentinel team is excluded for everyone; otherwise a
// non-privileged requester sees only their own team. A requester parked in
// the sentinel team has no real team, so they see nothing.
type TeamPolicy struct {
	db *gorm.DB
}

func (p TeamPolicy) Visible(u *models.Worker) Predicate {
	defaultID := models.DefaultTeamID()
	if privileged(p.db, u, models.PermViewTeam) {
		return func(db *gorm.DB) *gorm.DB {
			return db.Where("teams.id <> ?", defaultID)
		}
	}
	if u == nil || models.IsDefaultTeam(u.TeamID) {
		return none
	}
	teamID := u.TeamID
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("teams.id = ? AND teams.id <> ?", teamID, defaultID)
	}
}

// WorkerPolicy: visible workers are teammates plus members of any team
// attached to a project the requester's team also works on. A sentinel-team
// requester sees only themself.
type WorkerPolicy struct {
	db *gorm.DB
}

func (p WorkerPolicy) Visible(u *models.Worker) Predicate {
	if privileged(p.db, u, models.PermViewWorker) {
		return unrestricted
	}
	if u == nil {
		return none
	}
	if models.IsDefaultTeam(u.TeamID) {
		id := u.ID
		return func(db *gorm.DB) *gorm.DB {
			return db.Where("workers.id = ?", id)
		}
	}
	teamID := u.TeamID
	return func(db *gorm.DB) *gorm.DB {
		collaborators := p.db.Table("project_teams").Select("team_id").
			Where("project_id IN (?)", teamProjects(p.db, teamID))
		return db.Where("workers.team_id = ? OR workers.team_id IN (?)", teamID, collaborators)
	}
}
