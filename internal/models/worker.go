package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Worker is an authenticatable identity. Every worker belongs to exactly one
// team at all times; the BeforeSave hook falls back to the sentinel team.
type Worker struct {
	ID            uint         `gorm:"primaryKey" json:"id"`
	Username      string       `gorm:"uniqueIndex;size:100;not null" json:"username"`
	Password      string       `gorm:"size:255" json:"-"` // Hashed, empty for LDAP users
	Email         string       `gorm:"size:255;not null" json:"email"`
	FirstName     string       `gorm:"size:150;not null" json:"first_name"`
	LastName      string       `gorm:"size:150;not null" json:"last_name"`
	Role          string       `gorm:"size:50;default:user" json:"role"`       // admin, user
	AuthType      string       `gorm:"size:20;default:local" json:"auth_type"` // local, ldap
	IsActive      bool         `gorm:"default:true" json:"is_active"`
	PositionID    *uint        `json:"position_id"`
	Position      *Position    `gorm:"foreignKey:PositionID;constraint:OnDelete:SET NULL" json:"position,omitempty"`
	TeamID        uint         `gorm:"index;not null" json:"team_id"`
	Team          *Team        `gorm:"foreignKey:TeamID" json:"team,omitempty"`
	Permissions   []Permission `gorm:"many2many:worker_permissions" json:"-"`
	AssignedTasks []Task       `gorm:"many2many:task_assignees" json:"assigned_tasks,omitempty"`
	LastLogin     *time.Time   `json:"last_login"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

func (Worker) TableName() string { return "workers" }

// FullName renders the worker's display form.
func (w *Worker) FullName() string {
	return fmt.Sprintf("%s %s", w.FirstName, w.LastName)
}

// IsSuperuser reports whether the worker bypasses all scoping.
func (w *Worker) IsSuperuser() bool {
	return w.Role == RoleAdmin
}

// BeforeSave attaches teamless workers to the sentinel team.
func (w *Worker) BeforeSave(tx *gorm.DB) error {
	if w.TeamID != 0 {
		return nil
	}
	team, err := EnsureDefaultTeam(tx)
	if err != nil {
		return err
	}
	w.TeamID = team.ID
	return nil
}

// Permission is a coarse model-level capability flag (e.g. "view_task"),
// granted to workers explicitly and independent of any object instance.
type Permission struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Codename string `gorm:"uniqueIndex;size:100;not null" json:"codename"`
}

func (Permission) TableName() string { return "permissions" }

// Coarse permission codenames, one view/add/change/delete set per entity.
const (
	PermViewTask      = "view_task"
	PermAddTask       = "add_task"
	PermChangeTask    = "change_task"
	PermDeleteTask    = "delete_task"
	PermViewProject   = "view_project"
	PermAddProject    = "add_project"
	PermChangeProject = "change_project"
	PermDeleteProject = "delete_project"
	PermViewTeam      = "view_team"
	PermAddTeam       = "add_team"
	PermChangeTeam    = "change_team"
	PermDeleteTeam    = "delete_team"
	PermViewWorker    = "view_worker"
	PermChangeWorker  = "change_worker"
	PermDeleteWorker  = "delete_worker"
)

// AllPermissionCodenames lists the seeded coarse permissions.
var AllPermissionCodenames = []string{
	PermViewTask, PermAddTask, PermChangeTask, PermDeleteTask,
	PermViewProject, PermAddProject, PermChangeProject, PermDeleteProject,
	PermViewTeam, PermAddTeam, PermChangeTeam, PermDeleteTeam,
	PermViewWorker, PermChangeWorker, PermDeleteWorker,
}

// HasPerm reports whether the worker holds the coarse permission. Superusers
// hold every permission implicitly.
func HasPerm(db *gorm.DB, w *Worker, codename string) bool {
	if w == nil {
		return false
	}
	if w.IsSuperuser() {
		return true
	}
	var count int64
	db.Table("worker_permissions").
		Joins("JOIN permissions ON permissions.id = worker_permissions.permission_id").
		Where("worker_permissions.worker_id = ? AND permissions.codename = ?", w.ID, codename).
		Count(&count)
	return count > 0
}

// GrantPerm attaches the coarse permission to the worker, creating the
// permission row if the seed has not run.
func GrantPerm(db *gorm.DB, w *Worker, codename string) error {
	var perm Permission
	if err := db.Where("codename = ?", codename).First(&perm).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			return err
		}
		perm = Permission{Codename: codename}
		if err := db.Create(&perm).Error; err != nil {
			return err
		}
	}
	return db.Model(w).Association("Permissions").Append(&perm)
}
