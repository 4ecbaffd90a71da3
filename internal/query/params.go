package query

import (
	"github.com/taskhive/taskhive/internal/models"
	"gorm.io/gorm"
)

// TaskFilterParams binds the task list's filter query parameters. The
// `assignees` flag is the "assigned to me" toggle and resolves to the
// requesting worker, not a literal value.
type TaskFilterParams struct {
	Assignees       string   `form:"assignees"`
	AssigneesIsNull string   `form:"assignees__isnull"`
	IsCompleted     string   `form:"is_completed"`
	TagsName        string   `form:"tags__name"`
	DeadlineGt      string   `form:"deadline__gt"`
	DeadlineLt      string   `form:"deadline__lt"`
	PriorityIn      []string `form:"priority__in"`
	ProjectIn       []string `form:"project__in"`
}

// Filters converts the bound parameters into typed predicates for the
// requesting worker. Invalid values are dropped field by field.
func (p *TaskFilterParams) Filters(db *gorm.DB, u *models.Worker) []Filter {
	var filters []Filter

	if assigned, ok := ParseBool(p.Assignees); ok && assigned {
		workerID := u.ID
		filters = append(filters, Scope(func(q *gorm.DB) *gorm.DB {
			sub := db.Table("task_assignees").Select("task_id").Where("worker_id = ?", workerID)
			return q.Where("tasks.id IN (?)", sub)
		}))
	}

	if unassigned, ok := ParseBool(p.AssigneesIsNull); ok && unassigned {
		filters = append(filters, Scope(func(q *gorm.DB) *gorm.DB {
			sub := db.Table("task_assignees").Select("task_id")
			return q.Where("tasks.id NOT IN (?)", sub)
		}))
	}

	if completed, ok := ParseBool(p.IsCompleted); ok {
		filters = append(filters, Column("tasks.is_completed", OpEq, completed))
	}

	if p.TagsName != "" {
		name := p.TagsName
		filters = append(filters, Scope(func(q *gorm.DB) *gorm.DB {
			sub := db.Table("task_tags").Select("task_id").
				Joins("JOIN tags ON tags.id = task_tags.tag_id").
				Where("tags.name = ?", name)
			return q.Where("tasks.id IN (?)", sub)
		}))
	}

	if from, ok := ParseDate(p.DeadlineGt); ok {
		filters = append(filters, Column("tasks.deadline", OpGt, from))
	}
	if until, ok := ParseDate(p.DeadlineLt); ok {
		filters = append(filters, Column("tasks.deadline", OpLt, until))
	}

	if priorities := parsePriorities(p.PriorityIn); len(priorities) > 0 {
		filters = append(filters, Column("tasks.priority", OpIn, priorities))
	}

	// The project choices offered to the user are their team's projects, so
	// requested IDs are intersected with that set rather than trusted.
	if ids := ParseUintList(p.ProjectIn); len(ids) > 0 {
		teamID := u.TeamID
		filters = append(filters, Scope(func(q *gorm.DB) *gorm.DB {
			sub := db.Table("project_teams").Select("project_id").Where("team_id = ?", teamID)
			return q.Where("tasks.project_id IN ? AND tasks.project_id IN (?)", ids, sub)
		}))
	}

	return filters
}

func parsePriorities(values []string) []models.TaskPriority {
	var out []models.TaskPriority
	for _, id := range ParseUintList(values) {
		p := models.TaskPriority(id)
		if p.Valid() {
			out = append(out, p)
		}
	}
	return out
}

// WorkerFilterParams binds the worker list's filter query parameters.
type WorkerFilterParams struct {
	UsernameContains string `form:"username__icontains"`
	Email            string `form:"email"`
}

func (p *WorkerFilterParams) Filters() []Filter {
	var filters []Filter
	if p.UsernameContains != "" {
		filters = append(filters, Column("workers.username", OpContains, p.UsernameContains))
	}
	if p.Email != "" {
		filters = append(filters, Column("workers.email", OpEq, p.Email))
	}
	return filters
}

// NameFilterParams binds the single name filter shared by teams, projects
// and the lookup entities.
type NameFilterParams struct {
	Name string `form:"name"`
}

func (p *NameFilterParams) Filters(column string) []Filter {
	if p.Name == "" {
		return nil
	}
	return []Filter{Column(column, OpEq, p.Name)}
}
