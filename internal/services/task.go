package services

import (
	"errors"
	"time"

	"github.com/taskhive/taskhive/internal/models"
	"github.com/taskhive/taskhive/internal/query"
	"github.com/taskhive/taskhive/internal/scope"
	"github.com/taskhive/taskhive/pkg/response"
	"gorm.io/gorm"
)

type TaskService struct {
	db *gorm.DB
}

func NewTaskService(db *gorm.DB) *TaskService {
	return &TaskService{db: db}
}

type TaskListResponse struct {
	Total    int64         `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
	Items    []models.Task `json:"items"`
}

// List returns the requester's visible tasks, filtered and paginated. The
// scoping predicate and the ad hoc filters are independent restrictions
// ANDed onto the same query.
func (s *TaskService) List(u *models.Worker, params *query.TaskFilterParams, page, pageSize int) (*TaskListResponse, error) {
	if page <= 0 {
		page = 1
	}

	visible := scope.ForEntity(s.db, scope.EntityTask).Visible(u)

	base := visible(s.db.Model(&models.Task{}))
	base = query.Apply(base, params.Filters(s.db, u))

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, err
	}

	var tasks []models.Task
	err := base.
		Preload("TaskType").
		Preload("Tags").
		Preload("Assignees").
		Order("tasks.created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}

	return &TaskListResponse{
		Total:    total,
		Page:     page,
		PageSize: pageSize,
		Items:    tasks,
	}, nil
}

type TaskDetail struct {
	Task       models.Task       `json:"task"`
	Comments   []models.Comment  `json:"comments"`
	Activities []models.Activity `json:"activities"`
}

// GetDetail loads a task with its comments and activity log.
func (s *TaskService) GetDetail(id uint) (*TaskDetail, error) {
	var task models.Task
	err := s.db.
		Preload("TaskType").
		Preload("Tags").
		Preload("Assignees").
		Preload("Creator").
		Preload("Project").
		First(&task, id).Error
	if err != nil {
		return nil, err
	}

	var comments []models.Comment
	if err := s.db.Preload("Worker").Where("task_id = ?", id).Order("created_at ASC").Find(&comments).Error; err != nil {
		return nil, err
	}

	var activities []models.Activity
	if err := s.db.Preload("Worker").Where("task_id = ?", id).Order("created_at DESC").Find(&activities).Error; err != nil {
		return nil, err
	}

	return &TaskDetail{Task: task, Comments: comments, Activities: activities}, nil
}

type CreateTaskRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Deadline    string `json:"deadline"` // yyyy-mm-dd, defaults to three days out
	TaskTypeID  *uint  `json:"task_type_id"`
	Priority    int    `json:"priority"`
	ProjectID   uint   `json:"project_id" binding:"required"`
	TagIDs      []uint `json:"tag_ids"`
	AssigneeIDs []uint `json:"assignee_ids"`
}

// Create persists a new task and its CREATE_TASK activity atomically. The
// creator is always the requester, regardless of what the client sent.
func (s *TaskService) Create(u *models.Worker, req *CreateTaskRequest) (*models.Task, error) {
	deadline, err := s.resolveDeadline(req.Deadline)
	if err != nil {
		return nil, err
	}

	priority := models.TaskPriority(req.Priority)
	if req.Priority == 0 {
		priority = models.PriorityLow
	} else if !priority.Valid() {
		return nil, response.NewBadRequest("invalid priority")
	}

	if !s.projectAvailable(u, req.ProjectID) {
		return nil, response.NewBadRequest("project is not available")
	}

	creatorID := u.ID
	task := models.Task{
		Name:        req.Name,
		Description: req.Description,
		Deadline:    deadline,
		TaskTypeID:  req.TaskTypeID,
		Priority:    priority,
		CreatorID:   &creatorID,
		ProjectID:   req.ProjectID,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&task).Error; err != nil {
			return err
		}
		if err := s.setTags(tx, &task, req.TagIDs); err != nil {
			return err
		}
		if err := s.setAssignees(tx, &task, req.AssigneeIDs); err != nil {
			return err
		}
		return tx.Create(&models.Activity{
			Type:     models.ActivityCreateTask,
			TaskID:   task.ID,
			WorkerID: u.ID,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	return &task, nil
}

type UpdateTaskRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Deadline    string  `json:"deadline"`
	TaskTypeID  *uint   `json:"task_type_id"`
	Priority    int     `json:"priority"`
	IsCompleted *bool   `json:"is_completed"`
	TagIDs      *[]uint `json:"tag_ids"`
	AssigneeIDs *[]uint `json:"assignee_ids"`
}

// Update applies a partial update and logs an UPDATE_TASK activity in the
// same transaction.
func (s *TaskService) Update(u *models.Worker, id uint, req *UpdateTaskRequest) (*models.Task, error) {
	var task models.Task
	if err := s.db.First(&task, id).Error; err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})

	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Deadline != "" {
		deadline, err := s.resolveDeadline(req.Deadline)
		if err != nil {
			return nil, err
		}
		updates["deadline"] = deadline
	}
	if req.TaskTypeID != nil {
		updates["task_type_id"] = req.TaskTypeID
	}
	if req.Priority != 0 {
		priority := models.TaskPriority(req.Priority)
		if !priority.Valid() {
			return nil, response.NewBadRequest("invalid priority")
		}
		updates["priority"] = priority
	}
	if req.IsCompleted != nil {
		updates["is_completed"] = *req.IsCompleted
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(&task).Updates(updates).Error; err != nil {
				return err
			}
		}
		if req.TagIDs != nil {
			if err := s.replaceTags(tx, &task, *req.TagIDs); err != nil {
				return err
			}
		}
		if req.AssigneeIDs != nil {
			if err := s.replaceAssignees(tx, &task, *req.AssigneeIDs); err != nil {
				return err
			}
		}
		return tx.Create(&models.Activity{
			Type:     models.ActivityUpdateTask,
			TaskID:   task.ID,
			WorkerID: u.ID,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	return &task, nil
}

// Delete removes a task together with its comments, activities and
// memberships. The join rows are cleared explicitly so the behavior does not
// depend on the driver's foreign-key enforcement.
func (s *TaskService) Delete(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var task models.Task
		if err := tx.First(&task, id).Error; err != nil {
			return err
		}
		if err := tx.Where("task_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("task_id = ?", id).Delete(&models.Activity{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM task_assignees WHERE task_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM task_tags WHERE task_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&task).Error
	})
}

type AddCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

// AddComment creates a comment and its ADD_COMMENT activity atomically.
func (s *TaskService) AddComment(u *models.Worker, taskID uint, req *AddCommentRequest) (*models.Comment, error) {
	if req.Content == "" {
		return nil, response.NewBadRequest("comment content is required")
	}

	var task models.Task
	if err := s.db.First(&task, taskID).Error; err != nil {
		return nil, err
	}

	comment := models.Comment{
		Content:  req.Content,
		TaskID:   task.ID,
		WorkerID: u.ID,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&comment).Error; err != nil {
			return err
		}
		return tx.Create(&models.Activity{
			Type:     models.ActivityAddComment,
			TaskID:   task.ID,
			WorkerID: u.ID,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	return &comment, nil
}

// ToggleAssignee adds the requester to the task's assignees, or removes them
// if already assigned. Either direction logs an UPDATE_TASK activity in the
// same transaction. Returns whether the requester is assigned afterwards.
func (s *TaskService) ToggleAssignee(u *models.Worker, taskID uint) (bool, error) {
	var task models.Task
	if err := s.db.First(&task, taskID).Error; err != nil {
		return false, err
	}

	var assigned bool
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Table("task_assignees").
			Where("task_id = ? AND worker_id = ?", task.ID, u.ID).
			Count(&count).Error; err != nil {
			return err
		}

		if count > 0 {
			if err := tx.Exec("DELETE FROM task_assignees WHERE task_id = ? AND worker_id = ?", task.ID, u.ID).Error; err != nil {
				return err
			}
			assigned = false
		} else {
			if err := tx.Exec("INSERT INTO task_assignees (task_id, worker_id) VALUES (?, ?)", task.ID, u.ID).Error; err != nil {
				return err
			}
			assigned = true
		}

		return tx.Create(&models.Activity{
			Type:     models.ActivityUpdateTask,
			TaskID:   task.ID,
			WorkerID: u.ID,
		}).Error
	})
	if err != nil {
		return false, err
	}

	return assigned, nil
}

// resolveDeadline parses and validates the deadline, defaulting to three
// days from today. A deadline before today is rejected.
func (s *TaskService) resolveDeadline(raw string) (*time.Time, error) {
	if raw == "" {
		d := models.DefaultDeadline()
		return &d, nil
	}
	d, ok := query.ParseDate(raw)
	if !ok {
		return nil, response.NewBadRequest("invalid deadline date")
	}
	if d.Before(models.Today()) {
		return nil, response.NewBadRequest("deadline must not be before today")
	}
	return &d, nil
}

// projectAvailable mirrors the create form's project choices: the
// requester's team's projects, or anything for privileged workers.
func (s *TaskService) projectAvailable(u *models.Worker, projectID uint) bool {
	visible := scope.ForEntity(s.db, scope.EntityProject).Visible(u)
	var count int64
	visible(s.db.Model(&models.Project{})).Where("projects.id = ?", projectID).Count(&count)
	return count > 0
}

func (s *TaskService) setTags(tx *gorm.DB, task *models.Task, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	var tags []models.Tag
	if err := tx.Find(&tags, ids).Error; err != nil {
		return err
	}
	if len(tags) != len(ids) {
		return response.NewBadRequest("unknown tag")
	}
	return tx.Model(task).Association("Tags").Append(&tags)
}

func (s *TaskService) replaceTags(tx *gorm.DB, task *models.Task, ids []uint) error {
	if len(ids) == 0 {
		return tx.Model(task).Association("Tags").Clear()
	}
	var tags []models.Tag
	if err := tx.Find(&tags, ids).Error; err != nil {
		return err
	}
	if len(tags) != len(ids) {
		return response.NewBadRequest("unknown tag")
	}
	return tx.Model(task).Association("Tags").Replace(&tags)
}

// assignableWorkers restricts assignees to members of the teams attached to
// the task's project.
func (s *TaskService) assignableWorkers(tx *gorm.DB, task *models.Task, ids []uint) ([]models.Worker, error) {
	teamIDs := tx.Table("project_teams").Select("team_id").Where("project_id = ?", task.ProjectID)

	var workers []models.Worker
	err := tx.Where("id IN ? AND team_id IN (?)", ids, teamIDs).Find(&workers).Error
	if err != nil {
		return nil, err
	}
	if len(workers) != len(ids) {
		return nil, response.NewBadRequest("assignee is not in a team of this project")
	}
	return workers, nil
}

func (s *TaskService) setAssignees(tx *gorm.DB, task *models.Task, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	workers, err := s.assignableWorkers(tx, task, ids)
	if err != nil {
		return err
	}
	return tx.Model(task).Association("Assignees").Append(&workers)
}

func (s *TaskService) replaceAssignees(tx *gorm.DB, task *models.Task, ids []uint) error {
	if len(ids) == 0 {
		return tx.Model(task).Association("Assignees").Clear()
	}
	workers, err := s.assignableWorkers(tx, task, ids)
	if err != nil {
		return err
	}
	return tx.Model(task).Association("Assignees").Replace(&workers)
}

// IsNotFound reports whether err is the ORM's record-not-found error.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
