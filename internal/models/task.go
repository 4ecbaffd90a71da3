package models

import (
	"time"
)

// TaskPriority is the urgency level of a task.
type TaskPriority int

const (
	PriorityLow    TaskPriority = 1
	PriorityNormal TaskPriority = 2
	PriorityHigh   TaskPriority = 3
	PriorityBlock  TaskPriority = 4
)

// Valid reports whether p is a known priority.
func (p TaskPriority) Valid() bool {
	return p >= PriorityLow && p <= PriorityBlock
}

// Label returns the display name of the priority.
func (p TaskPriority) Label() string {
	switch p {
	case PriorityLow:
		return "Low"
	case PriorityNormal:
		return "Normal"
	case PriorityHigh:
		return "High"
	case PriorityBlock:
		return "Block"
	}
	return "Unknown"
}

// DeadlineOffsetDays is the default deadline distance for new tasks.
const DeadlineOffsetDays = 3

// DefaultDeadline returns today plus three days, at midnight.
func DefaultDeadline() time.Time {
	return Today().AddDate(0, 0, DeadlineOffsetDays)
}

// Today returns the current date truncated to midnight local time.
func Today() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

type Task struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	Name        string       `gorm:"size:65;not null;index:idx_tasks_name" json:"name"`
	Description string       `gorm:"type:text;index:idx_tasks_description" json:"description"`
	Deadline    *time.Time   `json:"deadline"`
	TaskTypeID  *uint        `json:"task_type_id"`
	TaskType    *TaskType    `gorm:"foreignKey:TaskTypeID;constraint:OnDelete:SET NULL" json:"task_type,omitempty"`
	IsCompleted bool         `gorm:"default:false" json:"is_completed"`
	Priority    TaskPriority `gorm:"default:1" json:"priority"`
	CreatorID   *uint        `json:"creator_id"`
	Creator     *Worker      `gorm:"foreignKey:CreatorID;constraint:OnDelete:SET NULL" json:"creator,omitempty"`
	Assignees   []Worker     `gorm:"many2many:task_assignees" json:"assignees,omitempty"`
	ProjectID   uint         `gorm:"index;not null" json:"project_id"`
	Project     *Project     `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"project,omitempty"`
	Tags        []Tag        `gorm:"many2many:task_tags" json:"tags,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

func (Task) TableName() string { return "tasks" }

// Comment is an append-only note on a task.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Content   string    `gorm:"size:255;not null" json:"content"`
	TaskID    uint      `gorm:"index;not null" json:"task_id"`
	Task      *Task     `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE" json:"-"`
	WorkerID  uint      `gorm:"index;not null" json:"worker_id"`
	Worker    *Worker   `gorm:"foreignKey:WorkerID;constraint:OnDelete:CASCADE" json:"worker,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (Comment) TableName() string { return "comments" }

// ActivityType identifies the task-affecting action an Activity records.
type ActivityType int

const (
	ActivityCreateTask ActivityType = 1
	ActivityUpdateTask ActivityType = 2
	ActivityAddComment ActivityType = 3
)

// Label returns the display name of the activity type.
func (t ActivityType) Label() string {
	switch t {
	case ActivityCreateTask:
		return "created task"
	case ActivityUpdateTask:
		return "updated task"
	case ActivityAddComment:
		return "commented task"
	}
	return "unknown"
}

// Activity is an immutable audit-log row recording a task-affecting action
// and its actor. Rows are only ever written inside the same transaction as
// the data change they describe.
type Activity struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	Type      ActivityType `gorm:"not null" json:"type"`
	TaskID    uint         `gorm:"index;not null" json:"task_id"`
	Task      *Task        `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE" json:"-"`
	WorkerID  uint         `gorm:"index;not null" json:"worker_id"`
	Worker    *Worker      `gorm:"foreignKey:WorkerID;constraint:OnDelete:CASCADE" json:"worker,omitempty"`
	CreatedAt time.Time    `gorm:"index" json:"created_at"`
}

func (Activity) TableName() string { return "activities" }
