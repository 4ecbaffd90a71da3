package services

import (
	"github.com/taskhive/taskhive/internal/models"
	"github.com/taskhive/taskhive/internal/scope"
	"gorm.io/gorm"
)

type DashboardService struct {
	db *gorm.DB
}

func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db}
}

type DashboardResponse struct {
	LastTasks        []models.Task     `json:"last_tasks"`
	RecentActivities []models.Activity `json:"recent_activities"`
	UnfinishedCount  int64             `json:"unfinished_count"`
	UnassignedCount  int64             `json:"unassigned_count"`
	OverdueCount     int64             `json:"overdue_count"`
}

// Summary builds the landing-page overview from the requester's visible
// tasks: the ten newest, the ten latest activities on them, and the
// unfinished, unassigned and overdue counters. A task is overdue when it is
// unfinished and its deadline lies strictly before today; tasks due today
// are not counted.
func (s *DashboardService) Summary(u *models.Worker) (*DashboardResponse, error) {
	visible := scope.ForEntity(s.db, scope.EntityTask).Visible(u)

	var lastTasks []models.Task
	err := visible(s.db.Model(&models.Task{})).
		Preload("TaskType").
		Preload("Assignees").
		Order("tasks.created_at DESC").
		Limit(10).
		Find(&lastTasks).Error
	if err != nil {
		return nil, err
	}

	taskIDs := visible(s.db.Model(&models.Task{})).Select("tasks.id")

	var activities []models.Activity
	err = s.db.Model(&models.Activity{}).
		Preload("Worker").
		Where("task_id IN (?)", taskIDs).
		Order("created_at DESC").
		Limit(10).
		Find(&activities).Error
	if err != nil {
		return nil, err
	}

	resp := &DashboardResponse{
		LastTasks:        lastTasks,
		RecentActivities: activities,
	}

	err = visible(s.db.Model(&models.Task{})).
		Where("tasks.is_completed = ?", false).
		Count(&resp.UnfinishedCount).Error
	if err != nil {
		return nil, err
	}

	assigned := s.db.Table("task_assignees").Select("task_id")
	err = visible(s.db.Model(&models.Task{})).
		Where("tasks.is_completed = ?", false).
		Where("tasks.id NOT IN (?)", assigned).
		Count(&resp.UnassignedCount).Error
	if err != nil {
		return nil, err
	}

	err = visible(s.db.Model(&models.Task{})).
		Where("tasks.is_completed = ?", false).
		Where("tasks.deadline < ?", models.Today()).
		Count(&resp.OverdueCount).Error
	if err != nil {
		return nil, err
	}

	return resp, nil
}
