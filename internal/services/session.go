package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/taskhive/taskhive/internal/models"
	"github.com/taskhive/taskhive/pkg/logger"
	"gorm.io/gorm"
)

// SessionService manages the server-side session rows that remember list
// preferences (currently the page size) across requests.
type SessionService struct {
	db  *gorm.DB
	ttl time.Duration
}

func NewSessionService(db *gorm.DB, ttlHours int) *SessionService {
	return &SessionService{
		db:  db,
		ttl: time.Duration(ttlHours) * time.Hour,
	}
}

// Get loads an unexpired session by ID.
func (s *SessionService) Get(id string) (*models.Session, error) {
	var sess models.Session
	if err := s.db.First(&sess, "id = ?", id).Error; err != nil {
		return nil, err
	}
	if sess.Expired() {
		s.db.Delete(&sess)
		return nil, gorm.ErrRecordNotFound
	}
	return &sess, nil
}

// Create starts a fresh session, optionally bound to a worker.
func (s *SessionService) Create(workerID *uint) (*models.Session, error) {
	sess := models.Session{
		ID:        uuid.NewString(),
		WorkerID:  workerID,
		ExpiresAt: time.Now().Add(s.ttl),
	}
	if err := s.db.Create(&sess).Error; err != nil {
		return nil, err
	}
	return &sess, nil
}

// GetOrCreate resolves the cookie value to a live session, creating one when
// the cookie is absent, stale or forged.
func (s *SessionService) GetOrCreate(id string, workerID *uint) (*models.Session, error) {
	if id != "" {
		sess, err := s.Get(id)
		if err == nil {
			if sess.WorkerID == nil && workerID != nil {
				s.db.Model(sess).Update("worker_id", workerID)
				sess.WorkerID = workerID
			}
			return sess, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}
	return s.Create(workerID)
}

// SetPageSize persists the remembered page size.
func (s *SessionService) SetPageSize(sess *models.Session, size int) error {
	sess.PageSize = &size
	return s.db.Model(sess).Update("page_size", size).Error
}

// Cleanup deletes expired session rows.
func (s *SessionService) Cleanup() (int64, error) {
	result := s.db.Where("expires_at < ?", time.Now()).Delete(&models.Session{})
	return result.RowsAffected, result.Error
}

var sessionCleanupCron *cron.Cron

// StartSessionCleanupScheduler purges expired sessions nightly.
func StartSessionCleanupScheduler(svc *SessionService) {
	sessionCleanupCron = cron.New()
	_, err := sessionCleanupCron.AddFunc("30 3 * * *", func() {
		deleted, err := svc.Cleanup()
		if err != nil {
			logger.Error().Err(err).Msg("session cleanup failed")
			return
		}
		if deleted > 0 {
			logger.Info().Int64("deleted", deleted).Msg("expired sessions purged")
		}
	})
	if err != nil {
		logger.Error().Err(err).Msg("failed to schedule session cleanup")
		return
	}
	sessionCleanupCron.Start()
}

// StopSessionCleanupScheduler stops the cleanup job.
func StopSessionCleanupScheduler() {
	if sessionCleanupCron != nil {
		sessionCleanupCron.Stop()
	}
}
