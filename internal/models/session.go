package models

import (
	"time"
)

// Session is a server-side session row keyed by a UUID cookie. It remembers
// the requester's preferred page size across requests until changed.
type Session struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	WorkerID  *uint     `gorm:"index" json:"worker_id"`
	PageSize  *int      `json:"page_size"`
	ExpiresAt time.Time `gorm:"index" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Session) TableName() string { return "sessions" }

// Expired reports whether the session is past its expiry.
func (s *Session) Expired() bool {
	return time.Now().After(s.ExpiresAt)
}
