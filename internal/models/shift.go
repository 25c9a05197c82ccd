package models

import (
	"time"

	"github.com/google/uuid"
)

type Shift struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	Email     string     `gorm:"size:255" json:"email"`
	AgentID   string     `gorm:"size:50;not null;index" json:"agent_id"`
	Vehicle   string     `gorm:"size:50" json:"vehicle"`
	StartedAt time.Time  `gorm:"not null" json:"started_at"`
	EndedAt   *time.Time `json:"ended_at"`
	Jobs      int        `json:"jobs"`
}

// Duration is zero for a shift that is still open.
func (s *Shift) Duration() time.Duration {
	if s.EndedAt == nil {
		return 0
	}
	return s.EndedAt.Sub(s.StartedAt)
}
