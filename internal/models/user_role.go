package models

import (
	"time"

	"github.com/google/uuid"
)

// UserRole assigns a role and an agent (depot) to a user.
// A nil AgentID means the account is waiting to be provisioned.
type UserRole struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	Email     string    `gorm:"size:255;index" json:"email"`
	Role      string    `gorm:"size:20" json:"role"`
	AgentID   *string   `gorm:"size:50;index" json:"agent_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (UserRole) TableName() string {
	return "user_roles"
}
