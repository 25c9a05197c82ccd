package models

import (
	"time"

	"github.com/google/uuid"
)

// Box is a packed box of stock for one client at one agent. Boxes are
// numbered per agent and client code, the part of the client that is printed.
type Box struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	AgentID    string    `gorm:"size:50;not null;uniqueIndex:idx_boxes_agent_code_number" json:"agent_id"`
	Client     string    `gorm:"size:100;not null" json:"client"`
	ClientCode string    `gorm:"size:10;not null;uniqueIndex:idx_boxes_agent_code_number" json:"client_code"`
	BoxNumber  string    `gorm:"size:10;not null;uniqueIndex:idx_boxes_agent_code_number" json:"box_number"`
	CreatedBy  uuid.UUID `gorm:"type:uuid" json:"created_by"`
	CreatedAt  time.Time `json:"created_at"`
	Serials    []Serial  `gorm:"foreignKey:BoxID" json:"serials,omitempty"`
}

// Serial is one device serial number recorded against a job and a box.
type Serial struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	SerialNumber string    `gorm:"size:100;not null;uniqueIndex" json:"serial_number"`
	JobID        uint      `gorm:"index" json:"job_id"`
	BoxID        uint      `gorm:"index" json:"box_id"`
	CreatedAt    time.Time `json:"created_at"`
}
