package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ServicePending    = "pending"
	ServiceInProgress = "in_progress"
	ServiceCompleted  = "completed"
	ServiceOnHold     = "on_hold"
)

// Service is an engagement the firm performs for one client.
type Service struct {
	ID             string     `gorm:"primaryKey;size:36"`
	UserID         string     `gorm:"not null;size:64;index"` // References: users(id)
	ClientID       string     `gorm:"not null;size:36;index"` // References: clients(id)
	ServiceName    string     `gorm:"not null"`
	Description    *string
	Status         string     `gorm:"not null;size:16"`
	StartDate      *time.Time `gorm:"type:date"`
	DueDate        *time.Time `gorm:"type:date"`
	CompletionDate *time.Time `gorm:"type:date"`
	Amount         *float64
	Notes          *string
	CreatedAt      time.Time
	UpdatedAt      time.Time

	// Relations
	Client *Client `gorm:"foreignKey:ClientID;references:ID"`
}

func (s *Service) BeforeCreate(*gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
