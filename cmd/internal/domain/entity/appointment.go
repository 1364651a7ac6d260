package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	AppointmentScheduled   = "scheduled"
	AppointmentCompleted   = "completed"
	AppointmentCancelled   = "cancelled"
	AppointmentRescheduled = "rescheduled"
)

// DefaultAppointmentMinutes is used when a form leaves the duration blank.
const DefaultAppointmentMinutes = 60

type Appointment struct {
	ID              string    `gorm:"primaryKey;size:36"`
	UserID          string    `gorm:"not null;size:64;index"` // References: users(id)
	ClientID        *string   `gorm:"size:36;index"`          // References: clients(id)
	Title           string    `gorm:"not null"`
	Description     *string
	AppointmentDate time.Time `gorm:"not null;index"`
	DurationMinutes int       `gorm:"not null"`
	Location        *string
	Status          string    `gorm:"not null;size:16"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// Relations
	Client *Client `gorm:"foreignKey:ClientID;references:ID"`
}

func (a *Appointment) BeforeCreate(*gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
