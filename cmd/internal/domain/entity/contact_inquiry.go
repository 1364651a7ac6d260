package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	InquiryNew        = "new"
	InquiryInProgress = "in_progress"
	InquiryResponded  = "responded"
)

// ContactInquiry is submitted from the public contact page and is not owned
// by any staff user.
type ContactInquiry struct {
	ID          string `gorm:"primaryKey;size:36"`
	Name        string `gorm:"not null"`
	Email       string `gorm:"not null"`
	Phone       *string
	Subject     *string
	Message     string `gorm:"not null"`
	Status      string `gorm:"not null;size:16"`
	CreatedAt   time.Time
	RespondedAt *time.Time
}

func (ContactInquiry) TableName() string { return "contact_inquiries" }

func (ci *ContactInquiry) BeforeCreate(*gorm.DB) error {
	if ci.ID == "" {
		ci.ID = uuid.NewString()
	}
	return nil
}
