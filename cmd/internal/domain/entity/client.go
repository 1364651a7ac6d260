package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ClientIndividual   = "individual"
	ClientBusiness     = "business"
	ClientOrganization = "organization"
)

type Client struct {
	ID                 string  `gorm:"primaryKey;size:36"`
	UserID             string  `gorm:"not null;size:64;index"` // References: users(id)
	Name               string  `gorm:"not null"`
	Email              *string
	Phone              *string
	Address            *string
	City               *string
	ClientType         string `gorm:"not null;size:16"`
	PanNumber          *string
	RegistrationNumber *string
	Notes              *string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (c *Client) BeforeCreate(*gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
