package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	DocumentTaxReturn          = "tax_return"
	DocumentFinancialStatement = "financial_statement"
	DocumentReceipt            = "receipt"
	DocumentContract           = "contract"
	DocumentOther              = "other"
)

// Document is the metadata row of a blob held in object storage under FilePath.
type Document struct {
	ID           string  `gorm:"primaryKey;size:36"`
	UserID       string  `gorm:"not null;size:64;index"` // References: users(id)
	ClientID     *string `gorm:"size:36;index"`          // References: clients(id)
	ServiceID    *string `gorm:"size:36;index"`          // References: services(id)
	Name         string  `gorm:"not null"`
	FilePath     string  `gorm:"not null"`
	FileSize     *int64
	MimeType     *string
	DocumentType string    `gorm:"not null;size:32"`
	UploadedAt   time.Time `gorm:"autoCreateTime"`

	// Relations
	Client  *Client  `gorm:"foreignKey:ClientID;references:ID"`
	Service *Service `gorm:"foreignKey:ServiceID;references:ID"`
}

func (d *Document) BeforeCreate(*gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}
