package entity

import "time"

// User is the staff profile. ID holds the identity provider's subject, which
// is also the owner id stamped on every owned record.
type User struct {
	ID            string `gorm:"primaryKey;size:64"`
	Email         string `gorm:"not null;uniqueIndex"`
	FullName      *string
	Phone         *string
	Address       *string
	City          *string
	EmailVerified bool `gorm:"not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
