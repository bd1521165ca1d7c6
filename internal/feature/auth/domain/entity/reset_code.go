package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ResetCode represents a one-time numeric code proving control of an email
// address during password recovery. Superseded codes are marked used, never
// deleted.
type ResetCode struct {
	ID string `gorm:"primaryKey;size:36"`

	// Email references the owning user by address. No foreign key is
	// enforced: a code row may outlive the user lookup that issued it.
	Email string `gorm:"size:255;not null;index:idx_reset_codes_email_code"`

	// Code is a 6-digit numeric string, not unique across rows.
	Code string `gorm:"size:6;not null;index:idx_reset_codes_email_code"`

	ExpiresAt time.Time `gorm:"not null;index"`
	Used      bool      `gorm:"not null;default:false"`
	CreatedAt time.Time
}

// TableName returns the table name for GORM.
func (ResetCode) TableName() string {
	return "password_reset_codes"
}

// BeforeCreate assigns a fresh UUID.
func (c *ResetCode) BeforeCreate(*gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// IsExpired returns true if the code has passed its expiration time.
func (c *ResetCode) IsExpired() bool {
	return time.Now().After(c.ExpiresAt)
}

// IsValid returns true if the code is neither used nor expired.
func (c *ResetCode) IsValid() bool {
	return !c.Used && !c.IsExpired()
}
