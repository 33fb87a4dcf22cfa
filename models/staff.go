package models

import (
	"time"

	"github.com/google/uuid"
)

// Staff represents an internal user who manages quotes and pricing tiers
type Staff struct {
	ID   uint      `gorm:"primaryKey" json:"id"`
	UUID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_staff_uuid" json:"uuid"`

	FullName     string `gorm:"size:255;not null" json:"full_name"`
	Email        string `gorm:"size:255;not null;uniqueIndex:uk_staff_email" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	IsActive     *bool  `gorm:"default:true" json:"is_active"`

	LastLoginAt *time.Time `json:"last_login_at,omitempty"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (Staff) TableName() string { return "staff" }

// StaffFilter represents filter criteria for staff queries
type StaffFilter struct {
	ID       *uint
	UUID     *uuid.UUID
	Email    *string
	IsActive *bool
}
