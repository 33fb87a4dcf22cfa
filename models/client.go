package models

import (
	"time"

	"github.com/google/uuid"
)

// Client represents the rental customer a quote is addressed to.
// Read-only to the pricing engine.
type Client struct {
	ID   uint      `gorm:"primaryKey" json:"id"`
	UUID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_clients_uuid" json:"uuid"`

	Name    string  `gorm:"size:255;not null" json:"name"`
	Email   *string `gorm:"size:255;index:idx_clients_email" json:"email,omitempty"`
	Phone   *string `gorm:"size:40" json:"phone,omitempty"`
	TaxID   *string `gorm:"size:40" json:"tax_id,omitempty"`
	Address *string `gorm:"size:500" json:"address,omitempty"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (Client) TableName() string { return "clients" }

// ClientFilter represents filter criteria for client queries
type ClientFilter struct {
	ID    *uint
	UUID  *uuid.UUID
	Name  *string
	Email *string
}
