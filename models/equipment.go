// Package models contains domain entities and business models for the rental quoting system
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Equipment represents one rentable machine or asset in a domain catalog.
// Read-only to the pricing engine; created and edited by admin tooling.
// AvailableQuantity must never exceed Quantity.
type Equipment struct {
	ID   uint      `gorm:"primaryKey" json:"id"`
	UUID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_equipment_uuid" json:"uuid"`

	Domain     string  `gorm:"size:20;not null;index:idx_equipment_domain" json:"domain"`
	CategoryID *uint   `gorm:"index:idx_equipment_category" json:"category_id,omitempty"`
	Name       string  `gorm:"size:255;not null" json:"name"`
	Model      *string `gorm:"size:255" json:"model,omitempty"`
	Power      *string `gorm:"size:100" json:"power,omitempty"`
	Dimensions *string `gorm:"size:255" json:"dimensions,omitempty"`
	Description *string `gorm:"type:text" json:"description,omitempty"`

	Quantity          int `gorm:"not null;default:0" json:"quantity"`
	AvailableQuantity int `gorm:"not null;default:0" json:"available_quantity"`

	PricingTiers []PricingTier `gorm:"foreignKey:EquipmentID" json:"pricing_tiers,omitempty"`

	IsActive  *bool     `gorm:"default:true;index:idx_equipment_is_active" json:"is_active"`
	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (Equipment) TableName() string { return "equipment" }

// EquipmentFilter represents filter criteria for equipment queries
type EquipmentFilter struct {
	ID         *uint
	UUID       *uuid.UUID
	Domain     *string
	CategoryID *uint
	Name       *string
	IsActive   *bool
}

// AdditionalEquipment is an optional add-on offered alongside a piece of equipment.
// Contribution to a quote line = PricePerDay x line quantity.
type AdditionalEquipment struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	EquipmentID uint            `gorm:"not null;index:idx_additional_equipment_equipment" json:"equipment_id"`
	Name        string          `gorm:"size:255;not null" json:"name"`
	PricePerDay decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price_per_day"`
	CreatedAt   time.Time       `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (AdditionalEquipment) TableName() string { return "additional_equipment" }

// Accessory is a second catalog of per-equipment add-ons, priced the same way
// as additional equipment but maintained separately by administrators.
type Accessory struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	EquipmentID uint            `gorm:"not null;index:idx_accessories_equipment" json:"equipment_id"`
	Name        string          `gorm:"size:255;not null" json:"name"`
	PricePerDay decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price_per_day"`
	CreatedAt   time.Time       `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (Accessory) TableName() string { return "accessories" }
