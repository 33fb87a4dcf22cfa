package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ServiceItem is one named, admin-defined cost entry available to quote
// lines of a domain. At most four slots exist per domain; the engine only
// consumes the cost values, slot naming lives here in the catalog.
type ServiceItem struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	Domain string `gorm:"size:20;not null;uniqueIndex:uk_service_items_domain_slot,priority:1" json:"domain"`
	Slot   int    `gorm:"not null;uniqueIndex:uk_service_items_domain_slot,priority:2" json:"slot"`

	Name string          `gorm:"size:255;not null" json:"name"`
	Cost decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"cost"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (ServiceItem) TableName() string { return "service_items" }

// ServiceItemFilter represents filter criteria for service item queries
type ServiceItemFilter struct {
	ID     *uint
	Domain *string
	Slot   *int
}
