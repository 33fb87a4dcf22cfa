package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// QuoteStatus represents the status of a quote
type QuoteStatus string

const (
	QuoteStatusDraft    QuoteStatus = "draft"
	QuoteStatusSent     QuoteStatus = "sent"
	QuoteStatusAccepted QuoteStatus = "accepted"
	QuoteStatusRejected QuoteStatus = "rejected"
)

// String returns the string representation of the status
func (s QuoteStatus) String() string {
	return string(s)
}

// Valid checks if the status is valid
func (s QuoteStatus) Valid() bool {
	switch s {
	case QuoteStatusDraft, QuoteStatusSent, QuoteStatusAccepted, QuoteStatusRejected:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for QuoteStatus
func (s *QuoteStatus) Scan(value any) error {
	if value == nil {
		*s = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*s = QuoteStatus(v)
	case []byte:
		*s = QuoteStatus(string(v))
	default:
		return fmt.Errorf("cannot scan %T into QuoteStatus", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for QuoteStatus
func (s QuoteStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid QuoteStatus: %s", s)
	}
	return string(s), nil
}

// Quote is a fully-priced rental quote. TotalNet is always the sum of the
// line totals and TotalGross is always TotalNet x (1 + VATRate/100); both are
// recomputed from scratch whenever a line changes.
type Quote struct {
	ID   uint      `gorm:"primaryKey" json:"id"`
	UUID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_quotes_uuid" json:"uuid"`

	Domain   string `gorm:"size:20;not null;index:idx_quotes_domain" json:"domain"`
	ClientID uint   `gorm:"not null;index:idx_quotes_client" json:"client_id"`
	Client   *Client `gorm:"foreignKey:ClientID" json:"client,omitempty"`

	QuoteNumber string `gorm:"size:64;not null;uniqueIndex:uk_quotes_number" json:"quote_number"`

	LineItems []QuoteLineItem `gorm:"foreignKey:QuoteID" json:"line_items,omitempty"`

	TotalNet   decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"total_net"`
	VATRate    decimal.Decimal `gorm:"type:numeric(5,2);not null" json:"vat_rate"`
	TotalGross decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"total_gross"`

	Status QuoteStatus `gorm:"type:varchar(20);not null;default:'draft';index:idx_quotes_status" json:"status"`

	// Set on quotes arriving through the anonymous client submission path
	ClientSubmitted *bool `gorm:"default:false" json:"client_submitted,omitempty"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_quotes_created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (Quote) TableName() string { return "quotes" }

// QuoteFilter represents filter criteria for quote queries
type QuoteFilter struct {
	ID            *uint
	UUID          *uuid.UUID
	Domain        *string
	ClientID      *uint
	Status        *QuoteStatus
	QuoteNumber   *string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}

// QuoteLineItem is one equipment entry within a quote, carrying its resolved
// rate, the enabled riders with their computed contributions, and the line
// total. Immutable once the quote is finalized except through the explicit
// edit flow, which reprices the line from scratch.
type QuoteLineItem struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	QuoteID uint `gorm:"not null;index:idx_quote_line_items_quote" json:"quote_id"`

	EquipmentID uint       `gorm:"not null;index:idx_quote_line_items_equipment" json:"equipment_id"`
	Equipment   *Equipment `gorm:"foreignKey:EquipmentID" json:"equipment,omitempty"`

	Quantity   int `gorm:"not null" json:"quantity"`
	RentalDays int `gorm:"not null" json:"rental_days"`

	PricePerDay     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price_per_day"`
	DiscountPercent decimal.Decimal `gorm:"type:numeric(5,2);not null;default:0" json:"discount_percent"`

	Riders    RiderSpecList  `gorm:"type:jsonb" json:"riders,omitempty"`
	Breakdown RiderBreakdown `gorm:"type:jsonb" json:"breakdown,omitempty"`

	TotalPrice decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"total_price"`

	Position int `gorm:"not null;default:0" json:"position"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (QuoteLineItem) TableName() string { return "quote_line_items" }
