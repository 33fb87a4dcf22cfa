package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PricingTier is one rental-period band for a piece of equipment.
// PeriodStart/PeriodEnd are inclusive day counts; a nil PeriodEnd means the
// band is unbounded. Tiers for one equipment must not overlap and the tier
// with PeriodStart = 1 is the base tier, pinned to 0% discount.
// PricePerDay stores the already-discounted daily rate; DiscountPercent is
// kept consistent with the base tier by the editing workflow, not at read time.
type PricingTier struct {
	ID          uint `gorm:"primaryKey" json:"id"`
	EquipmentID uint `gorm:"not null;index:idx_pricing_tiers_equipment" json:"equipment_id"`

	PeriodStart int  `gorm:"not null" json:"period_start"`
	PeriodEnd   *int `json:"period_end,omitempty"`

	PricePerDay     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price_per_day"`
	DiscountPercent decimal.Decimal `gorm:"type:numeric(5,2);not null;default:0" json:"discount_percent"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (PricingTier) TableName() string { return "pricing_tiers" }

// Covers reports whether rentalDays falls inside this band.
func (t *PricingTier) Covers(rentalDays int) bool {
	if rentalDays < t.PeriodStart {
		return false
	}
	return t.PeriodEnd == nil || rentalDays <= *t.PeriodEnd
}

// IsBase reports whether this is the base tier (day one band).
func (t *PricingTier) IsBase() bool { return t.PeriodStart == 1 }

// PricingTierFilter represents filter criteria for pricing tier queries
type PricingTierFilter struct {
	ID          *uint
	EquipmentID *uint
}
