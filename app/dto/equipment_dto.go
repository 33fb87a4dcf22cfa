package dto

import (
	"github.com/shopspring/decimal"
)

// PricingTierDTO represents one rental-period band in requests and responses
type PricingTierDTO struct {
	PeriodStart     int              `json:"period_start" validate:"required,min=1"`
	PeriodEnd       *int             `json:"period_end,omitempty" validate:"omitempty,min=1"`
	PricePerDay     *decimal.Decimal `json:"price_per_day,omitempty"`
	DiscountPercent *decimal.Decimal `json:"discount_percent,omitempty"`
}

// ReplaceTiersRequest represents the request to replace an equipment's tier table.
// Each tier may carry either the effective price or the discount percent;
// the missing one is derived from the base tier price.
type ReplaceTiersRequest struct {
	EquipmentUUID string           `json:"-"`
	Tiers         []PricingTierDTO `json:"tiers" validate:"required,min=1,dive"`
}

// ReplaceTiersResponse represents the response to a tier table replacement
type ReplaceTiersResponse struct {
	Message string           `json:"message"`
	Tiers   []PricingTierDTO `json:"tiers"`
}

// EquipmentDTO represents one catalog entry in responses
type EquipmentDTO struct {
	UUID              string           `json:"uuid"`
	Domain            string           `json:"domain"`
	Name              string           `json:"name"`
	Model             *string          `json:"model,omitempty"`
	Power             *string          `json:"power,omitempty"`
	Dimensions        *string          `json:"dimensions,omitempty"`
	Description       *string          `json:"description,omitempty"`
	Quantity          int              `json:"quantity"`
	AvailableQuantity int              `json:"available_quantity"`
	PricingTiers      []PricingTierDTO `json:"pricing_tiers,omitempty"`
	IsActive          bool             `json:"is_active"`
}

// ListEquipmentRequest represents the request to list equipment of a domain
type ListEquipmentRequest struct {
	Domain   string `json:"domain" validate:"required,oneof=general electrical transport public"`
	Page     int    `json:"page" validate:"min=1"`
	PageSize int    `json:"page_size" validate:"min=1,max=100"`
}

// ListEquipmentResponse represents the response to list equipment
type ListEquipmentResponse struct {
	Message   string         `json:"message"`
	Equipment []EquipmentDTO `json:"equipment"`
	Total     int64          `json:"total"`
	Page      int            `json:"page"`
}

// GetEquipmentRequest represents the request to fetch one equipment entry
type GetEquipmentRequest struct {
	UUID string `json:"-"`
}

// GetEquipmentResponse represents the response carrying one equipment entry
// together with its addon catalogs
type GetEquipmentResponse struct {
	Message             string         `json:"message"`
	Equipment           EquipmentDTO   `json:"equipment"`
	AdditionalEquipment []AddonDTO     `json:"additional_equipment,omitempty"`
	Accessories         []AddonDTO     `json:"accessories,omitempty"`
}

// AddonDTO represents one additional-equipment or accessory catalog entry
type AddonDTO struct {
	ID          uint            `json:"id"`
	Name        string          `json:"name"`
	PricePerDay decimal.Decimal `json:"price_per_day"`
}
