package dto

import (
	"time"

	"github.com/rentalworks/quoting/models"
	"github.com/shopspring/decimal"
)

// QuoteLineRequest represents one equipment line in a quote request
type QuoteLineRequest struct {
	EquipmentID uint                 `json:"equipment_id" validate:"required"`
	Quantity    int                  `json:"quantity" validate:"required,min=1"`
	RentalDays  int                  `json:"rental_days" validate:"required,min=1"`
	Riders      models.RiderSpecList `json:"riders,omitempty"`
}

// CreateQuoteRequest represents the request to create a new quote
type CreateQuoteRequest struct {
	Domain     string             `json:"domain" validate:"required,oneof=general electrical transport public"`
	ClientUUID string             `json:"client_uuid" validate:"required,uuid"`
	Lines      []QuoteLineRequest `json:"lines" validate:"required,min=1,dive"`
	VATRate    *decimal.Decimal   `json:"vat_rate,omitempty"`
}

// QuoteLineDTO represents one priced line in quote responses
type QuoteLineDTO struct {
	ID              uint                  `json:"id,omitempty"`
	EquipmentID     uint                  `json:"equipment_id"`
	EquipmentName   string                `json:"equipment_name,omitempty"`
	Quantity        int                   `json:"quantity"`
	RentalDays      int                   `json:"rental_days"`
	PricePerDay     decimal.Decimal       `json:"price_per_day"`
	DiscountPercent decimal.Decimal       `json:"discount_percent"`
	Breakdown       models.RiderBreakdown `json:"breakdown,omitempty"`
	TotalPrice      decimal.Decimal       `json:"total_price"`
	Position        int                   `json:"position"`
}

// QuoteDTO represents a quote in responses
type QuoteDTO struct {
	UUID        string          `json:"uuid"`
	Domain      string          `json:"domain"`
	QuoteNumber string          `json:"quote_number"`
	ClientUUID  string          `json:"client_uuid,omitempty"`
	ClientName  string          `json:"client_name,omitempty"`
	Lines       []QuoteLineDTO  `json:"lines"`
	TotalNet    decimal.Decimal `json:"total_net"`
	VATRate     decimal.Decimal `json:"vat_rate"`
	TotalGross  decimal.Decimal `json:"total_gross"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
}

// CreateQuoteResponse represents the response to create a new quote
type CreateQuoteResponse struct {
	Message string   `json:"message"`
	Quote   QuoteDTO `json:"quote"`
}

// PriceQuoteRequest represents the request to price a quote without persisting it
type PriceQuoteRequest struct {
	Domain  string             `json:"domain" validate:"required,oneof=general electrical transport public"`
	Lines   []QuoteLineRequest `json:"lines" validate:"required,min=1,dive"`
	VATRate *decimal.Decimal   `json:"vat_rate,omitempty"`
}

// PriceQuoteResponse represents a pricing preview: no number, no persistence
type PriceQuoteResponse struct {
	Message    string          `json:"message"`
	Lines      []QuoteLineDTO  `json:"lines"`
	TotalNet   decimal.Decimal `json:"total_net"`
	VATRate    decimal.Decimal `json:"vat_rate"`
	TotalGross decimal.Decimal `json:"total_gross"`
}

// UpdateQuoteLineRequest represents the request to replace one line of a quote
type UpdateQuoteLineRequest struct {
	QuoteUUID string           `json:"-"`
	LineID    uint             `json:"-"`
	Line      QuoteLineRequest `json:"line" validate:"required"`
}

// UpdateQuoteLineResponse represents the response to a line update
type UpdateQuoteLineResponse struct {
	Message string   `json:"message"`
	Quote   QuoteDTO `json:"quote"`
}

// UpdateQuoteStatusRequest represents the request to change a quote's status
type UpdateQuoteStatusRequest struct {
	QuoteUUID string `json:"-"`
	Status    string `json:"status" validate:"required,oneof=draft sent accepted rejected"`
}

// UpdateQuoteStatusResponse represents the response to a status change
type UpdateQuoteStatusResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}

// GetQuoteRequest represents the request to fetch one quote
type GetQuoteRequest struct {
	UUID string `json:"-"`
}

// ListQuotesRequest represents the request to list quotes
type ListQuotesRequest struct {
	Domain        *string    `json:"domain,omitempty" validate:"omitempty,oneof=general electrical transport public"`
	Status        *string    `json:"status,omitempty" validate:"omitempty,oneof=draft sent accepted rejected"`
	ClientUUID    *string    `json:"client_uuid,omitempty" validate:"omitempty,uuid"`
	CreatedAfter  *time.Time `json:"created_after,omitempty"`
	CreatedBefore *time.Time `json:"created_before,omitempty"`
	Page          int        `json:"page" validate:"min=1"`
	PageSize      int        `json:"page_size" validate:"min=1,max=100"`
}

// ListQuotesResponse represents the response to list quotes
type ListQuotesResponse struct {
	Message string     `json:"message"`
	Quotes  []QuoteDTO `json:"quotes"`
	Total   int64      `json:"total"`
	Page    int        `json:"page"`
}

// SubmitClientQuoteRequest represents the anonymous client submission of a quote
type SubmitClientQuoteRequest struct {
	Domain      string             `json:"domain" validate:"required,oneof=general electrical transport public"`
	ClientName  string             `json:"client_name" validate:"required,max=255"`
	ClientEmail string             `json:"client_email" validate:"required,email"`
	ClientPhone *string            `json:"client_phone,omitempty" validate:"omitempty,max=40"`
	Lines       []QuoteLineRequest `json:"lines" validate:"required,min=1,dive"`
	ChallengeID string             `json:"challenge_id" validate:"required"`
	Angle       float64            `json:"angle" validate:"required"`
}

// SubmitClientQuoteResponse represents the response to a client submission
type SubmitClientQuoteResponse struct {
	Message     string `json:"message"`
	QuoteNumber string `json:"quote_number"`
	UUID        string `json:"uuid"`
}

// ExportQuoteRequest represents the request to export a quote breakdown workbook
type ExportQuoteRequest struct {
	UUID string `json:"-"`
}
