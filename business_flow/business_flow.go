// Package businessflow contains the business logic for the application.
package businessflow

import (
	"github.com/rentalworks/quoting/app/dto"
	"github.com/rentalworks/quoting/models"
)

const RequestIDKey = "X-Request-ID"

// ClientMetadata holds request-side information for audit trails
type ClientMetadata struct {
	IPAddress string `json:"ip_address"`
	UserAgent string `json:"user_agent"`
	RequestID string `json:"request_id,omitempty"`
}

// NewClientMetadata creates a new ClientMetadata instance with basic information
func NewClientMetadata(ipAddress, userAgent string) *ClientMetadata {
	return &ClientMetadata{
		IPAddress: ipAddress,
		UserAgent: userAgent,
	}
}

// SetRequestID sets the request ID
func (cm *ClientMetadata) SetRequestID(requestID string) {
	cm.RequestID = requestID
}

// ToQuoteLineDTO converts a line item model to its response DTO
func ToQuoteLineDTO(line models.QuoteLineItem) dto.QuoteLineDTO {
	out := dto.QuoteLineDTO{
		ID:              line.ID,
		EquipmentID:     line.EquipmentID,
		Quantity:        line.Quantity,
		RentalDays:      line.RentalDays,
		PricePerDay:     line.PricePerDay,
		DiscountPercent: line.DiscountPercent,
		Breakdown:       line.Breakdown,
		TotalPrice:      line.TotalPrice,
		Position:        line.Position,
	}
	if line.Equipment != nil {
		out.EquipmentName = line.Equipment.Name
	}
	return out
}

// ToQuoteDTO converts a quote model to its response DTO
func ToQuoteDTO(quote models.Quote) dto.QuoteDTO {
	lines := make([]dto.QuoteLineDTO, 0, len(quote.LineItems))
	for _, line := range quote.LineItems {
		lines = append(lines, ToQuoteLineDTO(line))
	}

	out := dto.QuoteDTO{
		UUID:        quote.UUID.String(),
		Domain:      quote.Domain,
		QuoteNumber: quote.QuoteNumber,
		Lines:       lines,
		TotalNet:    quote.TotalNet,
		VATRate:     quote.VATRate,
		TotalGross:  quote.TotalGross,
		Status:      string(quote.Status),
		CreatedAt:   quote.CreatedAt,
	}
	if quote.Client != nil {
		out.ClientUUID = quote.Client.UUID.String()
		out.ClientName = quote.Client.Name
	}
	return out
}

// ToPricingTierDTO converts a tier model to its response DTO
func ToPricingTierDTO(tier models.PricingTier) dto.PricingTierDTO {
	price := tier.PricePerDay
	discount := tier.DiscountPercent
	return dto.PricingTierDTO{
		PeriodStart:     tier.PeriodStart,
		PeriodEnd:       tier.PeriodEnd,
		PricePerDay:     &price,
		DiscountPercent: &discount,
	}
}
