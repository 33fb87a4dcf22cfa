package businessflow

import (
	"github.com/rentalworks/quoting/models"
	"github.com/rentalworks/quoting/utils"
	"github.com/shopspring/decimal"
)

// LinePricing is the outcome of pricing a single quote line: the resolved
// rate, the per-rider contributions, and the line total.
type LinePricing struct {
	PricePerDay     decimal.Decimal
	DiscountPercent decimal.Decimal
	Breakdown       models.RiderBreakdown
	Total           decimal.Decimal
}

// AggregateLine prices one line: resolve the tier rate for the rental
// duration, compute every enabled rider, and sum. Riders are added after the
// rate term and never discounted. Intermediate math keeps full precision;
// rounding happens once at the edges via RoundCurrency.
func AggregateLine(domain DomainDescriptor, tiers []models.PricingTier, riders models.RiderSpecList, quantity, rentalDays int) (*LinePricing, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	rate, err := ResolveRate(tiers, rentalDays)
	if err != nil {
		return nil, err
	}

	total := rate.PricePerDay.
		Mul(decimal.NewFromInt(int64(quantity))).
		Mul(decimal.NewFromInt(int64(rentalDays)))

	breakdown := make(models.RiderBreakdown, 0, len(riders))
	for _, spec := range riders {
		if !domain.AllowsRider(spec.Kind) {
			return nil, ErrRiderNotAllowedForDomain
		}
		amount, err := RiderCost(spec, rentalDays, quantity)
		if err != nil {
			return nil, err
		}
		breakdown = append(breakdown, models.RiderCharge{Kind: spec.Kind, Amount: amount})
		total = total.Add(amount)
	}

	return &LinePricing{
		PricePerDay:     rate.PricePerDay,
		DiscountPercent: rate.DiscountPercent,
		Breakdown:       breakdown,
		Total:           total,
	}, nil
}

// QuoteTotals carries the recomputed monetary summary of a quote.
type QuoteTotals struct {
	TotalNet   decimal.Decimal
	VATRate    decimal.Decimal
	TotalGross decimal.Decimal
}

// ComputeTotals recomputes a quote's totals from its line totals. Always a
// full recompute, never an incremental adjustment, so totals cannot drift
// from the lines after edits.
func ComputeTotals(lineTotals []decimal.Decimal, vatRate decimal.Decimal) QuoteTotals {
	net := decimal.Zero
	for _, t := range lineTotals {
		net = net.Add(t)
	}
	gross := net.Mul(oneHundred.Add(vatRate)).Div(oneHundred)
	return QuoteTotals{
		TotalNet:   RoundCurrency(net),
		VATRate:    vatRate,
		TotalGross: RoundCurrency(gross),
	}
}

// RoundCurrency rounds a monetary amount to the output precision.
func RoundCurrency(d decimal.Decimal) decimal.Decimal {
	return d.Round(utils.CurrencyPrecision)
}

func decimalFromInt(n int) decimal.Decimal {
	return decimal.NewFromInt(int64(n))
}
