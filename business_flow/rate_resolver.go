package businessflow

import (
	"sort"

	"github.com/rentalworks/quoting/models"
	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// ResolvedRate is the outcome of matching a rental duration against an
// equipment's tier table.
type ResolvedRate struct {
	Tier            *models.PricingTier
	PricePerDay     decimal.Decimal
	DiscountPercent decimal.Decimal
}

// ResolveRate selects the tier whose period covers rentalDays and returns its
// already-discounted daily rate. Longer periods never resolve to a higher
// effective rate because the editing workflow keeps tier prices monotonic;
// the resolver only matches, it does not re-derive prices. A table without a
// zero-discount base tier at day one is rejected rather than worked around:
// such rows can only come from bad data, and silently pricing against them
// would hide the corruption.
func ResolveRate(tiers []models.PricingTier, rentalDays int) (*ResolvedRate, error) {
	if rentalDays < 1 {
		return nil, ErrInvalidRentalDays
	}
	if len(tiers) == 0 {
		return nil, ErrNoPricingAvailable
	}

	var base *models.PricingTier
	for i := range tiers {
		if tiers[i].PeriodStart == 1 {
			base = &tiers[i]
			break
		}
	}
	if base == nil || !base.DiscountPercent.IsZero() {
		return nil, ErrInconsistentTierConfiguration
	}

	var matched *models.PricingTier
	for i := range tiers {
		t := &tiers[i]
		if !t.Covers(rentalDays) {
			continue
		}
		if matched != nil {
			return nil, ErrInconsistentTierConfiguration
		}
		matched = t
	}
	if matched == nil {
		return nil, ErrNoPricingAvailable
	}

	return &ResolvedRate{
		Tier:            matched,
		PricePerDay:     matched.PricePerDay,
		DiscountPercent: matched.DiscountPercent,
	}, nil
}

// DiscountFromPrice derives the discount percent implied by an effective
// daily price against the base rate. Prices above the base rate clamp to 0
// rather than going negative.
func DiscountFromPrice(basePricePerDay, pricePerDay decimal.Decimal) (decimal.Decimal, error) {
	if basePricePerDay.IsZero() {
		return decimal.Zero, ErrBaseTierMissing
	}
	if pricePerDay.IsNegative() {
		return decimal.Zero, ErrPriceNegative
	}
	d := basePricePerDay.Sub(pricePerDay).Div(basePricePerDay).Mul(oneHundred)
	if d.IsNegative() {
		return decimal.Zero, nil
	}
	return d, nil
}

// PriceFromDiscount derives the effective daily price implied by a discount
// percent against the base rate.
func PriceFromDiscount(basePricePerDay, discountPercent decimal.Decimal) (decimal.Decimal, error) {
	if discountPercent.IsNegative() || discountPercent.GreaterThan(oneHundred) {
		return decimal.Zero, ErrDiscountOutOfRange
	}
	return basePricePerDay.Mul(oneHundred.Sub(discountPercent)).Div(oneHundred), nil
}

// ValidateTierSet checks a full tier table for one equipment: a base tier at
// day one with zero discount, well-formed periods, no overlaps, and at most
// one unbounded band. Used by the tier editing flow before persisting.
func ValidateTierSet(tiers []models.PricingTier) error {
	if len(tiers) == 0 {
		return ErrBaseTierMissing
	}

	sorted := make([]models.PricingTier, len(tiers))
	copy(sorted, tiers)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].PeriodStart < sorted[j].PeriodStart
	})

	if sorted[0].PeriodStart != 1 {
		return ErrBaseTierMissing
	}
	if !sorted[0].DiscountPercent.IsZero() {
		return ErrBaseTierNotEditable
	}

	for i := range sorted {
		t := &sorted[i]
		if t.PeriodStart < 1 {
			return ErrTierPeriodInvalid
		}
		if t.PeriodEnd != nil && *t.PeriodEnd < t.PeriodStart {
			return ErrTierPeriodInvalid
		}
		if t.PricePerDay.IsNegative() {
			return ErrPriceNegative
		}
		if t.DiscountPercent.IsNegative() || t.DiscountPercent.GreaterThan(oneHundred) {
			return ErrDiscountOutOfRange
		}
		if i == 0 {
			continue
		}
		prev := &sorted[i-1]
		if prev.PeriodEnd == nil || t.PeriodStart <= *prev.PeriodEnd {
			return ErrTierOverlap
		}
	}

	return nil
}
