package businessflow

import (
	"testing"

	"github.com/rentalworks/quoting/models"
	"github.com/rentalworks/quoting/utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDecimal(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// twoBandTiers is the canonical test tier table: days 1-2 at the base rate,
// days 3 and up at the discounted rate.
func twoBandTiers() []models.PricingTier {
	return []models.PricingTier{
		{
			PeriodStart:     1,
			PeriodEnd:       utils.ToPtr(2),
			PricePerDay:     mustDecimal("100.00"),
			DiscountPercent: decimal.Zero,
		},
		{
			PeriodStart:     3,
			PeriodEnd:       utils.ToPtr(7),
			PricePerDay:     mustDecimal("85.71"),
			DiscountPercent: mustDecimal("14.29"),
		},
	}
}

func TestResolveRate(t *testing.T) {
	tests := []struct {
		name          string
		tiers         []models.PricingTier
		rentalDays    int
		expectedPrice string
		expectedErr   error
	}{
		{
			name:          "day inside base band",
			tiers:         twoBandTiers(),
			rentalDays:    2,
			expectedPrice: "100.00",
		},
		{
			name:          "day inside discounted band",
			tiers:         twoBandTiers(),
			rentalDays:    5,
			expectedPrice: "85.71",
		},
		{
			name:          "band boundary start",
			tiers:         twoBandTiers(),
			rentalDays:    3,
			expectedPrice: "85.71",
		},
		{
			name:        "no band covers the duration",
			tiers:       twoBandTiers(),
			rentalDays:  8,
			expectedErr: ErrNoPricingAvailable,
		},
		{
			name:        "zero rental days",
			tiers:       twoBandTiers(),
			rentalDays:  0,
			expectedErr: ErrInvalidRentalDays,
		},
		{
			name:        "empty tier table",
			tiers:       nil,
			rentalDays:  1,
			expectedErr: ErrNoPricingAvailable,
		},
		{
			name: "missing base band is rejected at resolve time",
			tiers: []models.PricingTier{
				{PeriodStart: 3, PeriodEnd: utils.ToPtr(7), PricePerDay: mustDecimal("85.71"), DiscountPercent: mustDecimal("14.29")},
			},
			rentalDays:  5,
			expectedErr: ErrInconsistentTierConfiguration,
		},
		{
			name: "base band with nonzero discount is rejected at resolve time",
			tiers: []models.PricingTier{
				{PeriodStart: 1, PricePerDay: mustDecimal("90.00"), DiscountPercent: mustDecimal("10")},
			},
			rentalDays:  5,
			expectedErr: ErrInconsistentTierConfiguration,
		},
		{
			name: "overlapping bands are rejected at resolve time",
			tiers: []models.PricingTier{
				{PeriodStart: 1, PeriodEnd: utils.ToPtr(5), PricePerDay: mustDecimal("100.00")},
				{PeriodStart: 3, PricePerDay: mustDecimal("90.00")},
			},
			rentalDays:  4,
			expectedErr: ErrInconsistentTierConfiguration,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rate, err := ResolveRate(tt.tiers, tt.rentalDays)

			if tt.expectedErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Nil(t, rate)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, rate)
			assert.True(t, rate.PricePerDay.Equal(mustDecimal(tt.expectedPrice)),
				"expected %s, got %s", tt.expectedPrice, rate.PricePerDay)
		})
	}
}

func TestResolveRateUnboundedBand(t *testing.T) {
	tiers := []models.PricingTier{
		{PeriodStart: 1, PeriodEnd: utils.ToPtr(2), PricePerDay: mustDecimal("100.00")},
		{PeriodStart: 3, PricePerDay: mustDecimal("80.00"), DiscountPercent: mustDecimal("20")},
	}

	rate, err := ResolveRate(tiers, 365)
	require.NoError(t, err)
	assert.True(t, rate.PricePerDay.Equal(mustDecimal("80.00")))
	assert.True(t, rate.DiscountPercent.Equal(mustDecimal("20")))
}

func TestDiscountFromPrice(t *testing.T) {
	base := mustDecimal("100.00")

	tests := []struct {
		name        string
		price       string
		expected    string
		expectedErr error
	}{
		{name: "standard discount", price: "85.71", expected: "14.29"},
		{name: "full price means zero discount", price: "100.00", expected: "0"},
		{name: "free means full discount", price: "0", expected: "100"},
		{name: "price above base clamps to zero", price: "120.00", expected: "0"},
		{name: "negative price rejected", price: "-1", expectedErr: ErrPriceNegative},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := DiscountFromPrice(base, mustDecimal(tt.price))

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				return
			}

			require.NoError(t, err)
			assert.True(t, d.Equal(mustDecimal(tt.expected)), "expected %s, got %s", tt.expected, d)
		})
	}
}

func TestDiscountFromPriceZeroBase(t *testing.T) {
	_, err := DiscountFromPrice(decimal.Zero, mustDecimal("10"))
	assert.ErrorIs(t, err, ErrBaseTierMissing)
}

func TestPriceFromDiscount(t *testing.T) {
	base := mustDecimal("100.00")

	tests := []struct {
		name        string
		discount    string
		expected    string
		expectedErr error
	}{
		{name: "standard discount", discount: "14.29", expected: "85.71"},
		{name: "zero discount", discount: "0", expected: "100.00"},
		{name: "full discount", discount: "100", expected: "0"},
		{name: "negative discount rejected", discount: "-5", expectedErr: ErrDiscountOutOfRange},
		{name: "over one hundred rejected", discount: "100.01", expectedErr: ErrDiscountOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := PriceFromDiscount(base, mustDecimal(tt.discount))

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				return
			}

			require.NoError(t, err)
			assert.True(t, p.Equal(mustDecimal(tt.expected)), "expected %s, got %s", tt.expected, p)
		})
	}
}

// The two derivations must agree with each other so an editor can flip
// between entering prices and entering discounts without drift.
func TestPriceDiscountRoundTrip(t *testing.T) {
	base := mustDecimal("100.00")

	for _, discount := range []string{"0", "10", "14.29", "50", "99.99", "100"} {
		price, err := PriceFromDiscount(base, mustDecimal(discount))
		require.NoError(t, err)

		back, err := DiscountFromPrice(base, price)
		require.NoError(t, err)

		assert.True(t, back.Equal(mustDecimal(discount)),
			"discount %s round-tripped to %s", discount, back)
	}
}

func TestValidateTierSet(t *testing.T) {
	tests := []struct {
		name        string
		tiers       []models.PricingTier
		expectedErr error
	}{
		{
			name:  "valid two band table",
			tiers: twoBandTiers(),
		},
		{
			name: "valid with unbounded tail",
			tiers: []models.PricingTier{
				{PeriodStart: 1, PeriodEnd: utils.ToPtr(2), PricePerDay: mustDecimal("100.00")},
				{PeriodStart: 3, PricePerDay: mustDecimal("80.00"), DiscountPercent: mustDecimal("20")},
			},
		},
		{
			name:        "empty table",
			tiers:       nil,
			expectedErr: ErrBaseTierMissing,
		},
		{
			name: "missing day one band",
			tiers: []models.PricingTier{
				{PeriodStart: 2, PricePerDay: mustDecimal("100.00")},
			},
			expectedErr: ErrBaseTierMissing,
		},
		{
			name: "base tier with discount",
			tiers: []models.PricingTier{
				{PeriodStart: 1, PeriodEnd: utils.ToPtr(2), PricePerDay: mustDecimal("90.00"), DiscountPercent: mustDecimal("10")},
				{PeriodStart: 3, PricePerDay: mustDecimal("80.00")},
			},
			expectedErr: ErrBaseTierNotEditable,
		},
		{
			name: "period end before start",
			tiers: []models.PricingTier{
				{PeriodStart: 1, PeriodEnd: utils.ToPtr(2), PricePerDay: mustDecimal("100.00")},
				{PeriodStart: 5, PeriodEnd: utils.ToPtr(3), PricePerDay: mustDecimal("80.00")},
			},
			expectedErr: ErrTierPeriodInvalid,
		},
		{
			name: "overlapping bands",
			tiers: []models.PricingTier{
				{PeriodStart: 1, PeriodEnd: utils.ToPtr(5), PricePerDay: mustDecimal("100.00")},
				{PeriodStart: 4, PricePerDay: mustDecimal("80.00"), DiscountPercent: mustDecimal("20")},
			},
			expectedErr: ErrTierOverlap,
		},
		{
			name: "band after unbounded band",
			tiers: []models.PricingTier{
				{PeriodStart: 1, PricePerDay: mustDecimal("100.00")},
				{PeriodStart: 10, PricePerDay: mustDecimal("80.00"), DiscountPercent: mustDecimal("20")},
			},
			expectedErr: ErrTierOverlap,
		},
		{
			name: "negative price",
			tiers: []models.PricingTier{
				{PeriodStart: 1, PricePerDay: mustDecimal("-1")},
			},
			expectedErr: ErrPriceNegative,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTierSet(tt.tiers)

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
