package businessflow

import (
	"testing"

	"github.com/rentalworks/quoting/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateLineRateOnly(t *testing.T) {
	domain, err := DomainByCode(DomainGeneral)
	require.NoError(t, err)

	// 85.71 x 2 units x 5 days
	pricing, err := AggregateLine(domain, twoBandTiers(), nil, 2, 5)
	require.NoError(t, err)

	assert.True(t, pricing.PricePerDay.Equal(mustDecimal("85.71")))
	assert.True(t, pricing.DiscountPercent.Equal(mustDecimal("14.29")))
	assert.True(t, pricing.Total.Equal(mustDecimal("857.10")), "got %s", pricing.Total)
	assert.Empty(t, pricing.Breakdown)
}

func TestAggregateLineWithRiders(t *testing.T) {
	domain, err := DomainByCode(DomainGeneral)
	require.NoError(t, err)

	riders := models.RiderSpecList{
		{
			Kind:        models.RiderMaintenance,
			Maintenance: &models.MaintenanceParams{CostPerDay: decimalPtr("12.50")},
		},
		fuelMotohourSpec(),
	}

	pricing, err := AggregateLine(domain, twoBandTiers(), riders, 2, 5)
	require.NoError(t, err)

	// 857.10 rate + 62.50 maintenance + 300 fuel
	assert.True(t, pricing.Total.Equal(mustDecimal("1219.60")), "got %s", pricing.Total)

	require.Len(t, pricing.Breakdown, 2)
	assert.Equal(t, models.RiderMaintenance, pricing.Breakdown[0].Kind)
	assert.True(t, pricing.Breakdown[0].Amount.Equal(mustDecimal("62.50")))
	assert.Equal(t, models.RiderFuel, pricing.Breakdown[1].Kind)
	assert.True(t, pricing.Breakdown[1].Amount.Equal(mustDecimal("300")))
}

func TestAggregateLineRiderOutsideDomainMenu(t *testing.T) {
	domain, err := DomainByCode(DomainTransport)
	require.NoError(t, err)

	riders := models.RiderSpecList{
		{
			Kind:        models.RiderMaintenance,
			Maintenance: &models.MaintenanceParams{CostPerDay: decimalPtr("12.50")},
		},
	}

	_, err = AggregateLine(domain, twoBandTiers(), riders, 1, 5)
	assert.ErrorIs(t, err, ErrRiderNotAllowedForDomain)
}

func TestAggregateLineInvalidQuantity(t *testing.T) {
	domain, err := DomainByCode(DomainGeneral)
	require.NoError(t, err)

	_, err = AggregateLine(domain, twoBandTiers(), nil, 0, 5)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestAggregateLinePropagatesRateErrors(t *testing.T) {
	domain, err := DomainByCode(DomainGeneral)
	require.NoError(t, err)

	_, err = AggregateLine(domain, twoBandTiers(), nil, 1, 8)
	assert.ErrorIs(t, err, ErrNoPricingAvailable)
}

func TestComputeTotals(t *testing.T) {
	tests := []struct {
		name          string
		lineTotals    []string
		vatRate       string
		expectedNet   string
		expectedGross string
	}{
		{
			name:          "single line at default vat",
			lineTotals:    []string{"857.10"},
			vatRate:       "23",
			expectedNet:   "857.10",
			expectedGross: "1054.23",
		},
		{
			name:          "multiple lines",
			lineTotals:    []string{"857.10", "62.50"},
			vatRate:       "23",
			expectedNet:   "919.60",
			expectedGross: "1131.11",
		},
		{
			name:          "no lines",
			lineTotals:    nil,
			vatRate:       "23",
			expectedNet:   "0",
			expectedGross: "0",
		},
		{
			name:          "zero vat",
			lineTotals:    []string{"100.005"},
			vatRate:       "0",
			expectedNet:   "100.01",
			expectedGross: "100.01",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lineTotals := make([]decimal.Decimal, 0, len(tt.lineTotals))
			for _, s := range tt.lineTotals {
				lineTotals = append(lineTotals, mustDecimal(s))
			}

			totals := ComputeTotals(lineTotals, mustDecimal(tt.vatRate))

			assert.True(t, totals.TotalNet.Equal(mustDecimal(tt.expectedNet)),
				"net: expected %s, got %s", tt.expectedNet, totals.TotalNet)
			assert.True(t, totals.TotalGross.Equal(mustDecimal(tt.expectedGross)),
				"gross: expected %s, got %s", tt.expectedGross, totals.TotalGross)
			assert.True(t, totals.VATRate.Equal(mustDecimal(tt.vatRate)))
		})
	}
}

func TestRoundCurrency(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{in: "1.005", expected: "1.01"},
		{in: "1.004", expected: "1.00"},
		{in: "857.1", expected: "857.10"},
		{in: "-1.005", expected: "-1.01"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.True(t, RoundCurrency(mustDecimal(tt.in)).Equal(mustDecimal(tt.expected)),
				"got %s", RoundCurrency(mustDecimal(tt.in)))
		})
	}
}
