package businessflow

import (
	"testing"

	"github.com/rentalworks/quoting/models"
	"github.com/rentalworks/quoting/utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decimalPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func fuelMotohourSpec() models.CostRiderSpec {
	return models.CostRiderSpec{
		Kind: models.RiderFuel,
		Fuel: &models.FuelParams{
			Mode:               models.FuelModeMotohour,
			ConsumptionPerHour: decimalPtr("5"),
			HoursPerDay:        decimalPtr("8"),
			PricePerLiter:      decimalPtr("1.50"),
		},
	}
}

func fuelDistanceSpec() models.CostRiderSpec {
	return models.CostRiderSpec{
		Kind: models.RiderFuel,
		Fuel: &models.FuelParams{
			Mode:                models.FuelModeDistance,
			KilometersPerDay:    decimalPtr("120"),
			ConsumptionPer100Km: decimalPtr("30"),
			PricePerLiter:       decimalPtr("1.50"),
		},
	}
}

func TestRiderCostFuel(t *testing.T) {
	tests := []struct {
		name       string
		spec       models.CostRiderSpec
		rentalDays int
		expected   string
	}{
		{
			// 5 l/h x 8 h/day x 5 days x 1.50
			name:       "motohour mode",
			spec:       fuelMotohourSpec(),
			rentalDays: 5,
			expected:   "300",
		},
		{
			// 120 km/day x 5 days / 100 x 30 l/100km x 1.50
			name:       "distance mode",
			spec:       fuelDistanceSpec(),
			rentalDays: 5,
			expected:   "270",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cost, err := RiderCost(tt.spec, tt.rentalDays, 1)
			require.NoError(t, err)
			assert.True(t, cost.Equal(decimal.RequireFromString(tt.expected)),
				"expected %s, got %s", tt.expected, cost)
		})
	}
}

func TestRiderCostFuelMissingParameters(t *testing.T) {
	tests := []struct {
		name string
		fuel *models.FuelParams
	}{
		{name: "nil params", fuel: nil},
		{name: "unknown mode", fuel: &models.FuelParams{Mode: "solar"}},
		{
			name: "motohour without hours",
			fuel: &models.FuelParams{
				Mode:               models.FuelModeMotohour,
				ConsumptionPerHour: decimalPtr("5"),
				PricePerLiter:      decimalPtr("1.50"),
			},
		},
		{
			name: "distance without consumption",
			fuel: &models.FuelParams{
				Mode:             models.FuelModeDistance,
				KilometersPerDay: decimalPtr("120"),
				PricePerLiter:    decimalPtr("1.50"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := RiderCost(models.CostRiderSpec{Kind: models.RiderFuel, Fuel: tt.fuel}, 5, 1)
			assert.ErrorIs(t, err, ErrInvalidRiderParameters)
		})
	}
}

func TestRiderCostMaintenance(t *testing.T) {
	spec := models.CostRiderSpec{
		Kind:        models.RiderMaintenance,
		Maintenance: &models.MaintenanceParams{CostPerDay: decimalPtr("12.50")},
	}

	cost, err := RiderCost(spec, 5, 1)
	require.NoError(t, err)
	assert.True(t, cost.Equal(decimal.RequireFromString("62.5")), "got %s", cost)
}

func TestRiderCostTravelFamily(t *testing.T) {
	travel := func(trips *int) *models.TravelParams {
		return &models.TravelParams{
			DistanceKm:        decimalPtr("50"),
			RatePerKm:         decimalPtr("1.20"),
			TechnicianCount:   utils.ToPtr(2),
			RatePerTechnician: decimalPtr("80"),
			Trips:             trips,
		}
	}

	tests := []struct {
		name     string
		kind     models.RiderKind
		trips    *int
		expected string
	}{
		// 50 x 1.20 + 2 x 80 = 220
		{name: "installation", kind: models.RiderInstallation, expected: "220"},
		{name: "disassembly", kind: models.RiderDisassembly, expected: "220"},
		{name: "travel service defaults to one trip", kind: models.RiderTravelService, expected: "220"},
		{name: "travel service with three trips", kind: models.RiderTravelService, trips: utils.ToPtr(3), expected: "660"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := models.CostRiderSpec{Kind: tt.kind, Travel: travel(tt.trips)}
			cost, err := RiderCost(spec, 5, 1)
			require.NoError(t, err)
			assert.True(t, cost.Equal(decimal.RequireFromString(tt.expected)),
				"expected %s, got %s", tt.expected, cost)
		})
	}
}

func TestRiderCostTravelWithoutTechnicians(t *testing.T) {
	spec := models.CostRiderSpec{
		Kind: models.RiderInstallation,
		Travel: &models.TravelParams{
			DistanceKm: decimalPtr("50"),
			RatePerKm:  decimalPtr("1.20"),
		},
	}

	cost, err := RiderCost(spec, 5, 1)
	require.NoError(t, err)
	assert.True(t, cost.Equal(decimal.RequireFromString("60")), "got %s", cost)
}

func TestRiderCostServiceItems(t *testing.T) {
	spec := models.CostRiderSpec{
		Kind: models.RiderServiceItems,
		ServiceItems: []models.ServiceItemCharge{
			{Slot: 0, Name: "Transport to site", Cost: decimal.RequireFromString("100"), Included: true},
			{Slot: 1, Name: "Operator training", Cost: decimal.RequireFromString("70"), Included: false},
			{Slot: 2, Name: "Cleaning", Cost: decimal.RequireFromString("50"), Included: true},
		},
	}

	cost, err := RiderCost(spec, 5, 1)
	require.NoError(t, err)
	assert.True(t, cost.Equal(decimal.RequireFromString("150")), "got %s", cost)
}

func TestRiderCostServiceItemsSlotLimit(t *testing.T) {
	items := make([]models.ServiceItemCharge, utils.MaxServiceItemSlots+1)
	for i := range items {
		items[i] = models.ServiceItemCharge{Slot: i, Cost: decimal.RequireFromString("10"), Included: true}
	}

	_, err := RiderCost(models.CostRiderSpec{Kind: models.RiderServiceItems, ServiceItems: items}, 5, 1)
	assert.ErrorIs(t, err, ErrInvalidRiderParameters)
}

func TestRiderCostAddons(t *testing.T) {
	spec := models.CostRiderSpec{
		Kind: models.RiderAdditionalEquipment,
		Addons: []models.AddonSelection{
			{AddonID: 1, Name: "Hydraulic Hammer", PricePerDay: decimal.RequireFromString("25")},
			{AddonID: 2, Name: "Narrow Bucket", PricePerDay: decimal.RequireFromString("10")},
		},
	}

	// (25 + 10) x quantity 2
	cost, err := RiderCost(spec, 5, 2)
	require.NoError(t, err)
	assert.True(t, cost.Equal(decimal.RequireFromString("70")), "got %s", cost)
}

func TestValidateRiderSpecUnknownKind(t *testing.T) {
	err := ValidateRiderSpec(models.CostRiderSpec{Kind: "insurance"})
	assert.ErrorIs(t, err, ErrInvalidRiderParameters)
}

func TestValidateRiderSpecEmptyAddons(t *testing.T) {
	err := ValidateRiderSpec(models.CostRiderSpec{Kind: models.RiderAccessories})
	assert.ErrorIs(t, err, ErrInvalidRiderParameters)
}
