package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// RiderKind tags one optional surcharge variant on a quote line
type RiderKind string

const (
	RiderFuel                RiderKind = "fuel"
	RiderMaintenance         RiderKind = "maintenance"
	RiderInstallation        RiderKind = "installation"
	RiderDisassembly         RiderKind = "disassembly"
	RiderTravelService       RiderKind = "travel_service"
	RiderServiceItems        RiderKind = "service_items"
	RiderAdditionalEquipment RiderKind = "additional_equipment"
	RiderAccessories         RiderKind = "accessories"
)

// String returns the string representation of the rider kind
func (k RiderKind) String() string { return string(k) }

// Valid checks if the rider kind is valid
func (k RiderKind) Valid() bool {
	switch k {
	case RiderFuel, RiderMaintenance, RiderInstallation, RiderDisassembly,
		RiderTravelService, RiderServiceItems, RiderAdditionalEquipment,
		RiderAccessories:
		return true
	default:
		return false
	}
}

// FuelMode selects how fuel cost is computed for a line. The mode is a flag
// on the line, not a property of the equipment.
type FuelMode string

const (
	FuelModeMotohour FuelMode = "motohour"
	FuelModeDistance FuelMode = "distance"
)

// FuelParams holds the inputs for the fuel rider.
// Motohour mode: consumption (l/h) x hours per day x rental days x price per liter.
// Distance mode: km per day x rental days / 100 x consumption per 100 km x price per liter.
type FuelParams struct {
	Mode                FuelMode         `json:"mode"`
	ConsumptionPerHour  *decimal.Decimal `json:"consumption_per_hour,omitempty"`
	HoursPerDay         *decimal.Decimal `json:"hours_per_day,omitempty"`
	KilometersPerDay    *decimal.Decimal `json:"kilometers_per_day,omitempty"`
	ConsumptionPer100Km *decimal.Decimal `json:"consumption_per_100km,omitempty"`
	PricePerLiter       *decimal.Decimal `json:"price_per_liter,omitempty"`
}

// MaintenanceParams holds the inputs for the maintenance rider.
type MaintenanceParams struct {
	CostPerDay *decimal.Decimal `json:"cost_per_day,omitempty"`
}

// TravelParams holds the inputs shared by the installation, disassembly and
// travel-service riders: distance x travel rate + technicians x service rate.
// Trips only applies to the travel-service role and defaults to 1.
type TravelParams struct {
	DistanceKm        *decimal.Decimal `json:"distance_km,omitempty"`
	RatePerKm         *decimal.Decimal `json:"rate_per_km,omitempty"`
	TechnicianCount   *int             `json:"technician_count,omitempty"`
	RatePerTechnician *decimal.Decimal `json:"rate_per_technician,omitempty"`
	Trips             *int             `json:"trips,omitempty"`
}

// ServiceItemCharge is one named, admin-defined cost entry on a line.
// The engine only sums the values it is given; label-to-slot resolution
// happens in the catalog, outside the engine.
type ServiceItemCharge struct {
	Slot     int             `json:"slot"`
	Name     string          `json:"name,omitempty"`
	Cost     decimal.Decimal `json:"cost"`
	Included bool            `json:"included"`
}

// AddonSelection is one selected additional-equipment or accessory entry,
// stored with the line as an explicit list.
type AddonSelection struct {
	AddonID     uint            `json:"addon_id"`
	Name        string          `json:"name,omitempty"`
	PricePerDay decimal.Decimal `json:"price_per_day"`
}

// CostRiderSpec is a tagged variant describing one enabled surcharge on a
// quote line. Exactly the parameter group matching Kind is set; presence of
// the spec in a line's rider list means the rider is enabled.
type CostRiderSpec struct {
	Kind RiderKind `json:"kind"`

	Fuel         *FuelParams         `json:"fuel,omitempty"`
	Maintenance  *MaintenanceParams  `json:"maintenance,omitempty"`
	Travel       *TravelParams       `json:"travel,omitempty"`
	ServiceItems []ServiceItemCharge `json:"service_items,omitempty"`
	Addons       []AddonSelection    `json:"addons,omitempty"`
}

// RiderSpecList is the JSONB column holding a line's enabled riders
type RiderSpecList []CostRiderSpec

// Value implements the driver.Valuer interface for RiderSpecList
func (l RiderSpecList) Value() (driver.Value, error) {
	return json.Marshal(l)
}

// Scan implements the sql.Scanner interface for RiderSpecList
func (l *RiderSpecList) Scan(value any) error {
	if value == nil {
		*l = nil
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into RiderSpecList", value)
	}

	return json.Unmarshal(bytes, l)
}

// RiderCharge is one computed rider contribution in a line's breakdown
type RiderCharge struct {
	Kind   RiderKind       `json:"kind"`
	Amount decimal.Decimal `json:"amount"`
}

// RiderBreakdown is the JSONB column holding a line's computed contributions,
// exposed so the rendering layer can print the full cost composition.
type RiderBreakdown []RiderCharge

// Value implements the driver.Valuer interface for RiderBreakdown
func (b RiderBreakdown) Value() (driver.Value, error) {
	return json.Marshal(b)
}

// Scan implements the sql.Scanner interface for RiderBreakdown
func (b *RiderBreakdown) Scan(value any) error {
	if value == nil {
		*b = nil
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into RiderBreakdown", value)
	}

	return json.Unmarshal(bytes, b)
}

// Total sums all charges in the breakdown
func (b RiderBreakdown) Total() decimal.Decimal {
	total := decimal.Zero
	for _, c := range b {
		total = total.Add(c.Amount)
	}
	return total
}
