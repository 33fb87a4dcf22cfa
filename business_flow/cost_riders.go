package businessflow

import (
	"github.com/rentalworks/quoting/models"
	"github.com/rentalworks/quoting/utils"
	"github.com/shopspring/decimal"
)

// ValidateRiderSpec checks that a rider spec carries the parameter group its
// kind requires and that every required value is present and non-negative.
// Presence of the spec means the rider is enabled, so missing parameters are
// an error, not a silent zero.
func ValidateRiderSpec(spec models.CostRiderSpec) error {
	if !spec.Kind.Valid() {
		return ErrInvalidRiderParameters
	}

	switch spec.Kind {
	case models.RiderFuel:
		return validateFuel(spec.Fuel)
	case models.RiderMaintenance:
		if spec.Maintenance == nil || !positive(spec.Maintenance.CostPerDay) {
			return ErrInvalidRiderParameters
		}
	case models.RiderInstallation, models.RiderDisassembly, models.RiderTravelService:
		return validateTravel(spec.Kind, spec.Travel)
	case models.RiderServiceItems:
		if len(spec.ServiceItems) == 0 || len(spec.ServiceItems) > utils.MaxServiceItemSlots {
			return ErrInvalidRiderParameters
		}
		for _, item := range spec.ServiceItems {
			if item.Cost.IsNegative() {
				return ErrInvalidRiderParameters
			}
		}
	case models.RiderAdditionalEquipment, models.RiderAccessories:
		if len(spec.Addons) == 0 {
			return ErrInvalidRiderParameters
		}
		for _, a := range spec.Addons {
			if a.PricePerDay.IsNegative() {
				return ErrInvalidRiderParameters
			}
		}
	}

	return nil
}

func validateFuel(p *models.FuelParams) error {
	if p == nil {
		return ErrInvalidRiderParameters
	}
	switch p.Mode {
	case models.FuelModeMotohour:
		if !positive(p.ConsumptionPerHour) || !positive(p.HoursPerDay) || !positive(p.PricePerLiter) {
			return ErrInvalidRiderParameters
		}
	case models.FuelModeDistance:
		if !positive(p.KilometersPerDay) || !positive(p.ConsumptionPer100Km) || !positive(p.PricePerLiter) {
			return ErrInvalidRiderParameters
		}
	default:
		return ErrInvalidRiderParameters
	}
	return nil
}

func validateTravel(kind models.RiderKind, p *models.TravelParams) error {
	if p == nil {
		return ErrInvalidRiderParameters
	}
	if !positive(p.DistanceKm) || !positive(p.RatePerKm) {
		return ErrInvalidRiderParameters
	}
	if p.TechnicianCount != nil {
		if *p.TechnicianCount < 0 {
			return ErrInvalidRiderParameters
		}
		if *p.TechnicianCount > 0 && !positive(p.RatePerTechnician) {
			return ErrInvalidRiderParameters
		}
	}
	if kind == models.RiderTravelService && p.Trips != nil && *p.Trips < 1 {
		return ErrInvalidRiderParameters
	}
	return nil
}

// positive reports a present, non-negative decimal parameter.
func positive(d *decimal.Decimal) bool {
	return d != nil && !d.IsNegative()
}

// RiderCost computes one rider's contribution to a line. Rider amounts are
// never subject to the line's tier discount and never go negative.
func RiderCost(spec models.CostRiderSpec, rentalDays, quantity int) (decimal.Decimal, error) {
	if err := ValidateRiderSpec(spec); err != nil {
		return decimal.Zero, err
	}

	days := decimal.NewFromInt(int64(rentalDays))
	qty := decimal.NewFromInt(int64(quantity))

	switch spec.Kind {
	case models.RiderFuel:
		return fuelCost(spec.Fuel, days), nil
	case models.RiderMaintenance:
		return spec.Maintenance.CostPerDay.Mul(days), nil
	case models.RiderInstallation, models.RiderDisassembly, models.RiderTravelService:
		return travelCost(spec.Kind, spec.Travel), nil
	case models.RiderServiceItems:
		total := decimal.Zero
		for _, item := range spec.ServiceItems {
			if item.Included {
				total = total.Add(item.Cost)
			}
		}
		return total, nil
	case models.RiderAdditionalEquipment, models.RiderAccessories:
		total := decimal.Zero
		for _, a := range spec.Addons {
			total = total.Add(a.PricePerDay.Mul(qty))
		}
		return total, nil
	}

	return decimal.Zero, ErrInvalidRiderParameters
}

func fuelCost(p *models.FuelParams, days decimal.Decimal) decimal.Decimal {
	if p.Mode == models.FuelModeMotohour {
		return p.ConsumptionPerHour.Mul(*p.HoursPerDay).Mul(days).Mul(*p.PricePerLiter)
	}
	return p.KilometersPerDay.Mul(days).
		Div(oneHundred).
		Mul(*p.ConsumptionPer100Km).
		Mul(*p.PricePerLiter)
}

func travelCost(kind models.RiderKind, p *models.TravelParams) decimal.Decimal {
	cost := p.DistanceKm.Mul(*p.RatePerKm)
	if p.TechnicianCount != nil && *p.TechnicianCount > 0 {
		techs := decimal.NewFromInt(int64(*p.TechnicianCount))
		cost = cost.Add(techs.Mul(*p.RatePerTechnician))
	}
	if kind == models.RiderTravelService {
		trips := int64(1)
		if p.Trips != nil {
			trips = int64(*p.Trips)
		}
		cost = cost.Mul(decimal.NewFromInt(trips))
	}
	return cost
}
