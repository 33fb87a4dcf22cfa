// Package businessflow contains the core business logic and use cases for tier administration
package businessflow

import (
	"context"

	"github.com/rentalworks/quoting/app/dto"
	"github.com/rentalworks/quoting/models"
	"github.com/rentalworks/quoting/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TierAdminFlow handles editing of equipment pricing tier tables
type TierAdminFlow interface {
	ReplaceTiers(ctx context.Context, req *dto.ReplaceTiersRequest, metadata *ClientMetadata) (*dto.ReplaceTiersResponse, error)
	ListTiers(ctx context.Context, equipmentUUID string) (*dto.ReplaceTiersResponse, error)
}

// TierAdminFlowImpl implements the tier administration flow
type TierAdminFlowImpl struct {
	equipmentRepo repository.EquipmentRepository
	tierRepo      repository.PricingTierRepository
	db            *gorm.DB
}

// NewTierAdminFlow creates a new tier administration flow instance
func NewTierAdminFlow(
	equipmentRepo repository.EquipmentRepository,
	tierRepo repository.PricingTierRepository,
	db *gorm.DB,
) TierAdminFlow {
	return &TierAdminFlowImpl{
		equipmentRepo: equipmentRepo,
		tierRepo:      tierRepo,
		db:            db,
	}
}

// ReplaceTiers swaps an equipment's complete tier table. Editors may supply
// either the effective daily price or the discount percent per tier; the
// missing side is derived from the base tier's price so the two stay
// consistent. The base tier itself is pinned to zero discount.
func (s *TierAdminFlowImpl) ReplaceTiers(ctx context.Context, req *dto.ReplaceTiersRequest, metadata *ClientMetadata) (*dto.ReplaceTiersResponse, error) {
	equipment, err := s.equipmentRepo.ByUUID(ctx, req.EquipmentUUID)
	if err != nil {
		return nil, NewBusinessError("EQUIPMENT_LOOKUP_FAILED", "Failed to lookup equipment", err)
	}
	if equipment == nil {
		return nil, NewBusinessError("EQUIPMENT_NOT_FOUND", "Equipment not found", ErrEquipmentNotFound)
	}

	tiers, err := buildTierSet(req.Tiers)
	if err != nil {
		return nil, NewBusinessError("TIER_VALIDATION_FAILED", "Tier validation failed", err)
	}

	if err := ValidateTierSet(derefTiers(tiers)); err != nil {
		return nil, NewBusinessError("TIER_VALIDATION_FAILED", "Tier validation failed", err)
	}

	err = repository.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		return s.tierRepo.ReplaceForEquipment(txCtx, equipment.ID, tiers)
	})
	if err != nil {
		return nil, NewBusinessError("TIER_UPDATE_FAILED", "Tier update failed", err)
	}

	return &dto.ReplaceTiersResponse{
		Message: "Pricing tiers updated successfully",
		Tiers:   toTierDTOs(tiers),
	}, nil
}

// ListTiers returns an equipment's current tier table
func (s *TierAdminFlowImpl) ListTiers(ctx context.Context, equipmentUUID string) (*dto.ReplaceTiersResponse, error) {
	equipment, err := s.equipmentRepo.ByUUID(ctx, equipmentUUID)
	if err != nil {
		return nil, NewBusinessError("EQUIPMENT_LOOKUP_FAILED", "Failed to lookup equipment", err)
	}
	if equipment == nil {
		return nil, NewBusinessError("EQUIPMENT_NOT_FOUND", "Equipment not found", ErrEquipmentNotFound)
	}

	tiers, err := s.tierRepo.ByEquipmentID(ctx, equipment.ID)
	if err != nil {
		return nil, NewBusinessError("TIER_LOOKUP_FAILED", "Failed to load pricing tiers", err)
	}

	return &dto.ReplaceTiersResponse{
		Message: "Pricing tiers listed successfully",
		Tiers:   toTierDTOs(tiers),
	}, nil
}

// buildTierSet converts the request tiers into models, deriving the missing
// half of the price/discount pair from the base tier price.
func buildTierSet(reqs []dto.PricingTierDTO) ([]*models.PricingTier, error) {
	var base *dto.PricingTierDTO
	for i := range reqs {
		if reqs[i].PeriodStart == 1 {
			base = &reqs[i]
			break
		}
	}
	if base == nil || base.PricePerDay == nil {
		return nil, ErrBaseTierMissing
	}
	if base.DiscountPercent != nil && !base.DiscountPercent.IsZero() {
		return nil, ErrBaseTierNotEditable
	}
	basePrice := *base.PricePerDay

	tiers := make([]*models.PricingTier, 0, len(reqs))
	for _, req := range reqs {
		tier := &models.PricingTier{
			PeriodStart: req.PeriodStart,
			PeriodEnd:   req.PeriodEnd,
		}

		switch {
		case req.PricePerDay != nil:
			tier.PricePerDay = *req.PricePerDay
			discount, err := DiscountFromPrice(basePrice, *req.PricePerDay)
			if err != nil {
				return nil, err
			}
			tier.DiscountPercent = discount
		case req.DiscountPercent != nil:
			price, err := PriceFromDiscount(basePrice, *req.DiscountPercent)
			if err != nil {
				return nil, err
			}
			tier.PricePerDay = price
			tier.DiscountPercent = *req.DiscountPercent
		default:
			return nil, ErrTierPeriodInvalid
		}

		if tier.IsBase() {
			tier.DiscountPercent = decimal.Zero // pinned
		}

		tiers = append(tiers, tier)
	}

	return tiers, nil
}

func derefTiers(tiers []*models.PricingTier) []models.PricingTier {
	out := make([]models.PricingTier, 0, len(tiers))
	for _, t := range tiers {
		out = append(out, *t)
	}
	return out
}

func toTierDTOs(tiers []*models.PricingTier) []dto.PricingTierDTO {
	out := make([]dto.PricingTierDTO, 0, len(tiers))
	for _, t := range tiers {
		out = append(out, ToPricingTierDTO(*t))
	}
	return out
}
