package repository

import (
	"context"

	"github.com/rentalworks/quoting/models"
	"gorm.io/gorm"
)

// PricingTierRepositoryImpl implements the PricingTierRepository interface
type PricingTierRepositoryImpl struct {
	*BaseRepository[models.PricingTier, models.PricingTierFilter]
}

// NewPricingTierRepository creates a new pricing tier repository
func NewPricingTierRepository(db *gorm.DB) PricingTierRepository {
	return &PricingTierRepositoryImpl{
		BaseRepository: NewBaseRepository[models.PricingTier, models.PricingTierFilter](db),
	}
}

// ByEquipmentID retrieves the full tier table of one equipment, base tier first
func (r *PricingTierRepositoryImpl) ByEquipmentID(ctx context.Context, equipmentID uint) ([]*models.PricingTier, error) {
	filter := models.PricingTierFilter{EquipmentID: &equipmentID}
	return r.ByFilter(ctx, filter, "period_start ASC", 0, 0)
}

// ReplaceForEquipment swaps the complete tier table of one equipment. The
// table is validated as a whole before it gets here, so partial writes are
// never acceptable; the delete and inserts share one transaction.
func (r *PricingTierRepositoryImpl) ReplaceForEquipment(ctx context.Context, equipmentID uint, tiers []*models.PricingTier) error {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return err
	}

	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}

	err = db.Where("equipment_id = ?", equipmentID).Delete(&models.PricingTier{}).Error
	if err != nil {
		return err
	}

	for _, tier := range tiers {
		tier.EquipmentID = equipmentID
	}

	if len(tiers) > 0 {
		err = db.Create(&tiers).Error
		if err != nil {
			return err
		}
	}

	return nil
}

// ByFilter retrieves pricing tiers based on filter criteria
func (r *PricingTierRepositoryImpl) ByFilter(ctx context.Context, filter models.PricingTierFilter, orderBy string, limit, offset int) ([]*models.PricingTier, error) {
	db := r.getDB(ctx)

	var tiers []*models.PricingTier
	query := r.applyFilter(db, filter)

	if orderBy != "" {
		query = query.Order(orderBy)
	}

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	err := query.Find(&tiers).Error
	if err != nil {
		return nil, err
	}

	return tiers, nil
}

// Count returns the number of pricing tiers matching the filter
func (r *PricingTierRepositoryImpl) Count(ctx context.Context, filter models.PricingTierFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	var tier models.PricingTier
	query := r.applyFilter(db.Model(&tier), filter)

	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Exists checks if any pricing tier matching the filter exists
func (r *PricingTierRepositoryImpl) Exists(ctx context.Context, filter models.PricingTierFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *PricingTierRepositoryImpl) applyFilter(db *gorm.DB, filter models.PricingTierFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.EquipmentID != nil {
		db = db.Where("equipment_id = ?", *filter.EquipmentID)
	}

	return db
}
