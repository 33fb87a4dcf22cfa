package repository

import (
	"context"
	"errors"

	"github.com/rentalworks/quoting/models"
	"github.com/rentalworks/quoting/utils"
	"gorm.io/gorm"
)

// EquipmentRepositoryImpl implements the EquipmentRepository interface
type EquipmentRepositoryImpl struct {
	*BaseRepository[models.Equipment, models.EquipmentFilter]
}

// NewEquipmentRepository creates a new equipment repository
func NewEquipmentRepository(db *gorm.DB) EquipmentRepository {
	return &EquipmentRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Equipment, models.EquipmentFilter](db),
	}
}

// ByID retrieves equipment by ID with its pricing tiers preloaded
func (r *EquipmentRepositoryImpl) ByID(ctx context.Context, id uint) (*models.Equipment, error) {
	db := r.getDB(ctx)

	var equipment models.Equipment
	err := db.Preload("PricingTiers").
		Last(&equipment, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &equipment, nil
}

// ByUUID retrieves equipment by UUID
func (r *EquipmentRepositoryImpl) ByUUID(ctx context.Context, uuid string) (*models.Equipment, error) {
	parsedUUID, err := utils.ParseUUID(uuid)
	if err != nil {
		return nil, err
	}

	filter := models.EquipmentFilter{UUID: &parsedUUID}
	items, err := r.ByFilter(ctx, filter, "", 0, 0)
	if err != nil {
		return nil, err
	}

	if len(items) == 0 {
		return nil, nil
	}

	return items[0], nil
}

// ByDomain retrieves equipment of one domain with pagination
func (r *EquipmentRepositoryImpl) ByDomain(ctx context.Context, domain string, limit, offset int) ([]*models.Equipment, error) {
	filter := models.EquipmentFilter{Domain: &domain}
	return r.ByFilter(ctx, filter, "name ASC", limit, offset)
}

// Update updates an equipment record
func (r *EquipmentRepositoryImpl) Update(ctx context.Context, equipment models.Equipment) error {
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

	equipment.UpdatedAt = utils.UTCNow()

	err = db.Save(&equipment).Error
	if err != nil {
		return err
	}

	return nil
}

// ByFilter retrieves equipment based on filter criteria
func (r *EquipmentRepositoryImpl) ByFilter(ctx context.Context, filter models.EquipmentFilter, orderBy string, limit, offset int) ([]*models.Equipment, error) {
	db := r.getDB(ctx)

	var items []*models.Equipment
	query := r.applyFilter(db, filter)

	// Apply ordering
	if orderBy != "" {
		query = query.Order(orderBy)
	}

	// Apply pagination
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	query = query.Preload("PricingTiers")

	err := query.Find(&items).Error
	if err != nil {
		return nil, err
	}

	return items, nil
}

// Count returns the number of equipment records matching the filter
func (r *EquipmentRepositoryImpl) Count(ctx context.Context, filter models.EquipmentFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	var equipment models.Equipment
	query := r.applyFilter(db.Model(&equipment), filter)

	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Exists checks if any equipment matching the filter exists
func (r *EquipmentRepositoryImpl) Exists(ctx context.Context, filter models.EquipmentFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *EquipmentRepositoryImpl) applyFilter(db *gorm.DB, filter models.EquipmentFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		db = db.Where("uuid = ?", *filter.UUID)
	}
	if filter.Domain != nil {
		db = db.Where("domain = ?", *filter.Domain)
	}
	if filter.CategoryID != nil {
		db = db.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.Name != nil {
		db = db.Where("name ILIKE ?", "%"+*filter.Name+"%")
	}
	if filter.IsActive != nil {
		db = db.Where("is_active = ?", *filter.IsActive)
	}

	return db
}
