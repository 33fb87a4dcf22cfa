package repository

import (
	"context"

	"github.com/rentalworks/quoting/models"
	"gorm.io/gorm"
)

// CatalogRepositoryImpl implements the CatalogRepository interface over the
// three addon catalogs. They are lookup-only from the engine's point of view,
// so no generic base is embedded here.
type CatalogRepositoryImpl struct {
	db *gorm.DB
}

// NewCatalogRepository creates a new catalog repository
func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &CatalogRepositoryImpl{db: db}
}

func (r *CatalogRepositoryImpl) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(TxContextKey).(*gorm.DB); ok && tx != nil {
		return tx
	}
	return r.db
}

// AdditionalEquipmentByIDs retrieves additional-equipment entries by ID
func (r *CatalogRepositoryImpl) AdditionalEquipmentByIDs(ctx context.Context, ids []uint) ([]*models.AdditionalEquipment, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	db := r.getDB(ctx)

	var items []*models.AdditionalEquipment
	err := db.Where("id IN ?", ids).Find(&items).Error
	if err != nil {
		return nil, err
	}

	return items, nil
}

// AccessoriesByIDs retrieves accessory entries by ID
func (r *CatalogRepositoryImpl) AccessoriesByIDs(ctx context.Context, ids []uint) ([]*models.Accessory, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	db := r.getDB(ctx)

	var items []*models.Accessory
	err := db.Where("id IN ?", ids).Find(&items).Error
	if err != nil {
		return nil, err
	}

	return items, nil
}

// AdditionalEquipmentForEquipment lists the additional equipment offered with one machine
func (r *CatalogRepositoryImpl) AdditionalEquipmentForEquipment(ctx context.Context, equipmentID uint) ([]*models.AdditionalEquipment, error) {
	db := r.getDB(ctx)

	var items []*models.AdditionalEquipment
	err := db.Where("equipment_id = ?", equipmentID).
		Order("name ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}

	return items, nil
}

// AccessoriesForEquipment lists the accessories offered with one machine
func (r *CatalogRepositoryImpl) AccessoriesForEquipment(ctx context.Context, equipmentID uint) ([]*models.Accessory, error) {
	db := r.getDB(ctx)

	var items []*models.Accessory
	err := db.Where("equipment_id = ?", equipmentID).
		Order("name ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}

	return items, nil
}

// ServiceItemsForDomain lists the named service cost entries of a domain in slot order
func (r *CatalogRepositoryImpl) ServiceItemsForDomain(ctx context.Context, domain string) ([]*models.ServiceItem, error) {
	db := r.getDB(ctx)

	var items []*models.ServiceItem
	err := db.Where("domain = ?", domain).
		Order("slot ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}

	return items, nil
}
