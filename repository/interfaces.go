// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"

	"github.com/rentalworks/quoting/models"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id uint) (*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	SaveBatch(ctx context.Context, entities []*T) error
	Count(ctx context.Context, filter F) (int64, error)
	Exists(ctx context.Context, filter F) (bool, error)
}

// EquipmentRepository defines operations for the equipment catalog
type EquipmentRepository interface {
	Repository[models.Equipment, models.EquipmentFilter]
	ByUUID(ctx context.Context, uuid string) (*models.Equipment, error)
	ByDomain(ctx context.Context, domain string, limit, offset int) ([]*models.Equipment, error)
	Update(ctx context.Context, equipment models.Equipment) error
}

// PricingTierRepository defines operations for equipment pricing tiers
type PricingTierRepository interface {
	Repository[models.PricingTier, models.PricingTierFilter]
	ByEquipmentID(ctx context.Context, equipmentID uint) ([]*models.PricingTier, error)
	ReplaceForEquipment(ctx context.Context, equipmentID uint, tiers []*models.PricingTier) error
}

// QuoteRepository defines operations for quotes and their line items
type QuoteRepository interface {
	Repository[models.Quote, models.QuoteFilter]
	ByUUID(ctx context.Context, uuid string) (*models.Quote, error)
	ByNumber(ctx context.Context, number string) (*models.Quote, error)
	ListNumbersForPeriod(ctx context.Context, domain, period string) ([]string, error)
	Update(ctx context.Context, quote models.Quote) error
	UpdateStatus(ctx context.Context, id uint, status models.QuoteStatus) error
	ReplaceLine(ctx context.Context, line models.QuoteLineItem) error
}

// ClientRepository defines operations for rental clients
type ClientRepository interface {
	Repository[models.Client, models.ClientFilter]
	ByUUID(ctx context.Context, uuid string) (*models.Client, error)
}

// StaffRepository defines operations for staff accounts
type StaffRepository interface {
	Repository[models.Staff, models.StaffFilter]
	ByEmail(ctx context.Context, email string) (*models.Staff, error)
	Update(ctx context.Context, staff models.Staff) error
}

// CatalogRepository defines operations for the addon and service-cost catalogs
// attached to equipment: additional equipment, accessories and the named
// per-domain service items.
type CatalogRepository interface {
	AdditionalEquipmentByIDs(ctx context.Context, ids []uint) ([]*models.AdditionalEquipment, error)
	AccessoriesByIDs(ctx context.Context, ids []uint) ([]*models.Accessory, error)
	AdditionalEquipmentForEquipment(ctx context.Context, equipmentID uint) ([]*models.AdditionalEquipment, error)
	AccessoriesForEquipment(ctx context.Context, equipmentID uint) ([]*models.Accessory, error)
	ServiceItemsForDomain(ctx context.Context, domain string) ([]*models.ServiceItem, error)
}

// SequenceCounterRepository defines atomic allocation on persistent sequence counters
type SequenceCounterRepository interface {
	Next(ctx context.Context, name string) (int64, error)
}
