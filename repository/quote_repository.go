package repository

import (
	"context"
	"errors"

	"github.com/rentalworks/quoting/models"
	"github.com/rentalworks/quoting/utils"
	"gorm.io/gorm"
)

// QuoteRepositoryImpl implements the QuoteRepository interface
type QuoteRepositoryImpl struct {
	*BaseRepository[models.Quote, models.QuoteFilter]
}

// NewQuoteRepository creates a new quote repository
func NewQuoteRepository(db *gorm.DB) QuoteRepository {
	return &QuoteRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Quote, models.QuoteFilter](db),
	}
}

// ByID retrieves a quote by ID with its client and line items preloaded
func (r *QuoteRepositoryImpl) ByID(ctx context.Context, id uint) (*models.Quote, error) {
	db := r.getDB(ctx)

	var quote models.Quote
	err := db.Preload("Client").
		Preload("LineItems", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("LineItems.Equipment").
		Last(&quote, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &quote, nil
}

// ByUUID retrieves a quote by UUID
func (r *QuoteRepositoryImpl) ByUUID(ctx context.Context, uuid string) (*models.Quote, error) {
	parsedUUID, err := utils.ParseUUID(uuid)
	if err != nil {
		return nil, err
	}

	filter := models.QuoteFilter{UUID: &parsedUUID}
	quotes, err := r.ByFilter(ctx, filter, "", 0, 0)
	if err != nil {
		return nil, err
	}

	if len(quotes) == 0 {
		return nil, nil
	}

	return quotes[0], nil
}

// ByNumber retrieves a quote by its document number
func (r *QuoteRepositoryImpl) ByNumber(ctx context.Context, number string) (*models.Quote, error) {
	filter := models.QuoteFilter{QuoteNumber: &number}
	quotes, err := r.ByFilter(ctx, filter, "", 0, 0)
	if err != nil {
		return nil, err
	}

	if len(quotes) == 0 {
		return nil, nil
	}

	return quotes[0], nil
}

// ListNumbersForPeriod returns every quote number issued for a domain whose
// number carries the given period suffix. Feeds the scan-based sequencing
// path, so it selects the bare column without loading rows.
func (r *QuoteRepositoryImpl) ListNumbersForPeriod(ctx context.Context, domain, period string) ([]string, error) {
	db := r.getDB(ctx)

	var numbers []string
	err := db.Model(&models.Quote{}).
		Where("domain = ?", domain).
		Where("quote_number LIKE ?", "%/"+period).
		Pluck("quote_number", &numbers).Error
	if err != nil {
		return nil, err
	}

	return numbers, nil
}

// Update updates a quote together with its line items
func (r *QuoteRepositoryImpl) Update(ctx context.Context, quote models.Quote) error {
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

	quote.UpdatedAt = utils.UTCNow()

	err = db.Save(&quote).Error
	if err != nil {
		return err
	}

	return nil
}

// UpdateStatus updates only the status of a quote
func (r *QuoteRepositoryImpl) UpdateStatus(ctx context.Context, id uint, status models.QuoteStatus) error {
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

	err = db.Model(&models.Quote{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     status,
			"updated_at": utils.UTCNow(),
		}).Error

	if err != nil {
		return err
	}

	return nil
}

// ReplaceLine overwrites one line item in place
func (r *QuoteRepositoryImpl) ReplaceLine(ctx context.Context, line models.QuoteLineItem) error {
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

	line.UpdatedAt = utils.UTCNow()

	err = db.Save(&line).Error
	if err != nil {
		return err
	}

	return nil
}

// ByFilter retrieves quotes based on filter criteria
func (r *QuoteRepositoryImpl) ByFilter(ctx context.Context, filter models.QuoteFilter, orderBy string, limit, offset int) ([]*models.Quote, error) {
	db := r.getDB(ctx)

	var quotes []*models.Quote
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

	// Preload relationships
	query = query.Preload("Client").
		Preload("LineItems", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		})

	err := query.Find(&quotes).Error
	if err != nil {
		return nil, err
	}

	return quotes, nil
}

// Count returns the number of quotes matching the filter
func (r *QuoteRepositoryImpl) Count(ctx context.Context, filter models.QuoteFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	var quote models.Quote
	query := r.applyFilter(db.Model(&quote), filter)

	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Exists checks if any quote matching the filter exists
func (r *QuoteRepositoryImpl) Exists(ctx context.Context, filter models.QuoteFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *QuoteRepositoryImpl) applyFilter(db *gorm.DB, filter models.QuoteFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		db = db.Where("uuid = ?", *filter.UUID)
	}
	if filter.Domain != nil {
		db = db.Where("domain = ?", *filter.Domain)
	}
	if filter.ClientID != nil {
		db = db.Where("client_id = ?", *filter.ClientID)
	}
	if filter.Status != nil {
		db = db.Where("status = ?", *filter.Status)
	}
	if filter.QuoteNumber != nil {
		db = db.Where("quote_number = ?", *filter.QuoteNumber)
	}
	if filter.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		db = db.Where("created_at < ?", *filter.CreatedBefore)
	}

	return db
}
