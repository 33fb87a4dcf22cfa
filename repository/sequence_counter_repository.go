package repository

import (
	"context"
	"fmt"

	"github.com/rentalworks/quoting/models"
	"github.com/rentalworks/quoting/utils"
	"gorm.io/gorm"
)

// SequenceCounterRepositoryImpl implements SequenceCounterRepository on the
// sequence_counters table. Allocation is a single upsert-returning statement
// so concurrent callers always receive distinct values; a value handed out
// stays consumed even if the caller's quote never persists.
type SequenceCounterRepositoryImpl struct {
	db *gorm.DB
}

// NewSequenceCounterRepository creates a new sequence counter repository
func NewSequenceCounterRepository(db *gorm.DB) SequenceCounterRepository {
	return &SequenceCounterRepositoryImpl{db: db}
}

func (r *SequenceCounterRepositoryImpl) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(TxContextKey).(*gorm.DB); ok && tx != nil {
		return tx
	}
	return r.db
}

// Next atomically advances the named counter and returns the new value,
// creating the counter at 1 on first use.
func (r *SequenceCounterRepositoryImpl) Next(ctx context.Context, name string) (int64, error) {
	db := r.getDB(ctx)

	var counter models.SequenceCounter
	err := db.Raw(`
		INSERT INTO sequence_counters (name, last_value, created_at, updated_at)
		VALUES (?, 1, ?, ?)
		ON CONFLICT (name)
		DO UPDATE SET last_value = sequence_counters.last_value + 1, updated_at = EXCLUDED.updated_at
		RETURNING name, last_value`,
		name, utils.UTCNow(), utils.UTCNow(),
	).Scan(&counter).Error
	if err != nil {
		return 0, fmt.Errorf("failed to advance sequence counter %s: %w", name, err)
	}

	return counter.LastValue, nil
}
