package repository

import (
	"context"

	"github.com/rentalworks/quoting/models"
	"github.com/rentalworks/quoting/utils"
	"gorm.io/gorm"
)

// StaffRepositoryImpl implements the StaffRepository interface
type StaffRepositoryImpl struct {
	*BaseRepository[models.Staff, models.StaffFilter]
}

// NewStaffRepository creates a new staff repository
func NewStaffRepository(db *gorm.DB) StaffRepository {
	return &StaffRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Staff, models.StaffFilter](db),
	}
}

// ByEmail retrieves a staff account by email
func (r *StaffRepositoryImpl) ByEmail(ctx context.Context, email string) (*models.Staff, error) {
	filter := models.StaffFilter{Email: &email}
	staff, err := r.ByFilter(ctx, filter, "", 1, 0)
	if err != nil {
		return nil, err
	}

	if len(staff) == 0 {
		return nil, nil
	}

	return staff[0], nil
}

// Update persists changes to an existing staff account
func (r *StaffRepositoryImpl) Update(ctx context.Context, staff models.Staff) error {
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

	staff.UpdatedAt = utils.UTCNow()

	err = db.Save(&staff).Error
	if err != nil {
		return err
	}

	return nil
}

// ByFilter retrieves staff accounts based on filter criteria
func (r *StaffRepositoryImpl) ByFilter(ctx context.Context, filter models.StaffFilter, orderBy string, limit, offset int) ([]*models.Staff, error) {
	db := r.getDB(ctx)

	var staff []*models.Staff
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

	err := query.Find(&staff).Error
	if err != nil {
		return nil, err
	}

	return staff, nil
}

// Count returns the number of staff accounts matching the filter
func (r *StaffRepositoryImpl) Count(ctx context.Context, filter models.StaffFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	var staff models.Staff
	query := r.applyFilter(db.Model(&staff), filter)

	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Exists checks if any staff account matching the filter exists
func (r *StaffRepositoryImpl) Exists(ctx context.Context, filter models.StaffFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *StaffRepositoryImpl) applyFilter(db *gorm.DB, filter models.StaffFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		db = db.Where("uuid = ?", *filter.UUID)
	}
	if filter.Email != nil {
		db = db.Where("email = ?", *filter.Email)
	}
	if filter.IsActive != nil {
		db = db.Where("is_active = ?", *filter.IsActive)
	}

	return db
}
