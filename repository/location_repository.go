package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/ratetap/ratetap/models"
	"gorm.io/gorm"
)

// LocationRepositoryImpl implements LocationRepository
type LocationRepositoryImpl struct {
	*BaseRepository[models.Location, models.LocationFilter]
}

func NewLocationRepository(db *gorm.DB) LocationRepository {
	return &LocationRepositoryImpl{BaseRepository: NewBaseRepository[models.Location, models.LocationFilter](db)}
}

func (r *LocationRepositoryImpl) ByUUID(ctx context.Context, id uuid.UUID) (*models.Location, error) {
	filter := models.LocationFilter{UUID: &id}
	rows, err := r.ByFilter(ctx, filter, "id DESC", 1, 0)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *LocationRepositoryImpl) ListByMerchant(ctx context.Context, merchantID uint) ([]*models.Location, error) {
	filter := models.LocationFilter{MerchantID: &merchantID}
	return r.ByFilter(ctx, filter, "name ASC", 0, 0)
}

func (r *LocationRepositoryImpl) applyFilter(db *gorm.DB, f models.LocationFilter) *gorm.DB {
	if f.ID != nil {
		db = db.Where("id = ?", *f.ID)
	}
	if f.UUID != nil {
		db = db.Where("uuid = ?", *f.UUID)
	}
	if f.MerchantID != nil {
		db = db.Where("merchant_id = ?", *f.MerchantID)
	}
	return db
}

func (r *LocationRepositoryImpl) ByFilter(ctx context.Context, filter models.LocationFilter, orderBy string, limit, offset int) ([]*models.Location, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Location{}), filter)
	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	var rows []*models.Location
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *LocationRepositoryImpl) Count(ctx context.Context, filter models.LocationFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Location{}), filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *LocationRepositoryImpl) Exists(ctx context.Context, filter models.LocationFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}
