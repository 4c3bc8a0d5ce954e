package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/ratetap/ratetap/models"
	"gorm.io/gorm"
)

// MerchantRepositoryImpl implements MerchantRepository
type MerchantRepositoryImpl struct {
	*BaseRepository[models.Merchant, models.MerchantFilter]
}

func NewMerchantRepository(db *gorm.DB) MerchantRepository {
	return &MerchantRepositoryImpl{BaseRepository: NewBaseRepository[models.Merchant, models.MerchantFilter](db)}
}

func (r *MerchantRepositoryImpl) ByUUID(ctx context.Context, id uuid.UUID) (*models.Merchant, error) {
	filter := models.MerchantFilter{UUID: &id}
	rows, err := r.ByFilter(ctx, filter, "id DESC", 1, 0)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *MerchantRepositoryImpl) applyFilter(db *gorm.DB, f models.MerchantFilter) *gorm.DB {
	if f.ID != nil {
		db = db.Where("id = ?", *f.ID)
	}
	if f.UUID != nil {
		db = db.Where("uuid = ?", *f.UUID)
	}
	if f.Name != nil {
		db = db.Where("name = ?", *f.Name)
	}
	return db
}

func (r *MerchantRepositoryImpl) ByFilter(ctx context.Context, filter models.MerchantFilter, orderBy string, limit, offset int) ([]*models.Merchant, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Merchant{}), filter)
	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	var rows []*models.Merchant
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *MerchantRepositoryImpl) Count(ctx context.Context, filter models.MerchantFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Merchant{}), filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *MerchantRepositoryImpl) Exists(ctx context.Context, filter models.MerchantFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}
