package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/ratetap/ratetap/models"
	"github.com/ratetap/ratetap/utils"
	"gorm.io/gorm"
)

// IssuedCodeRepositoryImpl implements IssuedCodeRepository
type IssuedCodeRepositoryImpl struct {
	*BaseRepository[models.IssuedCode, models.IssuedCodeFilter]
}

func NewIssuedCodeRepository(db *gorm.DB) IssuedCodeRepository {
	return &IssuedCodeRepositoryImpl{BaseRepository: NewBaseRepository[models.IssuedCode, models.IssuedCodeFilter](db)}
}

func (r *IssuedCodeRepositoryImpl) ByUUID(ctx context.Context, id uuid.UUID) (*models.IssuedCode, error) {
	filter := models.IssuedCodeFilter{UUID: &id}
	rows, err := r.ByFilter(ctx, filter, "id DESC", 1, 0)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *IssuedCodeRepositoryImpl) ByShortCode(ctx context.Context, shortCode string) (*models.IssuedCode, error) {
	filter := models.IssuedCodeFilter{ShortCode: &shortCode}
	rows, err := r.ByFilter(ctx, filter, "id DESC", 1, 0)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// ExistingShortCodes returns which candidates already occupy the registry.
func (r *IssuedCodeRepositoryImpl) ExistingShortCodes(ctx context.Context, candidates []string) ([]string, error) {
	if len(candidates) == 0 {
		return nil, nil
	}
	db := r.getDB(ctx)
	var existing []string
	if err := db.Model(&models.IssuedCode{}).
		Where("short_code IN ?", candidates).
		Pluck("short_code", &existing).Error; err != nil {
		return nil, err
	}
	return existing, nil
}

func (r *IssuedCodeRepositoryImpl) UpdateStatus(ctx context.Context, id uint, status models.CodeStatus) error {
	db := r.getDB(ctx)
	res := db.Model(&models.IssuedCode{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     status,
			"updated_at": utils.UTCNow(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *IssuedCodeRepositoryImpl) applyFilter(db *gorm.DB, f models.IssuedCodeFilter) *gorm.DB {
	if f.ID != nil {
		db = db.Where("id = ?", *f.ID)
	}
	if f.UUID != nil {
		db = db.Where("uuid = ?", *f.UUID)
	}
	if f.ShortCode != nil {
		db = db.Where("short_code = ?", *f.ShortCode)
	}
	if f.MerchantID != nil {
		db = db.Where("merchant_id = ?", *f.MerchantID)
	}
	if f.LocationID != nil {
		db = db.Where("location_id = ?", *f.LocationID)
	}
	if f.BatchID != nil {
		db = db.Where("batch_id = ?", *f.BatchID)
	}
	if f.Status != nil {
		db = db.Where("status = ?", *f.Status)
	}
	if f.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *f.CreatedAfter)
	}
	if f.CreatedBefore != nil {
		db = db.Where("created_at < ?", *f.CreatedBefore)
	}
	return db
}

func (r *IssuedCodeRepositoryImpl) ByFilter(ctx context.Context, filter models.IssuedCodeFilter, orderBy string, limit, offset int) ([]*models.IssuedCode, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.IssuedCode{}), filter)
	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	var rows []*models.IssuedCode
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *IssuedCodeRepositoryImpl) Count(ctx context.Context, filter models.IssuedCodeFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.IssuedCode{}), filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *IssuedCodeRepositoryImpl) Exists(ctx context.Context, filter models.IssuedCodeFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}
