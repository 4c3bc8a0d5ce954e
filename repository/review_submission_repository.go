package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/ratetap/ratetap/models"
	"github.com/ratetap/ratetap/utils"
	"gorm.io/gorm"
)

// ReviewSubmissionRepositoryImpl implements ReviewSubmissionRepository
type ReviewSubmissionRepositoryImpl struct {
	*BaseRepository[models.ReviewSubmission, models.ReviewSubmissionFilter]
}

func NewReviewSubmissionRepository(db *gorm.DB) ReviewSubmissionRepository {
	return &ReviewSubmissionRepositoryImpl{BaseRepository: NewBaseRepository[models.ReviewSubmission, models.ReviewSubmissionFilter](db)}
}

func (r *ReviewSubmissionRepositoryImpl) ByUUID(ctx context.Context, id uuid.UUID) (*models.ReviewSubmission, error) {
	filter := models.ReviewSubmissionFilter{UUID: &id}
	rows, err := r.ByFilter(ctx, filter, "id DESC", 1, 0)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// ApplyClick folds one click into the parent row. The OR expressions keep the
// flags monotonic under concurrent clicks; last_cta is plainly overwritten by
// the category of the current click.
func (r *ReviewSubmissionRepositoryImpl) ApplyClick(ctx context.Context, submissionID uint, google, contact bool, lastCTA models.LastCTA) error {
	db := r.getDB(ctx)
	res := db.Model(&models.ReviewSubmission{}).
		Where("id = ?", submissionID).
		Updates(map[string]any{
			"google_clicked":  gorm.Expr("(google_clicked OR ?)", google),
			"contact_clicked": gorm.Expr("(contact_clicked OR ?)", contact),
			"last_cta":        lastCTA,
			"updated_at":      utils.UTCNow(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ReviewSubmissionRepositoryImpl) CountByOwnerBetween(ctx context.Context, ownerID uint, from, to time.Time) (int64, error) {
	db := r.getDB(ctx)
	var count int64
	err := db.Model(&models.ReviewSubmission{}).
		Where("owner_id = ? AND created_at >= ? AND created_at < ?", ownerID, from, to).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ReviewSubmissionRepositoryImpl) PositiveCountByOwnerBetween(ctx context.Context, ownerID uint, from, to time.Time) (int64, error) {
	db := r.getDB(ctx)
	var count int64
	err := db.Model(&models.ReviewSubmission{}).
		Where("owner_id = ? AND rating >= ? AND created_at >= ? AND created_at < ?",
			ownerID, models.PositiveRatingThreshold, from, to).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ReviewSubmissionRepositoryImpl) AverageRatingByOwnerBetween(ctx context.Context, ownerID uint, from, to time.Time) (float64, error) {
	db := r.getDB(ctx)
	var avg sql.NullFloat64
	err := db.Model(&models.ReviewSubmission{}).
		Select("AVG(rating)").
		Where("owner_id = ? AND created_at >= ? AND created_at < ?", ownerID, from, to).
		Scan(&avg).Error
	if err != nil {
		return 0, err
	}
	if !avg.Valid {
		return 0, nil
	}
	return avg.Float64, nil
}

func (r *ReviewSubmissionRepositoryImpl) DailyCountsByOwner(ctx context.Context, ownerID uint, since time.Time) ([]DailyCount, error) {
	db := r.getDB(ctx)
	var rows []DailyCount
	err := db.Model(&models.ReviewSubmission{}).
		Select("CAST(date(created_at) AS TEXT) AS day, COUNT(*) AS total").
		Where("owner_id = ? AND created_at >= ?", ownerID, since).
		Group("day").
		Order("day ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ReviewSubmissionRepositoryImpl) applyFilter(db *gorm.DB, f models.ReviewSubmissionFilter) *gorm.DB {
	if f.ID != nil {
		db = db.Where("id = ?", *f.ID)
	}
	if f.UUID != nil {
		db = db.Where("uuid = ?", *f.UUID)
	}
	if f.CodeID != nil {
		db = db.Where("code_id = ?", *f.CodeID)
	}
	if f.OwnerID != nil {
		db = db.Where("owner_id = ?", *f.OwnerID)
	}
	if f.ScanID != nil {
		db = db.Where("scan_id = ?", *f.ScanID)
	}
	if f.MinRating != nil {
		db = db.Where("rating >= ?", *f.MinRating)
	}
	if f.MaxRating != nil {
		db = db.Where("rating <= ?", *f.MaxRating)
	}
	if f.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *f.CreatedAfter)
	}
	if f.CreatedBefore != nil {
		db = db.Where("created_at < ?", *f.CreatedBefore)
	}
	return db
}

func (r *ReviewSubmissionRepositoryImpl) ByFilter(ctx context.Context, filter models.ReviewSubmissionFilter, orderBy string, limit, offset int) ([]*models.ReviewSubmission, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.ReviewSubmission{}), filter)
	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	var rows []*models.ReviewSubmission
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ReviewSubmissionRepositoryImpl) Count(ctx context.Context, filter models.ReviewSubmissionFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.ReviewSubmission{}), filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ReviewSubmissionRepositoryImpl) Exists(ctx context.Context, filter models.ReviewSubmissionFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}
