package repository

import (
	"context"
	"time"

	"github.com/ratetap/ratetap/models"
	"gorm.io/gorm"
)

// CTAClickRepositoryImpl implements CTAClickRepository
type CTAClickRepositoryImpl struct {
	*BaseRepository[models.CTAClick, models.CTAClickFilter]
}

func NewCTAClickRepository(db *gorm.DB) CTAClickRepository {
	return &CTAClickRepositoryImpl{BaseRepository: NewBaseRepository[models.CTAClick, models.CTAClickFilter](db)}
}

func (r *CTAClickRepositoryImpl) CountBySubmission(ctx context.Context, submissionID uint) (int64, error) {
	filter := models.CTAClickFilter{SubmissionID: &submissionID}
	return r.Count(ctx, filter)
}

func (r *CTAClickRepositoryImpl) ListBySubmission(ctx context.Context, submissionID uint) ([]*models.CTAClick, error) {
	filter := models.CTAClickFilter{SubmissionID: &submissionID}
	return r.ByFilter(ctx, filter, "id ASC", 0, 0)
}

// Clicks carry no owner column; ownership is resolved through the parent
// submission for aggregate queries.
func (r *CTAClickRepositoryImpl) CountByOwnerBetween(ctx context.Context, ownerID uint, from, to time.Time) (int64, error) {
	db := r.getDB(ctx)
	var count int64
	err := db.Model(&models.CTAClick{}).
		Joins("JOIN review_submissions ON review_submissions.id = cta_clicks.submission_id").
		Where("review_submissions.owner_id = ? AND cta_clicks.clicked_at >= ? AND cta_clicks.clicked_at < ?",
			ownerID, from, to).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *CTAClickRepositoryImpl) DailyCountsByOwner(ctx context.Context, ownerID uint, since time.Time) ([]DailyCount, error) {
	db := r.getDB(ctx)
	var rows []DailyCount
	err := db.Model(&models.CTAClick{}).
		Select("CAST(date(cta_clicks.clicked_at) AS TEXT) AS day, COUNT(*) AS total").
		Joins("JOIN review_submissions ON review_submissions.id = cta_clicks.submission_id").
		Where("review_submissions.owner_id = ? AND cta_clicks.clicked_at >= ?", ownerID, since).
		Group("day").
		Order("day ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *CTAClickRepositoryImpl) applyFilter(db *gorm.DB, f models.CTAClickFilter) *gorm.DB {
	if f.ID != nil {
		db = db.Where("id = ?", *f.ID)
	}
	if f.UUID != nil {
		db = db.Where("uuid = ?", *f.UUID)
	}
	if f.SubmissionID != nil {
		db = db.Where("submission_id = ?", *f.SubmissionID)
	}
	if f.CTAType != nil {
		db = db.Where("cta_type = ?", *f.CTAType)
	}
	if f.ClickedAfter != nil {
		db = db.Where("clicked_at >= ?", *f.ClickedAfter)
	}
	if f.ClickedBefore != nil {
		db = db.Where("clicked_at < ?", *f.ClickedBefore)
	}
	return db
}

func (r *CTAClickRepositoryImpl) ByFilter(ctx context.Context, filter models.CTAClickFilter, orderBy string, limit, offset int) ([]*models.CTAClick, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.CTAClick{}), filter)
	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	var rows []*models.CTAClick
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *CTAClickRepositoryImpl) Count(ctx context.Context, filter models.CTAClickFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.CTAClick{}), filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *CTAClickRepositoryImpl) Exists(ctx context.Context, filter models.CTAClickFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}
