package repository

import (
	"context"
	"time"

	"github.com/ratetap/ratetap/models"
	"gorm.io/gorm"
)

// ScanEventRepositoryImpl implements ScanEventRepository
type ScanEventRepositoryImpl struct {
	*BaseRepository[models.ScanEvent, models.ScanEventFilter]
}

func NewScanEventRepository(db *gorm.DB) ScanEventRepository {
	return &ScanEventRepositoryImpl{BaseRepository: NewBaseRepository[models.ScanEvent, models.ScanEventFilter](db)}
}

// LatestByCodeAndSession picks the newest scan for the pair. A session may
// legitimately record several scans; only the most recent one is correlated
// with a submission.
func (r *ScanEventRepositoryImpl) LatestByCodeAndSession(ctx context.Context, codeID uint, sessionID string) (*models.ScanEvent, error) {
	filter := models.ScanEventFilter{CodeID: &codeID, SessionID: &sessionID}
	rows, err := r.ByFilter(ctx, filter, "id DESC", 1, 0)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *ScanEventRepositoryImpl) CountByOwnerBetween(ctx context.Context, ownerID uint, from, to time.Time) (int64, error) {
	db := r.getDB(ctx)
	var count int64
	err := db.Model(&models.ScanEvent{}).
		Where("owner_id = ? AND created_at >= ? AND created_at < ?", ownerID, from, to).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// DailyCountsByOwner buckets scans per UTC day. CAST(date(...) AS TEXT) keeps
// the bucket key portable across PostgreSQL and SQLite.
func (r *ScanEventRepositoryImpl) DailyCountsByOwner(ctx context.Context, ownerID uint, since time.Time) ([]DailyCount, error) {
	db := r.getDB(ctx)
	var rows []DailyCount
	err := db.Model(&models.ScanEvent{}).
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

func (r *ScanEventRepositoryImpl) applyFilter(db *gorm.DB, f models.ScanEventFilter) *gorm.DB {
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
	if f.SessionID != nil {
		db = db.Where("session_id = ?", *f.SessionID)
	}
	if f.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *f.CreatedAfter)
	}
	if f.CreatedBefore != nil {
		db = db.Where("created_at < ?", *f.CreatedBefore)
	}
	return db
}

func (r *ScanEventRepositoryImpl) ByFilter(ctx context.Context, filter models.ScanEventFilter, orderBy string, limit, offset int) ([]*models.ScanEvent, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.ScanEvent{}), filter)
	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	var rows []*models.ScanEvent
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ScanEventRepositoryImpl) Count(ctx context.Context, filter models.ScanEventFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.ScanEvent{}), filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ScanEventRepositoryImpl) Exists(ctx context.Context, filter models.ScanEventFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}
