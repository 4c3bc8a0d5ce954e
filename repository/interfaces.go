// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/ratetap/ratetap/models"
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

// DailyCount is one day bucket of an aggregate query.
type DailyCount struct {
	Day   string `json:"day"`
	Total int64  `json:"total"`
}

// MerchantRepository defines operations for merchants
type MerchantRepository interface {
	Repository[models.Merchant, models.MerchantFilter]
	ByUUID(ctx context.Context, id uuid.UUID) (*models.Merchant, error)
}

// LocationRepository defines operations for locations
type LocationRepository interface {
	Repository[models.Location, models.LocationFilter]
	ByUUID(ctx context.Context, id uuid.UUID) (*models.Location, error)
	ListByMerchant(ctx context.Context, merchantID uint) ([]*models.Location, error)
}

// IssuedCodeRepository defines operations for issued codes
type IssuedCodeRepository interface {
	Repository[models.IssuedCode, models.IssuedCodeFilter]
	ByUUID(ctx context.Context, id uuid.UUID) (*models.IssuedCode, error)
	ByShortCode(ctx context.Context, shortCode string) (*models.IssuedCode, error)
	// ExistingShortCodes returns the subset of candidates already present in
	// the registry, used by the generator's collision pre-check.
	ExistingShortCodes(ctx context.Context, candidates []string) ([]string, error)
	UpdateStatus(ctx context.Context, id uint, status models.CodeStatus) error
}

// ScanEventRepository defines operations for scan events
type ScanEventRepository interface {
	Repository[models.ScanEvent, models.ScanEventFilter]
	// LatestByCodeAndSession returns the most recent scan for a code and
	// session, or nil when the session never recorded one.
	LatestByCodeAndSession(ctx context.Context, codeID uint, sessionID string) (*models.ScanEvent, error)
	CountByOwnerBetween(ctx context.Context, ownerID uint, from, to time.Time) (int64, error)
	DailyCountsByOwner(ctx context.Context, ownerID uint, since time.Time) ([]DailyCount, error)
}

// ReviewSubmissionRepository defines operations for review submissions
type ReviewSubmissionRepository interface {
	Repository[models.ReviewSubmission, models.ReviewSubmissionFilter]
	ByUUID(ctx context.Context, id uuid.UUID) (*models.ReviewSubmission, error)
	// ApplyClick folds one click into the parent submission: the boolean
	// flags are ORed upward and last_cta is overwritten, all in a single
	// UPDATE so concurrent clicks cannot lose writes.
	ApplyClick(ctx context.Context, submissionID uint, google, contact bool, lastCTA models.LastCTA) error
	CountByOwnerBetween(ctx context.Context, ownerID uint, from, to time.Time) (int64, error)
	PositiveCountByOwnerBetween(ctx context.Context, ownerID uint, from, to time.Time) (int64, error)
	AverageRatingByOwnerBetween(ctx context.Context, ownerID uint, from, to time.Time) (float64, error)
	DailyCountsByOwner(ctx context.Context, ownerID uint, since time.Time) ([]DailyCount, error)
}

// CTAClickRepository defines operations for CTA clicks
type CTAClickRepository interface {
	Repository[models.CTAClick, models.CTAClickFilter]
	CountBySubmission(ctx context.Context, submissionID uint) (int64, error)
	ListBySubmission(ctx context.Context, submissionID uint) ([]*models.CTAClick, error)
	CountByOwnerBetween(ctx context.Context, ownerID uint, from, to time.Time) (int64, error)
	DailyCountsByOwner(ctx context.Context, ownerID uint, since time.Time) ([]DailyCount, error)
}
