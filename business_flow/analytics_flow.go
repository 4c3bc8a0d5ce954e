// Package businessflow contains the core business logic and use cases for merchant analytics
package businessflow

import (
	"context"

	"github.com/ratetap/ratetap/app/dto"
	"github.com/ratetap/ratetap/repository"
	"github.com/ratetap/ratetap/utils"
)

const (
	defaultAnalyticsDays = 30
	maxAnalyticsDays     = 365
)

// AnalyticsFlow serves merchant dashboard aggregates. All bucketing happens
// on UTC calendar days; a scan at 23:59 UTC and one at 00:01 UTC land in
// different buckets regardless of the merchant's local timezone.
type AnalyticsFlow interface {
	DailySeries(ctx context.Context, req *dto.DailyAnalyticsRequest, metadata *ClientMetadata) (*dto.DailyAnalyticsResponse, error)
	Summary(ctx context.Context, req *dto.AnalyticsSummaryRequest, metadata *ClientMetadata) (*dto.AnalyticsSummaryResponse, error)
}

// AnalyticsFlowImpl implements the analytics business flow
type AnalyticsFlowImpl struct {
	scanRepo       repository.ScanEventRepository
	submissionRepo repository.ReviewSubmissionRepository
	clickRepo      repository.CTAClickRepository
	merchantRepo   repository.MerchantRepository
}

// NewAnalyticsFlow creates a new analytics flow instance
func NewAnalyticsFlow(
	scanRepo repository.ScanEventRepository,
	submissionRepo repository.ReviewSubmissionRepository,
	clickRepo repository.CTAClickRepository,
	merchantRepo repository.MerchantRepository,
) AnalyticsFlow {
	return &AnalyticsFlowImpl{
		scanRepo:       scanRepo,
		submissionRepo: submissionRepo,
		clickRepo:      clickRepo,
		merchantRepo:   merchantRepo,
	}
}

// DailySeries returns one bucket per UTC day over the requested window,
// including empty days, so charts render a continuous axis.
func (f *AnalyticsFlowImpl) DailySeries(ctx context.Context, req *dto.DailyAnalyticsRequest, metadata *ClientMetadata) (*dto.DailyAnalyticsResponse, error) {
	if req == nil {
		return nil, NewBusinessError("VALIDATION_ERROR", "Request is required", nil)
	}
	days, err := normalizeDays(req.Days)
	if err != nil {
		return nil, err
	}

	merchant, err := getMerchant(ctx, f.merchantRepo, req.MerchantID)
	if err != nil {
		return nil, NewBusinessError("MERCHANT_LOOKUP_FAILED", "Failed to lookup merchant", err)
	}

	since := utils.DayStart(utils.UTCNow()).AddDate(0, 0, -(days - 1))
	scans, err := f.scanRepo.DailyCountsByOwner(ctx, merchant.ID, since)
	if err != nil {
		return nil, NewBusinessError("ANALYTICS_FAILED", "Failed to aggregate scans", err)
	}
	submissions, err := f.submissionRepo.DailyCountsByOwner(ctx, merchant.ID, since)
	if err != nil {
		return nil, NewBusinessError("ANALYTICS_FAILED", "Failed to aggregate submissions", err)
	}
	clicks, err := f.clickRepo.DailyCountsByOwner(ctx, merchant.ID, since)
	if err != nil {
		return nil, NewBusinessError("ANALYTICS_FAILED", "Failed to aggregate clicks", err)
	}

	scanByDay := dailyCountIndex(scans)
	subByDay := dailyCountIndex(submissions)
	clickByDay := dailyCountIndex(clicks)

	buckets := make([]dto.DailyBucketDTO, 0, days)
	for i := 0; i < days; i++ {
		day := since.AddDate(0, 0, i).Format("2006-01-02")
		buckets = append(buckets, dto.DailyBucketDTO{
			Day:         day,
			Scans:       scanByDay[day],
			Submissions: subByDay[day],
			Clicks:      clickByDay[day],
		})
	}

	return &dto.DailyAnalyticsResponse{
		Message: "Daily analytics retrieved",
		Days:    days,
		Buckets: buckets,
	}, nil
}

// Summary compares the trailing window against the window immediately before
// it and reports percent change per metric.
func (f *AnalyticsFlowImpl) Summary(ctx context.Context, req *dto.AnalyticsSummaryRequest, metadata *ClientMetadata) (*dto.AnalyticsSummaryResponse, error) {
	if req == nil {
		return nil, NewBusinessError("VALIDATION_ERROR", "Request is required", nil)
	}
	days, err := normalizeDays(req.Days)
	if err != nil {
		return nil, err
	}

	merchant, err := getMerchant(ctx, f.merchantRepo, req.MerchantID)
	if err != nil {
		return nil, NewBusinessError("MERCHANT_LOOKUP_FAILED", "Failed to lookup merchant", err)
	}

	currentStart := utils.DayStart(utils.UTCNow()).AddDate(0, 0, -(days - 1))
	currentEnd := currentStart.AddDate(0, 0, days)
	previousStart := currentStart.AddDate(0, 0, -days)

	scansCur, err := f.scanRepo.CountByOwnerBetween(ctx, merchant.ID, currentStart, currentEnd)
	if err != nil {
		return nil, NewBusinessError("ANALYTICS_FAILED", "Failed to count scans", err)
	}
	scansPrev, err := f.scanRepo.CountByOwnerBetween(ctx, merchant.ID, previousStart, currentStart)
	if err != nil {
		return nil, NewBusinessError("ANALYTICS_FAILED", "Failed to count scans", err)
	}

	subsCur, err := f.submissionRepo.CountByOwnerBetween(ctx, merchant.ID, currentStart, currentEnd)
	if err != nil {
		return nil, NewBusinessError("ANALYTICS_FAILED", "Failed to count submissions", err)
	}
	subsPrev, err := f.submissionRepo.CountByOwnerBetween(ctx, merchant.ID, previousStart, currentStart)
	if err != nil {
		return nil, NewBusinessError("ANALYTICS_FAILED", "Failed to count submissions", err)
	}

	positiveCur, err := f.submissionRepo.PositiveCountByOwnerBetween(ctx, merchant.ID, currentStart, currentEnd)
	if err != nil {
		return nil, NewBusinessError("ANALYTICS_FAILED", "Failed to count positive submissions", err)
	}
	positivePrev, err := f.submissionRepo.PositiveCountByOwnerBetween(ctx, merchant.ID, previousStart, currentStart)
	if err != nil {
		return nil, NewBusinessError("ANALYTICS_FAILED", "Failed to count positive submissions", err)
	}

	clicksCur, err := f.clickRepo.CountByOwnerBetween(ctx, merchant.ID, currentStart, currentEnd)
	if err != nil {
		return nil, NewBusinessError("ANALYTICS_FAILED", "Failed to count clicks", err)
	}
	clicksPrev, err := f.clickRepo.CountByOwnerBetween(ctx, merchant.ID, previousStart, currentStart)
	if err != nil {
		return nil, NewBusinessError("ANALYTICS_FAILED", "Failed to count clicks", err)
	}

	var averageRating *float64
	if subsCur > 0 {
		avg, err := f.submissionRepo.AverageRatingByOwnerBetween(ctx, merchant.ID, currentStart, currentEnd)
		if err != nil {
			return nil, NewBusinessError("ANALYTICS_FAILED", "Failed to compute average rating", err)
		}
		averageRating = &avg
	}

	return &dto.AnalyticsSummaryResponse{
		Message:             "Analytics summary retrieved",
		Days:                days,
		Scans:               metricWithChange(scansCur, scansPrev),
		Submissions:         metricWithChange(subsCur, subsPrev),
		PositiveSubmissions: metricWithChange(positiveCur, positivePrev),
		Clicks:              metricWithChange(clicksCur, clicksPrev),
		AverageRating:       averageRating,
	}, nil
}

func normalizeDays(days int) (int, error) {
	if days <= 0 {
		return defaultAnalyticsDays, nil
	}
	if days > maxAnalyticsDays {
		return 0, NewBusinessErrorf("VALIDATION_ERROR", "days must be between 1 and %d", ErrInvalidDayRange, maxAnalyticsDays)
	}
	return days, nil
}

func dailyCountIndex(rows []repository.DailyCount) map[string]int64 {
	index := make(map[string]int64, len(rows))
	for _, row := range rows {
		index[row.Day] = row.Total
	}
	return index
}

func metricWithChange(current, previous int64) dto.MetricWithChangeDTO {
	return dto.MetricWithChangeDTO{
		Current:   current,
		Previous:  previous,
		ChangePct: percentChange(current, previous),
	}
}

// percentChange follows dashboard convention for an empty comparison window:
// any growth from zero reads as +100%, zero to zero reads as 0%.
func percentChange(current, previous int64) float64 {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return (float64(current) - float64(previous)) / float64(previous) * 100
}
