package dto

// DailyAnalyticsRequest represents the request for day-bucketed counts
type DailyAnalyticsRequest struct {
	MerchantID uint `json:"-"`
	Days       int  `json:"days"`
}

// DailyBucketDTO represents one day's counts across the pipeline
type DailyBucketDTO struct {
	Day         string `json:"day"` // YYYY-MM-DD, UTC
	Scans       int64  `json:"scans"`
	Submissions int64  `json:"submissions"`
	Clicks      int64  `json:"clicks"`
}

// DailyAnalyticsResponse represents day-bucketed counts over the requested window
type DailyAnalyticsResponse struct {
	Message string           `json:"message"`
	Days    int              `json:"days"`
	Buckets []DailyBucketDTO `json:"buckets"`
}

// AnalyticsSummaryRequest represents the request for window totals with change ratios
type AnalyticsSummaryRequest struct {
	MerchantID uint `json:"-"`
	Days       int  `json:"days"`
}

// MetricWithChangeDTO carries a current-window count, the preceding window's count,
// and the percentage change between them
type MetricWithChangeDTO struct {
	Current   int64   `json:"current"`
	Previous  int64   `json:"previous"`
	ChangePct float64 `json:"change_pct"`
}

// AnalyticsSummaryResponse represents window totals for scans, submissions,
// positive submissions, and CTA clicks, plus the window's average rating
type AnalyticsSummaryResponse struct {
	Message             string              `json:"message"`
	Days                int                 `json:"days"`
	Scans               MetricWithChangeDTO `json:"scans"`
	Submissions         MetricWithChangeDTO `json:"submissions"`
	PositiveSubmissions MetricWithChangeDTO `json:"positive_submissions"`
	Clicks              MetricWithChangeDTO `json:"clicks"`
	AverageRating       *float64            `json:"average_rating,omitempty"`
}
