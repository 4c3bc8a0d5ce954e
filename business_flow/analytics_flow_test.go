package businessflow_test

import (
	"testing"
	"time"

	"github.com/ratetap/ratetap/app/dto"
	businessflow "github.com/ratetap/ratetap/business_flow"
	"github.com/ratetap/ratetap/models"
	"github.com/ratetap/ratetap/repository"
	testingutil "github.com/ratetap/ratetap/testing"
	"github.com/ratetap/ratetap/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAnalyticsFlow(testDB *testingutil.TestDB) businessflow.AnalyticsFlow {
	scanRepo := repository.NewScanEventRepository(testDB.DB)
	submissionRepo := repository.NewReviewSubmissionRepository(testDB.DB)
	clickRepo := repository.NewCTAClickRepository(testDB.DB)
	merchantRepo := repository.NewMerchantRepository(testDB.DB)
	return businessflow.NewAnalyticsFlow(scanRepo, submissionRepo, clickRepo, merchantRepo)
}

func TestDailyAnalytics(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		flow := newAnalyticsFlow(testDB)
		metadata := businessflow.NewClientMetadata("127.0.0.1", "Test User Agent")
		ctx := testingutil.CreateTestContext()

		t.Run("ContinuousBucketsIncludeEmptyDays", func(t *testing.T) {
			merchant, err := fixtures.CreateTestMerchant()
			require.NoError(t, err)
			code, err := fixtures.CreateTestCode(merchant.ID)
			require.NoError(t, err)

			today := utils.DayStart(utils.UTCNow())
			twoDaysAgo := today.AddDate(0, 0, -2)
			yesterday := today.AddDate(0, 0, -1)

			_, err = fixtures.CreateTestScanAt(code, testingutil.RandomSessionID(), twoDaysAgo.Add(2*time.Hour))
			require.NoError(t, err)
			_, err = fixtures.CreateTestScanAt(code, testingutil.RandomSessionID(), twoDaysAgo.Add(20*time.Hour))
			require.NoError(t, err)
			submission, err := fixtures.CreateTestSubmissionAt(code, 5, yesterday.Add(5*time.Hour))
			require.NoError(t, err)
			_, err = fixtures.CreateTestClick(submission.ID, models.CTATypeGoogleDirect)
			require.NoError(t, err)

			result, err := flow.DailySeries(ctx, &dto.DailyAnalyticsRequest{
				MerchantID: merchant.ID,
				Days:       7,
			}, metadata)
			require.NoError(t, err)
			assert.Equal(t, 7, result.Days)
			require.Len(t, result.Buckets, 7)

			since := today.AddDate(0, 0, -6)
			for i, bucket := range result.Buckets {
				assert.Equal(t, since.AddDate(0, 0, i).Format("2006-01-02"), bucket.Day)
			}

			assert.Equal(t, int64(2), result.Buckets[4].Scans)
			assert.Equal(t, int64(1), result.Buckets[5].Submissions)
			// The click is recorded at wall-clock time, so it lands on today.
			assert.Equal(t, int64(1), result.Buckets[6].Clicks)

			for i, bucket := range result.Buckets[:4] {
				assert.Zero(t, bucket.Scans, "bucket %d", i)
				assert.Zero(t, bucket.Submissions, "bucket %d", i)
				assert.Zero(t, bucket.Clicks, "bucket %d", i)
			}
		})

		t.Run("DefaultsToThirtyDays", func(t *testing.T) {
			merchant, err := fixtures.CreateBareMerchant()
			require.NoError(t, err)

			result, err := flow.DailySeries(ctx, &dto.DailyAnalyticsRequest{
				MerchantID: merchant.ID,
			}, metadata)
			require.NoError(t, err)
			assert.Equal(t, 30, result.Days)
			assert.Len(t, result.Buckets, 30)
		})

		t.Run("SeriesIsOwnerScoped", func(t *testing.T) {
			merchant, err := fixtures.CreateBareMerchant()
			require.NoError(t, err)
			stranger, err := fixtures.CreateBareMerchant()
			require.NoError(t, err)
			_, _, err = fixtures.CreateCodeWithScans(stranger.ID, 3)
			require.NoError(t, err)

			result, err := flow.DailySeries(ctx, &dto.DailyAnalyticsRequest{
				MerchantID: merchant.ID,
				Days:       7,
			}, metadata)
			require.NoError(t, err)
			for _, bucket := range result.Buckets {
				assert.Zero(t, bucket.Scans)
			}
		})

		t.Run("OversizedWindow", func(t *testing.T) {
			merchant, err := fixtures.CreateBareMerchant()
			require.NoError(t, err)

			_, err = flow.DailySeries(ctx, &dto.DailyAnalyticsRequest{
				MerchantID: merchant.ID,
				Days:       366,
			}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsInvalidDayRange(err))
		})

		t.Run("UnknownMerchant", func(t *testing.T) {
			_, err := flow.DailySeries(ctx, &dto.DailyAnalyticsRequest{
				MerchantID: 99999,
				Days:       7,
			}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsMerchantNotFound(err))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestAnalyticsSummary(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		flow := newAnalyticsFlow(testDB)
		metadata := businessflow.NewClientMetadata("127.0.0.1", "Test User Agent")
		ctx := testingutil.CreateTestContext()

		// A 7-day window runs [today-6d, tomorrow); the comparison window is
		// the 7 days immediately before it.
		currentStart := utils.DayStart(utils.UTCNow()).AddDate(0, 0, -6)
		previousDay := currentStart.AddDate(0, 0, -1)

		t.Run("GrowthAgainstPreviousWindow", func(t *testing.T) {
			merchant, err := fixtures.CreateTestMerchant()
			require.NoError(t, err)
			code, err := fixtures.CreateTestCode(merchant.ID)
			require.NoError(t, err)

			for i := 0; i < 4; i++ {
				_, err := fixtures.CreateTestScanAt(code, testingutil.RandomSessionID(), currentStart.Add(time.Duration(i+1)*time.Hour))
				require.NoError(t, err)
			}
			for i := 0; i < 2; i++ {
				_, err := fixtures.CreateTestScanAt(code, testingutil.RandomSessionID(), previousDay.Add(time.Duration(i+1)*time.Hour))
				require.NoError(t, err)
			}

			_, err = fixtures.CreateTestSubmissionAt(code, 5, currentStart.Add(3*time.Hour))
			require.NoError(t, err)
			_, err = fixtures.CreateTestSubmissionAt(code, 4, currentStart.Add(4*time.Hour))
			require.NoError(t, err)
			_, err = fixtures.CreateTestSubmissionAt(code, 2, previousDay.Add(3*time.Hour))
			require.NoError(t, err)

			result, err := flow.Summary(ctx, &dto.AnalyticsSummaryRequest{
				MerchantID: merchant.ID,
				Days:       7,
			}, metadata)
			require.NoError(t, err)
			assert.Equal(t, 7, result.Days)

			assert.Equal(t, int64(4), result.Scans.Current)
			assert.Equal(t, int64(2), result.Scans.Previous)
			assert.InDelta(t, 100.0, result.Scans.ChangePct, 0.001)

			assert.Equal(t, int64(2), result.Submissions.Current)
			assert.Equal(t, int64(1), result.Submissions.Previous)
			assert.InDelta(t, 100.0, result.Submissions.ChangePct, 0.001)

			// Growth from an empty comparison window reads as +100%.
			assert.Equal(t, int64(2), result.PositiveSubmissions.Current)
			assert.Equal(t, int64(0), result.PositiveSubmissions.Previous)
			assert.InDelta(t, 100.0, result.PositiveSubmissions.ChangePct, 0.001)

			assert.Equal(t, int64(0), result.Clicks.Current)
			assert.Equal(t, int64(0), result.Clicks.Previous)
			assert.InDelta(t, 0.0, result.Clicks.ChangePct, 0.001)

			require.NotNil(t, result.AverageRating)
			assert.InDelta(t, 4.5, *result.AverageRating, 0.001)
		})

		t.Run("DeclineReadsNegative", func(t *testing.T) {
			merchant, err := fixtures.CreateBareMerchant()
			require.NoError(t, err)
			code, err := fixtures.CreateTestCode(merchant.ID)
			require.NoError(t, err)

			_, err = fixtures.CreateTestScanAt(code, testingutil.RandomSessionID(), currentStart.Add(time.Hour))
			require.NoError(t, err)
			for i := 0; i < 4; i++ {
				_, err := fixtures.CreateTestScanAt(code, testingutil.RandomSessionID(), previousDay.Add(time.Duration(i+1)*time.Hour))
				require.NoError(t, err)
			}

			result, err := flow.Summary(ctx, &dto.AnalyticsSummaryRequest{
				MerchantID: merchant.ID,
				Days:       7,
			}, metadata)
			require.NoError(t, err)
			assert.Equal(t, int64(1), result.Scans.Current)
			assert.Equal(t, int64(4), result.Scans.Previous)
			assert.InDelta(t, -75.0, result.Scans.ChangePct, 0.001)
		})

		t.Run("QuietMerchantReadsFlat", func(t *testing.T) {
			merchant, err := fixtures.CreateBareMerchant()
			require.NoError(t, err)

			result, err := flow.Summary(ctx, &dto.AnalyticsSummaryRequest{
				MerchantID: merchant.ID,
				Days:       7,
			}, metadata)
			require.NoError(t, err)
			for _, metric := range []dto.MetricWithChangeDTO{result.Scans, result.Submissions, result.PositiveSubmissions, result.Clicks} {
				assert.Zero(t, metric.Current)
				assert.Zero(t, metric.Previous)
				assert.Zero(t, metric.ChangePct)
			}
			assert.Nil(t, result.AverageRating)
		})

		t.Run("AverageRatingNeedsCurrentSubmissions", func(t *testing.T) {
			merchant, err := fixtures.CreateBareMerchant()
			require.NoError(t, err)
			code, err := fixtures.CreateTestCode(merchant.ID)
			require.NoError(t, err)
			_, err = fixtures.CreateTestSubmissionAt(code, 5, previousDay.Add(time.Hour))
			require.NoError(t, err)

			result, err := flow.Summary(ctx, &dto.AnalyticsSummaryRequest{
				MerchantID: merchant.ID,
				Days:       7,
			}, metadata)
			require.NoError(t, err)
			assert.Equal(t, int64(0), result.Submissions.Current)
			assert.Equal(t, int64(1), result.Submissions.Previous)
			assert.InDelta(t, -100.0, result.Submissions.ChangePct, 0.001)
			assert.Nil(t, result.AverageRating)
		})

		t.Run("DefaultsToThirtyDays", func(t *testing.T) {
			merchant, err := fixtures.CreateBareMerchant()
			require.NoError(t, err)

			result, err := flow.Summary(ctx, &dto.AnalyticsSummaryRequest{
				MerchantID: merchant.ID,
			}, metadata)
			require.NoError(t, err)
			assert.Equal(t, 30, result.Days)
		})

		t.Run("OversizedWindow", func(t *testing.T) {
			merchant, err := fixtures.CreateBareMerchant()
			require.NoError(t, err)

			_, err = flow.Summary(ctx, &dto.AnalyticsSummaryRequest{
				MerchantID: merchant.ID,
				Days:       400,
			}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsInvalidDayRange(err))
		})

		t.Run("UnknownMerchant", func(t *testing.T) {
			_, err := flow.Summary(ctx, &dto.AnalyticsSummaryRequest{
				MerchantID: 99999,
				Days:       7,
			}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsMerchantNotFound(err))
		})

		return nil
	})
	require.NoError(t, err)
}
