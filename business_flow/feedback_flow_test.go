package businessflow_test

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ratetap/ratetap/app/dto"
	"github.com/ratetap/ratetap/app/services"
	businessflow "github.com/ratetap/ratetap/business_flow"
	"github.com/ratetap/ratetap/config"
	"github.com/ratetap/ratetap/models"
	"github.com/ratetap/ratetap/repository"
	testingutil "github.com/ratetap/ratetap/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveCode(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)

		// Initialize repositories
		codeRepo := repository.NewIssuedCodeRepository(testDB.DB)
		merchantRepo := repository.NewMerchantRepository(testDB.DB)

		// Initialize business flow without a cache backend
		qr := services.NewMockQRService()
		flow := businessflow.NewResolveFlow(
			codeRepo,
			merchantRepo,
			qr,
			nil,
			&config.CacheConfig{Enabled: false},
			config.CodesConfig{QRSize: 256, LogoFetchTimeout: time.Second},
			config.DeploymentConfig{PublicBaseURL: "https://rate.example.com"},
		)
		metadata := businessflow.NewClientMetadata("127.0.0.1", "Test User Agent")
		ctx := testingutil.CreateTestContext()

		t.Run("ActiveCodeResolves", func(t *testing.T) {
			merchant, err := fixtures.CreateTestMerchant()
			require.NoError(t, err)
			code, err := fixtures.CreateTestCode(merchant.ID)
			require.NoError(t, err)

			result, err := flow.Resolve(ctx, code.ShortCode, metadata)
			require.NoError(t, err)
			assert.Equal(t, "Code resolved", result.Message)
			assert.Equal(t, code.UUID.String(), result.Code.UUID)
			assert.Equal(t, code.ShortCode, result.Code.ShortCode)
			assert.Equal(t, "https://rate.example.com/r/"+code.ShortCode, result.Code.ScanURL)
			assert.Empty(t, result.Code.QRImage)

			assert.Equal(t, merchant.Name, result.Branding.Name)
			require.NotNil(t, result.Branding.ReviewPlatformID)
			assert.Equal(t, *merchant.Branding.ReviewPlatformID, *result.Branding.ReviewPlatformID)
			require.NotNil(t, result.Branding.ContactEmail)
			require.NotNil(t, result.Branding.ContactPhone)
			require.NotNil(t, result.Branding.PrimaryColor)
		})

		t.Run("BareMerchantOmitsOptionalBranding", func(t *testing.T) {
			merchant, err := fixtures.CreateBareMerchant()
			require.NoError(t, err)
			code, err := fixtures.CreateTestCode(merchant.ID)
			require.NoError(t, err)

			result, err := flow.Resolve(ctx, code.ShortCode, metadata)
			require.NoError(t, err)
			assert.Equal(t, merchant.Name, result.Branding.Name)
			assert.Nil(t, result.Branding.LogoURL)
			assert.Nil(t, result.Branding.ReviewPlatformID)
			assert.Nil(t, result.Branding.ContactEmail)
			assert.Nil(t, result.Branding.ContactPhone)
		})

		t.Run("ArchivedAndUnknownAreIndistinguishable", func(t *testing.T) {
			merchant, err := fixtures.CreateTestMerchant()
			require.NoError(t, err)
			archived, err := fixtures.CreateArchivedCode(merchant.ID)
			require.NoError(t, err)

			_, archErr := flow.Resolve(ctx, archived.ShortCode, metadata)
			require.Error(t, archErr)
			assert.True(t, businessflow.IsCodeNotFound(archErr))

			_, unknownErr := flow.Resolve(ctx, "zzzz9999", metadata)
			require.Error(t, unknownErr)
			assert.True(t, businessflow.IsCodeNotFound(unknownErr))

			var archBErr, unknownBErr *businessflow.BusinessError
			require.ErrorAs(t, archErr, &archBErr)
			require.ErrorAs(t, unknownErr, &unknownBErr)
			assert.Equal(t, unknownBErr.Code, archBErr.Code)
			assert.Equal(t, unknownBErr.Message, archBErr.Message)
		})

		t.Run("BlankShortCode", func(t *testing.T) {
			_, err := flow.Resolve(ctx, "   ", metadata)
			require.Error(t, err)

			var berr *businessflow.BusinessError
			require.ErrorAs(t, err, &berr)
			assert.Equal(t, "VALIDATION_ERROR", berr.Code)
		})

		t.Run("QRImageForActiveCode", func(t *testing.T) {
			merchant, err := fixtures.CreateTestMerchant()
			require.NoError(t, err)
			code, err := fixtures.CreateTestCode(merchant.ID)
			require.NoError(t, err)

			png, err := flow.QRImage(ctx, code.ShortCode)
			require.NoError(t, err)
			require.Greater(t, len(png), 8)
			assert.Equal(t, "\x89PNG", string(png[:4]))

			items := qr.GetRenderedItems()
			require.NotEmpty(t, items)
			last := items[len(items)-1]
			assert.Equal(t, "https://rate.example.com/r/"+code.ShortCode, last.Target)
			assert.Equal(t, 256, last.Size)
			assert.True(t, last.HadLogo)
		})

		t.Run("QRImageForArchivedCode", func(t *testing.T) {
			merchant, err := fixtures.CreateTestMerchant()
			require.NoError(t, err)
			archived, err := fixtures.CreateArchivedCode(merchant.ID)
			require.NoError(t, err)

			_, err = flow.QRImage(ctx, archived.ShortCode)
			require.Error(t, err)
			assert.True(t, businessflow.IsCodeNotFound(err))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestRecordScan(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)

		// Initialize repositories
		codeRepo := repository.NewIssuedCodeRepository(testDB.DB)
		scanRepo := repository.NewScanEventRepository(testDB.DB)

		// Initialize business flow
		flow := businessflow.NewScanFlow(scanRepo, codeRepo)
		metadata := businessflow.NewClientMetadata("127.0.0.1", "Test User Agent")
		ctx := testingutil.CreateTestContext()

		merchant, err := fixtures.CreateTestMerchant()
		require.NoError(t, err)

		t.Run("RecordsScanEvent", func(t *testing.T) {
			code, err := fixtures.CreateTestCode(merchant.ID)
			require.NoError(t, err)

			sessionID := testingutil.RandomSessionID()
			ua := "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X)"
			fingerprint := strings.Repeat("ab", 32)
			result, err := flow.RecordScan(ctx, &dto.RecordScanRequest{
				CodeUUID:      code.UUID.String(),
				SessionID:     sessionID,
				UserAgent:     &ua,
				IPFingerprint: fingerprint,
			}, metadata)
			require.NoError(t, err)
			assert.Equal(t, "Scan recorded", result.Message)
			assert.Equal(t, code.UUID.String(), result.Scan.CodeUUID)
			assert.Equal(t, sessionID, result.Scan.SessionID)
			assert.NotEmpty(t, result.Scan.UUID)

			stored, err := scanRepo.LatestByCodeAndSession(ctx, code.ID, sessionID)
			require.NoError(t, err)
			require.NotNil(t, stored)
			assert.Equal(t, fingerprint, stored.IPFingerprint)
			require.NotNil(t, stored.UserAgent)
			assert.Equal(t, ua, *stored.UserAgent)
			assert.Equal(t, merchant.ID, stored.OwnerID)
		})

		t.Run("ArchivedCodeStillRecords", func(t *testing.T) {
			archived, err := fixtures.CreateArchivedCode(merchant.ID)
			require.NoError(t, err)

			result, err := flow.RecordScan(ctx, &dto.RecordScanRequest{
				CodeUUID:  archived.UUID.String(),
				SessionID: testingutil.RandomSessionID(),
			}, metadata)
			require.NoError(t, err)
			assert.Equal(t, archived.UUID.String(), result.Scan.CodeUUID)
		})

		t.Run("DuplicateSessionAccepted", func(t *testing.T) {
			code, err := fixtures.CreateTestCode(merchant.ID)
			require.NoError(t, err)
			sessionID := testingutil.RandomSessionID()

			for i := 0; i < 2; i++ {
				_, err := flow.RecordScan(ctx, &dto.RecordScanRequest{
					CodeUUID:  code.UUID.String(),
					SessionID: sessionID,
				}, metadata)
				require.NoError(t, err)
			}

			var count int64
			err = testDB.DB.WithContext(ctx).Model(&models.ScanEvent{}).Where("code_id = ?", code.ID).Count(&count).Error
			require.NoError(t, err)
			assert.Equal(t, int64(2), count)
		})

		t.Run("UnknownCode", func(t *testing.T) {
			_, err := flow.RecordScan(ctx, &dto.RecordScanRequest{
				CodeUUID:  uuid.New().String(),
				SessionID: testingutil.RandomSessionID(),
			}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsCodeNotFound(err))
		})

		t.Run("BlankSession", func(t *testing.T) {
			code, err := fixtures.CreateTestCode(merchant.ID)
			require.NoError(t, err)

			_, err = flow.RecordScan(ctx, &dto.RecordScanRequest{
				CodeUUID:  code.UUID.String(),
				SessionID: "   ",
			}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsSessionIDRequired(err))
		})

		t.Run("MalformedCodeUUID", func(t *testing.T) {
			_, err := flow.RecordScan(ctx, &dto.RecordScanRequest{
				CodeUUID:  "not-a-uuid",
				SessionID: testingutil.RandomSessionID(),
			}, metadata)
			require.Error(t, err)

			var berr *businessflow.BusinessError
			require.ErrorAs(t, err, &berr)
			assert.Equal(t, "VALIDATION_ERROR", berr.Code)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestSubmitReview(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)

		// Initialize repositories
		codeRepo := repository.NewIssuedCodeRepository(testDB.DB)
		merchantRepo := repository.NewMerchantRepository(testDB.DB)
		scanRepo := repository.NewScanEventRepository(testDB.DB)
		submissionRepo := repository.NewReviewSubmissionRepository(testDB.DB)

		// Initialize business flow with a captive notifier
		notifier := services.NewMockNotificationService()
		flow := businessflow.NewSubmissionFlow(
			submissionRepo,
			scanRepo,
			codeRepo,
			merchantRepo,
			notifier,
			config.AdminConfig{AlertEmail: "alerts@rate.example.com"},
		)
		metadata := businessflow.NewClientMetadata("127.0.0.1", "Test User Agent")
		ctx := testingutil.CreateTestContext()

		emailReached := func(recipient string) func() bool {
			return func() bool {
				for _, email := range notifier.GetSentEmails() {
					if email.Recipient == recipient {
						return true
					}
				}
				return false
			}
		}

		t.Run("PositiveRatingLinksScan", func(t *testing.T) {
			merchant, err := fixtures.CreateTestMerchant()
			require.NoError(t, err)
			code, err := fixtures.CreateTestCode(merchant.ID)
			require.NoError(t, err)
			sessionID := testingutil.RandomSessionID()
			scan, err := fixtures.CreateTestScan(code, sessionID)
			require.NoError(t, err)

			comment := "  Great service  "
			result, err := flow.Submit(ctx, &dto.SubmitReviewRequest{
				CodeUUID:  code.UUID.String(),
				SessionID: sessionID,
				Rating:    5,
				Comment:   &comment,
			}, metadata)
			require.NoError(t, err)
			assert.Equal(t, "Review submitted", result.Message)
			assert.Equal(t, "positive", result.Outcome)
			assert.Equal(t, "positive", result.Submission.Outcome)
			assert.False(t, result.Submission.GoogleClicked)
			assert.False(t, result.Submission.ContactClicked)
			assert.Equal(t, "none", result.Submission.LastCTA)
			require.NotNil(t, result.Submission.ScanUUID)
			assert.Equal(t, scan.UUID.String(), *result.Submission.ScanUUID)
			require.NotNil(t, result.Submission.Comment)
			assert.Equal(t, "Great service", *result.Submission.Comment)

			// Positive outcomes never alert anyone.
			assert.Empty(t, notifier.GetSentEmails())
		})

		t.Run("RatingFourIsPositive", func(t *testing.T) {
			merchant, err := fixtures.CreateBareMerchant()
			require.NoError(t, err)
			code, err := fixtures.CreateTestCode(merchant.ID)
			require.NoError(t, err)

			result, err := flow.Submit(ctx, &dto.SubmitReviewRequest{
				CodeUUID:  code.UUID.String(),
				SessionID: testingutil.RandomSessionID(),
				Rating:    4,
			}, metadata)
			require.NoError(t, err)
			assert.Equal(t, "positive", result.Outcome)
		})

		t.Run("NegativeAlertsMerchantContact", func(t *testing.T) {
			merchant, err := fixtures.CreateTestMerchant()
			require.NoError(t, err)
			code, err := fixtures.CreateTestCode(merchant.ID)
			require.NoError(t, err)

			comment := "Cold food"
			result, err := flow.Submit(ctx, &dto.SubmitReviewRequest{
				CodeUUID:  code.UUID.String(),
				SessionID: testingutil.RandomSessionID(),
				Rating:    2,
				Comment:   &comment,
			}, metadata)
			require.NoError(t, err)
			assert.Equal(t, "negative", result.Outcome)

			recipient := *merchant.Branding.ContactEmail
			assert.Eventually(t, emailReached(recipient), time.Second, 10*time.Millisecond)
			for _, email := range notifier.GetSentEmails() {
				if email.Recipient != recipient {
					continue
				}
				assert.Contains(t, email.Subject, code.Label)
				assert.Contains(t, email.Body, "Cold food")
			}
		})

		t.Run("NegativeFallsBackToAdminAlert", func(t *testing.T) {
			merchant, err := fixtures.CreateBareMerchant()
			require.NoError(t, err)
			code, err := fixtures.CreateTestCode(merchant.ID)
			require.NoError(t, err)

			_, err = flow.Submit(ctx, &dto.SubmitReviewRequest{
				CodeUUID:  code.UUID.String(),
				SessionID: testingutil.RandomSessionID(),
				Rating:    1,
			}, metadata)
			require.NoError(t, err)

			assert.Eventually(t, emailReached("alerts@rate.example.com"), time.Second, 10*time.Millisecond)
		})

		t.Run("DirectSubmissionHasNoScan", func(t *testing.T) {
			merchant, err := fixtures.CreateBareMerchant()
			require.NoError(t, err)
			code, err := fixtures.CreateTestCode(merchant.ID)
			require.NoError(t, err)

			result, err := flow.Submit(ctx, &dto.SubmitReviewRequest{
				CodeUUID:  code.UUID.String(),
				SessionID: testingutil.RandomSessionID(),
				Rating:    5,
			}, metadata)
			require.NoError(t, err)
			assert.Nil(t, result.Submission.ScanUUID)
		})

		t.Run("RatingBounds", func(t *testing.T) {
			merchant, err := fixtures.CreateBareMerchant()
			require.NoError(t, err)
			code, err := fixtures.CreateTestCode(merchant.ID)
			require.NoError(t, err)

			for _, rating := range []int{0, 6, -1} {
				_, err := flow.Submit(ctx, &dto.SubmitReviewRequest{
					CodeUUID:  code.UUID.String(),
					SessionID: testingutil.RandomSessionID(),
					Rating:    rating,
				}, metadata)
				require.Error(t, err)
				assert.True(t, businessflow.IsRatingOutOfRange(err), "rating %d must be rejected", rating)
			}
		})

		t.Run("CommentTooLong", func(t *testing.T) {
			merchant, err := fixtures.CreateBareMerchant()
			require.NoError(t, err)
			code, err := fixtures.CreateTestCode(merchant.ID)
			require.NoError(t, err)

			comment := strings.Repeat("x", 2001)
			_, err = flow.Submit(ctx, &dto.SubmitReviewRequest{
				CodeUUID:  code.UUID.String(),
				SessionID: testingutil.RandomSessionID(),
				Rating:    5,
				Comment:   &comment,
			}, metadata)
			require.Error(t, err)

			var berr *businessflow.BusinessError
			require.ErrorAs(t, err, &berr)
			assert.Equal(t, "VALIDATION_ERROR", berr.Code)
		})

		t.Run("BlankCommentDropped", func(t *testing.T) {
			merchant, err := fixtures.CreateBareMerchant()
			require.NoError(t, err)
			code, err := fixtures.CreateTestCode(merchant.ID)
			require.NoError(t, err)

			comment := "   "
			result, err := flow.Submit(ctx, &dto.SubmitReviewRequest{
				CodeUUID:  code.UUID.String(),
				SessionID: testingutil.RandomSessionID(),
				Rating:    5,
				Comment:   &comment,
			}, metadata)
			require.NoError(t, err)
			assert.Nil(t, result.Submission.Comment)
		})

		t.Run("UnknownCode", func(t *testing.T) {
			_, err := flow.Submit(ctx, &dto.SubmitReviewRequest{
				CodeUUID:  uuid.New().String(),
				SessionID: testingutil.RandomSessionID(),
				Rating:    5,
			}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsCodeNotFound(err))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestRecordClick(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)

		// Initialize repositories
		codeRepo := repository.NewIssuedCodeRepository(testDB.DB)
		scanRepo := repository.NewScanEventRepository(testDB.DB)
		submissionRepo := repository.NewReviewSubmissionRepository(testDB.DB)
		clickRepo := repository.NewCTAClickRepository(testDB.DB)

		// Initialize business flow
		flow := businessflow.NewAttributionFlow(clickRepo, submissionRepo, scanRepo, codeRepo, testDB.DB)
		metadata := businessflow.NewClientMetadata("127.0.0.1", "Test User Agent")
		ctx := testingutil.CreateTestContext()

		merchant, err := fixtures.CreateTestMerchant()
		require.NoError(t, err)

		t.Run("GoogleThenContactJourney", func(t *testing.T) {
			code, err := fixtures.CreateTestCode(merchant.ID)
			require.NoError(t, err)
			submission, err := fixtures.CreateTestSubmission(code, nil, 5)
			require.NoError(t, err)

			first, err := flow.RecordClick(ctx, &dto.RecordClickRequest{
				SubmissionUUID: submission.UUID.String(),
				CTAType:        "google_direct",
			}, metadata)
			require.NoError(t, err)
			assert.Equal(t, "Click recorded", first.Message)
			assert.Equal(t, "google_direct", first.Click.CTAType)
			assert.Equal(t, submission.UUID.String(), first.Click.SubmissionUUID)
			assert.True(t, first.Submission.GoogleClicked)
			assert.False(t, first.Submission.ContactClicked)
			assert.Equal(t, "google_direct", first.Submission.LastCTA)
			assert.Equal(t, code.UUID.String(), first.Submission.CodeUUID)

			second, err := flow.RecordClick(ctx, &dto.RecordClickRequest{
				SubmissionUUID: submission.UUID.String(),
				CTAType:        "contact_email",
			}, metadata)
			require.NoError(t, err)
			assert.True(t, second.Submission.GoogleClicked, "an earlier google click must survive a contact click")
			assert.True(t, second.Submission.ContactClicked)
			assert.Equal(t, "contact", second.Submission.LastCTA)

			clicks, err := clickRepo.ListBySubmission(ctx, submission.ID)
			require.NoError(t, err)
			require.Len(t, clicks, 2)
			assert.Equal(t, models.CTATypeGoogleDirect, clicks[0].CTAType)
			assert.Equal(t, models.CTATypeContactEmail, clicks[1].CTAType)
		})

		t.Run("ContactPhoneFoldsToContact", func(t *testing.T) {
			code, err := fixtures.CreateTestCode(merchant.ID)
			require.NoError(t, err)
			submission, err := fixtures.CreateTestSubmission(code, nil, 2)
			require.NoError(t, err)

			result, err := flow.RecordClick(ctx, &dto.RecordClickRequest{
				SubmissionUUID: submission.UUID.String(),
				CTAType:        "contact_phone",
			}, metadata)
			require.NoError(t, err)
			assert.True(t, result.Submission.ContactClicked)
			assert.False(t, result.Submission.GoogleClicked)
			assert.Equal(t, "contact", result.Submission.LastCTA)
		})

		t.Run("GoogleCopyKeepsItsOwnSummary", func(t *testing.T) {
			code, err := fixtures.CreateTestCode(merchant.ID)
			require.NoError(t, err)
			submission, err := fixtures.CreateTestSubmission(code, nil, 5)
			require.NoError(t, err)

			result, err := flow.RecordClick(ctx, &dto.RecordClickRequest{
				SubmissionUUID: submission.UUID.String(),
				CTAType:        "google_copy",
			}, metadata)
			require.NoError(t, err)
			assert.True(t, result.Submission.GoogleClicked)
			assert.Equal(t, "google_copy", result.Submission.LastCTA)
		})

		t.Run("RepeatClicksAppend", func(t *testing.T) {
			code, err := fixtures.CreateTestCode(merchant.ID)
			require.NoError(t, err)
			submission, err := fixtures.CreateTestSubmission(code, nil, 5)
			require.NoError(t, err)

			for i := 0; i < 3; i++ {
				_, err := flow.RecordClick(ctx, &dto.RecordClickRequest{
					SubmissionUUID: submission.UUID.String(),
					CTAType:        "google_direct",
				}, metadata)
				require.NoError(t, err)
			}

			count, err := clickRepo.CountBySubmission(ctx, submission.ID)
			require.NoError(t, err)
			assert.Equal(t, int64(3), count)
		})

		t.Run("ScanLinkSurvivesClick", func(t *testing.T) {
			code, err := fixtures.CreateTestCode(merchant.ID)
			require.NoError(t, err)
			sessionID := testingutil.RandomSessionID()
			scan, err := fixtures.CreateTestScan(code, sessionID)
			require.NoError(t, err)
			submission, err := fixtures.CreateTestSubmission(code, &scan.ID, 5)
			require.NoError(t, err)

			result, err := flow.RecordClick(ctx, &dto.RecordClickRequest{
				SubmissionUUID: submission.UUID.String(),
				CTAType:        "google_direct",
			}, metadata)
			require.NoError(t, err)
			require.NotNil(t, result.Submission.ScanUUID)
			assert.Equal(t, scan.UUID.String(), *result.Submission.ScanUUID)
		})

		t.Run("UnknownSubmission", func(t *testing.T) {
			_, err := flow.RecordClick(ctx, &dto.RecordClickRequest{
				SubmissionUUID: uuid.New().String(),
				CTAType:        "google_direct",
			}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsSubmissionNotFound(err))
		})

		t.Run("InvalidCTAType", func(t *testing.T) {
			code, err := fixtures.CreateTestCode(merchant.ID)
			require.NoError(t, err)
			submission, err := fixtures.CreateTestSubmission(code, nil, 5)
			require.NoError(t, err)

			_, err = flow.RecordClick(ctx, &dto.RecordClickRequest{
				SubmissionUUID: submission.UUID.String(),
				CTAType:        "sms",
			}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsCTATypeInvalid(err))
		})

		t.Run("MalformedSubmissionUUID", func(t *testing.T) {
			_, err := flow.RecordClick(ctx, &dto.RecordClickRequest{
				SubmissionUUID: "not-a-uuid",
				CTAType:        "google_direct",
			}, metadata)
			require.Error(t, err)

			var berr *businessflow.BusinessError
			require.ErrorAs(t, err, &berr)
			assert.Equal(t, "VALIDATION_ERROR", berr.Code)
		})

		return nil
	})
	require.NoError(t, err)
}
