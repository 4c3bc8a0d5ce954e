package repository_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ratetap/ratetap/models"
	"github.com/ratetap/ratetap/repository"
	testingutil "github.com/ratetap/ratetap/testing"
	"github.com/ratetap/ratetap/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestMerchantRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		repo := repository.NewMerchantRepository(testDB.DB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		t.Run("ByID", func(t *testing.T) {
			original, err := fixtures.CreateTestMerchant()
			require.NoError(t, err)
			require.NotZero(t, original.ID)

			merchant, err := repo.ByID(ctx, original.ID)
			require.NoError(t, err)
			require.NotNil(t, merchant)
			assert.Equal(t, original.ID, merchant.ID)
			assert.Equal(t, original.Name, merchant.Name)
		})

		t.Run("ByIDNotFound", func(t *testing.T) {
			merchant, err := repo.ByID(ctx, 99999)
			assert.NoError(t, err)
			assert.Nil(t, merchant)
		})

		t.Run("ByUUID", func(t *testing.T) {
			original, err := fixtures.CreateTestMerchant()
			require.NoError(t, err)

			merchant, err := repo.ByUUID(ctx, original.UUID)
			require.NoError(t, err)
			require.NotNil(t, merchant)
			assert.Equal(t, original.ID, merchant.ID)
		})

		t.Run("ByUUIDNotFound", func(t *testing.T) {
			merchant, err := repo.ByUUID(ctx, uuid.New())
			assert.NoError(t, err)
			assert.Nil(t, merchant)
		})

		t.Run("BrandingSurvivesStorage", func(t *testing.T) {
			original, err := fixtures.CreateTestMerchant()
			require.NoError(t, err)

			merchant, err := repo.ByID(ctx, original.ID)
			require.NoError(t, err)
			require.NotNil(t, merchant)
			require.NotNil(t, merchant.Branding.ReviewPlatformID)
			assert.Equal(t, *original.Branding.ReviewPlatformID, *merchant.Branding.ReviewPlatformID)
			require.NotNil(t, merchant.Branding.ContactEmail)
			assert.Equal(t, *original.Branding.ContactEmail, *merchant.Branding.ContactEmail)
		})

		t.Run("EmptyBrandingStaysEmpty", func(t *testing.T) {
			original, err := fixtures.CreateBareMerchant()
			require.NoError(t, err)

			merchant, err := repo.ByID(ctx, original.ID)
			require.NoError(t, err)
			require.NotNil(t, merchant)
			assert.Nil(t, merchant.Branding.LogoURL)
			assert.Nil(t, merchant.Branding.ReviewPlatformID)
			assert.Nil(t, merchant.Branding.ContactEmail)
			assert.Nil(t, merchant.Branding.ContactPhone)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestLocationRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		repo := repository.NewLocationRepository(testDB.DB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		merchant, err := fixtures.CreateTestMerchant()
		require.NoError(t, err)
		other, err := fixtures.CreateTestMerchant()
		require.NoError(t, err)

		t.Run("ByUUID", func(t *testing.T) {
			original, err := fixtures.CreateTestLocation(merchant.ID, "Hauptbahnhof")
			require.NoError(t, err)

			location, err := repo.ByUUID(ctx, original.UUID)
			require.NoError(t, err)
			require.NotNil(t, location)
			assert.Equal(t, "Hauptbahnhof", location.Name)
			assert.Equal(t, merchant.ID, location.MerchantID)
		})

		t.Run("ListByMerchantScopesToOwner", func(t *testing.T) {
			_, err := fixtures.CreateTestLocation(merchant.ID, "Westend")
			require.NoError(t, err)
			_, err = fixtures.CreateTestLocation(other.ID, "Altstadt")
			require.NoError(t, err)

			locations, err := repo.ListByMerchant(ctx, merchant.ID)
			require.NoError(t, err)
			require.NotEmpty(t, locations)
			for _, l := range locations {
				assert.Equal(t, merchant.ID, l.MerchantID)
			}
		})

		return nil
	})
	require.NoError(t, err)
}

func TestIssuedCodeRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		repo := repository.NewIssuedCodeRepository(testDB.DB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		merchant, err := fixtures.CreateTestMerchant()
		require.NoError(t, err)

		t.Run("ByShortCode", func(t *testing.T) {
			original, err := fixtures.CreateTestCode(merchant.ID)
			require.NoError(t, err)

			code, err := repo.ByShortCode(ctx, original.ShortCode)
			require.NoError(t, err)
			require.NotNil(t, code)
			assert.Equal(t, original.ID, code.ID)
			assert.Equal(t, models.CodeStatusActive, code.Status)
		})

		t.Run("ByShortCodeNotFound", func(t *testing.T) {
			code, err := repo.ByShortCode(ctx, "nosuch00")
			assert.NoError(t, err)
			assert.Nil(t, code)
		})

		t.Run("ByUUID", func(t *testing.T) {
			original, err := fixtures.CreateTestCode(merchant.ID)
			require.NoError(t, err)

			code, err := repo.ByUUID(ctx, original.UUID)
			require.NoError(t, err)
			require.NotNil(t, code)
			assert.Equal(t, original.ShortCode, code.ShortCode)
		})

		t.Run("DuplicateShortCodeIsTranslated", func(t *testing.T) {
			original, err := fixtures.CreateTestCode(merchant.ID)
			require.NoError(t, err)

			dup := &models.IssuedCode{
				ShortCode:  original.ShortCode,
				MerchantID: merchant.ID,
				Label:      "Clash 01",
				BatchID:    uuid.New(),
			}
			err = repo.Save(ctx, dup)
			require.Error(t, err)
			assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
		})

		t.Run("ExistingShortCodes", func(t *testing.T) {
			taken, err := fixtures.CreateTestCode(merchant.ID)
			require.NoError(t, err)

			existing, err := repo.ExistingShortCodes(ctx, []string{taken.ShortCode, "free0001", "free0002"})
			require.NoError(t, err)
			assert.Equal(t, []string{taken.ShortCode}, existing)

			existing, err = repo.ExistingShortCodes(ctx, nil)
			require.NoError(t, err)
			assert.Empty(t, existing)
		})

		t.Run("UpdateStatus", func(t *testing.T) {
			original, err := fixtures.CreateTestCode(merchant.ID)
			require.NoError(t, err)

			err = repo.UpdateStatus(ctx, original.ID, models.CodeStatusArchived)
			require.NoError(t, err)

			code, err := repo.ByID(ctx, original.ID)
			require.NoError(t, err)
			require.NotNil(t, code)
			assert.Equal(t, models.CodeStatusArchived, code.Status)
			assert.NotNil(t, code.UpdatedAt)
		})

		t.Run("UpdateStatusNotFound", func(t *testing.T) {
			err := repo.UpdateStatus(ctx, 99999, models.CodeStatusArchived)
			assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
		})

		t.Run("ByFilterBatchAndStatus", func(t *testing.T) {
			batchID := uuid.New()
			first, err := fixtures.CreateTestCodeInBatch(merchant.ID, batchID, "Counter 01")
			require.NoError(t, err)
			second, err := fixtures.CreateTestCodeInBatch(merchant.ID, batchID, "Counter 02")
			require.NoError(t, err)
			require.NoError(t, repo.UpdateStatus(ctx, second.ID, models.CodeStatusArchived))

			rows, err := repo.ByFilter(ctx, models.IssuedCodeFilter{BatchID: &batchID}, "id ASC", 0, 0)
			require.NoError(t, err)
			require.Len(t, rows, 2)
			assert.Equal(t, first.ID, rows[0].ID)

			active := models.CodeStatusActive
			rows, err = repo.ByFilter(ctx, models.IssuedCodeFilter{BatchID: &batchID, Status: &active}, "", 0, 0)
			require.NoError(t, err)
			require.Len(t, rows, 1)
			assert.Equal(t, first.ID, rows[0].ID)

			count, err := repo.Count(ctx, models.IssuedCodeFilter{BatchID: &batchID})
			require.NoError(t, err)
			assert.Equal(t, int64(2), count)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestScanEventRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		repo := repository.NewScanEventRepository(testDB.DB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		merchant, err := fixtures.CreateTestMerchant()
		require.NoError(t, err)
		code, err := fixtures.CreateTestCode(merchant.ID)
		require.NoError(t, err)

		t.Run("LatestByCodeAndSession", func(t *testing.T) {
			session := testingutil.RandomSessionID()
			older, err := fixtures.CreateTestScan(code, session)
			require.NoError(t, err)
			newer, err := fixtures.CreateTestScan(code, session)
			require.NoError(t, err)
			require.Greater(t, newer.ID, older.ID)

			scan, err := repo.LatestByCodeAndSession(ctx, code.ID, session)
			require.NoError(t, err)
			require.NotNil(t, scan)
			assert.Equal(t, newer.ID, scan.ID)
		})

		t.Run("LatestByCodeAndSessionNone", func(t *testing.T) {
			scan, err := repo.LatestByCodeAndSession(ctx, code.ID, "sess-never-recorded")
			assert.NoError(t, err)
			assert.Nil(t, scan)
		})

		t.Run("CountByOwnerBetweenIsHalfOpen", func(t *testing.T) {
			owner, err := fixtures.CreateTestMerchant()
			require.NoError(t, err)
			ownedCode, err := fixtures.CreateTestCode(owner.ID)
			require.NoError(t, err)

			from := utils.DayStart(utils.UTCNow()).AddDate(0, 0, -2)
			to := from.AddDate(0, 0, 1)

			_, err = fixtures.CreateTestScanAt(ownedCode, "", from)
			require.NoError(t, err)
			_, err = fixtures.CreateTestScanAt(ownedCode, "", from.Add(23*time.Hour))
			require.NoError(t, err)
			_, err = fixtures.CreateTestScanAt(ownedCode, "", to)
			require.NoError(t, err)

			count, err := repo.CountByOwnerBetween(ctx, owner.ID, from, to)
			require.NoError(t, err)
			assert.Equal(t, int64(2), count)
		})

		t.Run("DailyCountsByOwner", func(t *testing.T) {
			owner, err := fixtures.CreateTestMerchant()
			require.NoError(t, err)
			ownedCode, err := fixtures.CreateTestCode(owner.ID)
			require.NoError(t, err)

			dayOne := utils.DayStart(utils.UTCNow()).AddDate(0, 0, -3)
			dayTwo := dayOne.AddDate(0, 0, 1)
			for i := 0; i < 3; i++ {
				_, err = fixtures.CreateTestScanAt(ownedCode, "", dayOne.Add(time.Duration(i)*time.Hour))
				require.NoError(t, err)
			}
			_, err = fixtures.CreateTestScanAt(ownedCode, "", dayTwo.Add(5*time.Hour))
			require.NoError(t, err)

			rows, err := repo.DailyCountsByOwner(ctx, owner.ID, dayOne)
			require.NoError(t, err)
			require.Len(t, rows, 2)
			assert.Equal(t, dayOne.Format("2006-01-02"), rows[0].Day)
			assert.Equal(t, int64(3), rows[0].Total)
			assert.Equal(t, dayTwo.Format("2006-01-02"), rows[1].Day)
			assert.Equal(t, int64(1), rows[1].Total)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestReviewSubmissionRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		repo := repository.NewReviewSubmissionRepository(testDB.DB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		merchant, err := fixtures.CreateTestMerchant()
		require.NoError(t, err)
		code, err := fixtures.CreateTestCode(merchant.ID)
		require.NoError(t, err)

		t.Run("ByUUID", func(t *testing.T) {
			original, err := fixtures.CreateTestSubmission(code, nil, 5)
			require.NoError(t, err)

			submission, err := repo.ByUUID(ctx, original.UUID)
			require.NoError(t, err)
			require.NotNil(t, submission)
			assert.Equal(t, original.ID, submission.ID)
			assert.Equal(t, 5, submission.Rating)
			assert.Equal(t, models.LastCTANone, submission.LastCTA)
		})

		t.Run("ApplyClickFlagsAreMonotonic", func(t *testing.T) {
			original, err := fixtures.CreateTestSubmission(code, nil, 5)
			require.NoError(t, err)

			// Google click sets the google flag and the summary.
			err = repo.ApplyClick(ctx, original.ID, true, false, models.LastCTAGoogleDirect)
			require.NoError(t, err)

			submission, err := repo.ByID(ctx, original.ID)
			require.NoError(t, err)
			assert.True(t, submission.GoogleClicked)
			assert.False(t, submission.ContactClicked)
			assert.Equal(t, models.LastCTAGoogleDirect, submission.LastCTA)

			// A later contact click must not reset the google flag, but it
			// does take over the summary.
			err = repo.ApplyClick(ctx, original.ID, false, true, models.LastCTAContact)
			require.NoError(t, err)

			submission, err = repo.ByID(ctx, original.ID)
			require.NoError(t, err)
			assert.True(t, submission.GoogleClicked)
			assert.True(t, submission.ContactClicked)
			assert.Equal(t, models.LastCTAContact, submission.LastCTA)
		})

		t.Run("ApplyClickNotFound", func(t *testing.T) {
			err := repo.ApplyClick(ctx, 99999, true, false, models.LastCTAGoogleCopy)
			assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
		})

		t.Run("PositiveCountUsesThreshold", func(t *testing.T) {
			owner, err := fixtures.CreateTestMerchant()
			require.NoError(t, err)
			ownedCode, err := fixtures.CreateTestCode(owner.ID)
			require.NoError(t, err)

			at := utils.DayStart(utils.UTCNow()).AddDate(0, 0, -1)
			for _, rating := range []int{3, 4, 5} {
				_, err = fixtures.CreateTestSubmissionAt(ownedCode, rating, at)
				require.NoError(t, err)
			}

			from := at.AddDate(0, 0, -1)
			to := at.AddDate(0, 0, 2)
			total, err := repo.CountByOwnerBetween(ctx, owner.ID, from, to)
			require.NoError(t, err)
			assert.Equal(t, int64(3), total)

			positive, err := repo.PositiveCountByOwnerBetween(ctx, owner.ID, from, to)
			require.NoError(t, err)
			assert.Equal(t, int64(2), positive)
		})

		t.Run("AverageRating", func(t *testing.T) {
			owner, err := fixtures.CreateTestMerchant()
			require.NoError(t, err)
			ownedCode, err := fixtures.CreateTestCode(owner.ID)
			require.NoError(t, err)

			at := utils.DayStart(utils.UTCNow()).AddDate(0, 0, -1)
			for _, rating := range []int{2, 4} {
				_, err = fixtures.CreateTestSubmissionAt(ownedCode, rating, at)
				require.NoError(t, err)
			}

			from := at.AddDate(0, 0, -1)
			to := at.AddDate(0, 0, 2)
			avg, err := repo.AverageRatingByOwnerBetween(ctx, owner.ID, from, to)
			require.NoError(t, err)
			assert.InDelta(t, 3.0, avg, 0.001)
		})

		t.Run("AverageRatingEmptyWindow", func(t *testing.T) {
			owner, err := fixtures.CreateTestMerchant()
			require.NoError(t, err)

			from := utils.DayStart(utils.UTCNow()).AddDate(0, 0, -10)
			avg, err := repo.AverageRatingByOwnerBetween(ctx, owner.ID, from, from.AddDate(0, 0, 1))
			require.NoError(t, err)
			assert.Zero(t, avg)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestCTAClickRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		repo := repository.NewCTAClickRepository(testDB.DB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		merchant, err := fixtures.CreateTestMerchant()
		require.NoError(t, err)
		code, err := fixtures.CreateTestCode(merchant.ID)
		require.NoError(t, err)
		submission, err := fixtures.CreateTestSubmission(code, nil, 5)
		require.NoError(t, err)

		t.Run("ListBySubmissionKeepsOrder", func(t *testing.T) {
			_, err := fixtures.CreateTestClick(submission.ID, models.CTATypeGoogleDirect)
			require.NoError(t, err)
			_, err = fixtures.CreateTestClick(submission.ID, models.CTATypeGoogleDirect)
			require.NoError(t, err)
			_, err = fixtures.CreateTestClick(submission.ID, models.CTATypeContactEmail)
			require.NoError(t, err)

			clicks, err := repo.ListBySubmission(ctx, submission.ID)
			require.NoError(t, err)
			require.Len(t, clicks, 3)
			assert.Equal(t, models.CTATypeGoogleDirect, clicks[0].CTAType)
			assert.Equal(t, models.CTATypeGoogleDirect, clicks[1].CTAType)
			assert.Equal(t, models.CTATypeContactEmail, clicks[2].CTAType)

			count, err := repo.CountBySubmission(ctx, submission.ID)
			require.NoError(t, err)
			assert.Equal(t, int64(3), count)
		})

		t.Run("CountByOwnerBetweenJoinsThroughSubmissions", func(t *testing.T) {
			stranger, err := fixtures.CreateTestMerchant()
			require.NoError(t, err)
			strangerCode, err := fixtures.CreateTestCode(stranger.ID)
			require.NoError(t, err)
			strangerSub, err := fixtures.CreateTestSubmission(strangerCode, nil, 4)
			require.NoError(t, err)
			_, err = fixtures.CreateTestClick(strangerSub.ID, models.CTATypeGoogleCopy)
			require.NoError(t, err)

			from := utils.DayStart(utils.UTCNow()).AddDate(0, 0, -1)
			to := from.AddDate(0, 0, 3)

			count, err := repo.CountByOwnerBetween(ctx, stranger.ID, from, to)
			require.NoError(t, err)
			assert.Equal(t, int64(1), count)
		})

		return nil
	})
	require.NoError(t, err)
}
