// Package testing provides test utilities and database setup for testing the feedback pipeline
package testing

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/ratetap/ratetap/models"
	"github.com/ratetap/ratetap/utils"
)

const shortCodeAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// TestFixtures provides helper methods for creating test data
type TestFixtures struct {
	DB *TestDB
}

// NewTestFixtures creates a new test fixtures instance
func NewTestFixtures(db *TestDB) *TestFixtures {
	return &TestFixtures{DB: db}
}

// RandomShortCode returns an 8-symbol lowercase alphanumeric code.
func RandomShortCode() string {
	b := make([]byte, 8)
	for i := range b {
		b[i] = shortCodeAlphabet[rand.Intn(len(shortCodeAlphabet))]
	}
	return string(b)
}

// RandomSessionID returns a session identifier within the accepted bounds.
func RandomSessionID() string {
	return fmt.Sprintf("sess-%08d-%08d", rand.Intn(100000000), rand.Intn(100000000))
}

// CreateTestMerchant creates a merchant with full branding so both the
// positive and negative feedback tracks have something to render.
func (tf *TestFixtures) CreateTestMerchant() (*models.Merchant, error) {
	n := rand.Intn(1000000)

	merchant := &models.Merchant{
		Name: fmt.Sprintf("Cafe Sakura %d", n),
		Branding: models.BrandingSpec{
			LogoURL:          utils.ToPtr(fmt.Sprintf("https://cdn.example.com/logos/%d.png", n)),
			PrimaryColor:     utils.ToPtr("#1a7f5a"),
			SecondaryColor:   utils.ToPtr("#f4f1ea"),
			ReviewPlatformID: utils.ToPtr(fmt.Sprintf("ChIJ%08d", n)),
			ContactEmail:     utils.ToPtr(fmt.Sprintf("owner%d@example.com", n)),
			ContactPhone:     utils.ToPtr(fmt.Sprintf("+4930%07d", rand.Intn(10000000))),
		},
	}

	if err := tf.DB.DB.Create(merchant).Error; err != nil {
		return nil, fmt.Errorf("failed to create test merchant: %w", err)
	}

	return merchant, nil
}

// CreateBareMerchant creates a merchant with no optional branding fields,
// exercising the omitted-field paths of the resolve payload.
func (tf *TestFixtures) CreateBareMerchant() (*models.Merchant, error) {
	merchant := &models.Merchant{
		Name:     fmt.Sprintf("Plain Diner %d", rand.Intn(1000000)),
		Branding: models.BrandingSpec{},
	}

	if err := tf.DB.DB.Create(merchant).Error; err != nil {
		return nil, fmt.Errorf("failed to create bare merchant: %w", err)
	}

	return merchant, nil
}

// CreateTestLocation creates a location under the given merchant.
func (tf *TestFixtures) CreateTestLocation(merchantID uint, name string) (*models.Location, error) {
	if name == "" {
		name = fmt.Sprintf("Branch %d", rand.Intn(100000))
	}

	location := &models.Location{
		MerchantID: merchantID,
		Name:       name,
	}

	if err := tf.DB.DB.Create(location).Error; err != nil {
		return nil, fmt.Errorf("failed to create test location: %w", err)
	}

	return location, nil
}

// CreateTestCode creates a single active code for the merchant under a fresh
// batch id.
func (tf *TestFixtures) CreateTestCode(merchantID uint) (*models.IssuedCode, error) {
	code := &models.IssuedCode{
		ShortCode:  RandomShortCode(),
		MerchantID: merchantID,
		Label:      fmt.Sprintf("Table %02d", rand.Intn(99)+1),
		BatchID:    uuid.New(),
		Status:     models.CodeStatusActive,
	}

	if err := tf.DB.DB.Create(code).Error; err != nil {
		return nil, fmt.Errorf("failed to create test code: %w", err)
	}

	return code, nil
}

// CreateTestCodeInBatch creates an active code inside an existing batch.
func (tf *TestFixtures) CreateTestCodeInBatch(merchantID uint, batchID uuid.UUID, label string) (*models.IssuedCode, error) {
	code := &models.IssuedCode{
		ShortCode:  RandomShortCode(),
		MerchantID: merchantID,
		Label:      label,
		BatchID:    batchID,
		Status:     models.CodeStatusActive,
	}

	if err := tf.DB.DB.Create(code).Error; err != nil {
		return nil, fmt.Errorf("failed to create test code in batch: %w", err)
	}

	return code, nil
}

// CreateArchivedCode creates a code already retired from public resolution.
func (tf *TestFixtures) CreateArchivedCode(merchantID uint) (*models.IssuedCode, error) {
	code := &models.IssuedCode{
		ShortCode:  RandomShortCode(),
		MerchantID: merchantID,
		Label:      "Retired 01",
		BatchID:    uuid.New(),
		Status:     models.CodeStatusArchived,
	}

	if err := tf.DB.DB.Create(code).Error; err != nil {
		return nil, fmt.Errorf("failed to create archived code: %w", err)
	}

	return code, nil
}

// CreateTestScan records a scan of the given code. The fingerprint is a
// fixed-format stand-in; tests that exercise the real hashing go through
// utils.IPFingerprinter directly.
func (tf *TestFixtures) CreateTestScan(code *models.IssuedCode, sessionID string) (*models.ScanEvent, error) {
	if sessionID == "" {
		sessionID = RandomSessionID()
	}

	scan := &models.ScanEvent{
		CodeID:        code.ID,
		OwnerID:       code.MerchantID,
		SessionID:     sessionID,
		IPFingerprint: fmt.Sprintf("%064x", rand.Int63()),
		UserAgent:     utils.ToPtr("Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X)"),
	}

	if err := tf.DB.DB.Create(scan).Error; err != nil {
		return nil, fmt.Errorf("failed to create test scan: %w", err)
	}

	return scan, nil
}

// CreateTestScanAt records a scan with an explicit creation time, for
// aggregate-window tests.
func (tf *TestFixtures) CreateTestScanAt(code *models.IssuedCode, sessionID string, at time.Time) (*models.ScanEvent, error) {
	if sessionID == "" {
		sessionID = RandomSessionID()
	}

	scan := &models.ScanEvent{
		CodeID:        code.ID,
		OwnerID:       code.MerchantID,
		SessionID:     sessionID,
		IPFingerprint: fmt.Sprintf("%064x", rand.Int63()),
		CreatedAt:     at.UTC(),
	}

	if err := tf.DB.DB.Create(scan).Error; err != nil {
		return nil, fmt.Errorf("failed to create test scan: %w", err)
	}

	return scan, nil
}

// CreateTestSubmission creates a submission for the given code, optionally
// linked to a scan.
func (tf *TestFixtures) CreateTestSubmission(code *models.IssuedCode, scanID *uint, rating int) (*models.ReviewSubmission, error) {
	submission := &models.ReviewSubmission{
		CodeID:  code.ID,
		OwnerID: code.MerchantID,
		ScanID:  scanID,
		Rating:  rating,
		LastCTA: models.LastCTANone,
	}

	if err := tf.DB.DB.Create(submission).Error; err != nil {
		return nil, fmt.Errorf("failed to create test submission: %w", err)
	}

	return submission, nil
}

// CreateTestSubmissionAt creates a submission with an explicit creation time,
// for aggregate-window tests.
func (tf *TestFixtures) CreateTestSubmissionAt(code *models.IssuedCode, rating int, at time.Time) (*models.ReviewSubmission, error) {
	submission := &models.ReviewSubmission{
		CodeID:    code.ID,
		OwnerID:   code.MerchantID,
		Rating:    rating,
		LastCTA:   models.LastCTANone,
		CreatedAt: at.UTC(),
	}

	if err := tf.DB.DB.Create(submission).Error; err != nil {
		return nil, fmt.Errorf("failed to create test submission: %w", err)
	}

	return submission, nil
}

// CreateTestClick appends a click to the submission's audit trail. It writes
// only the ledger row; folding the click into the parent submission is the
// attribution flow's job, which is exactly what tests want to observe.
func (tf *TestFixtures) CreateTestClick(submissionID uint, ctaType models.CTAType) (*models.CTAClick, error) {
	click := &models.CTAClick{
		SubmissionID: submissionID,
		CTAType:      ctaType,
	}

	if err := tf.DB.DB.Create(click).Error; err != nil {
		return nil, fmt.Errorf("failed to create test click: %w", err)
	}

	return click, nil
}

// CreateCodeWithScans seeds one code with n scans from distinct sessions and
// returns both, oldest scan first.
func (tf *TestFixtures) CreateCodeWithScans(merchantID uint, n int) (*models.IssuedCode, []*models.ScanEvent, error) {
	code, err := tf.CreateTestCode(merchantID)
	if err != nil {
		return nil, nil, err
	}

	scans := make([]*models.ScanEvent, 0, n)
	for i := 0; i < n; i++ {
		scan, err := tf.CreateTestScan(code, fmt.Sprintf("sess-%02d-%012d", i, rand.Int63n(1000000000000)))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create scan %d: %w", i, err)
		}
		scans = append(scans, scan)
	}

	return code, scans, nil
}
