package models_test

import (
	"testing"

	"github.com/ratetap/ratetap/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutcomeForRating(t *testing.T) {
	tests := []struct {
		rating  int
		outcome models.SubmissionOutcome
	}{
		{1, models.OutcomeNegative},
		{2, models.OutcomeNegative},
		{3, models.OutcomeNegative},
		{4, models.OutcomePositive},
		{5, models.OutcomePositive},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.outcome, models.OutcomeForRating(tt.rating), "rating %d", tt.rating)
	}
}

func TestCTATypeClassification(t *testing.T) {
	tests := []struct {
		ctaType   models.CTAType
		valid     bool
		isGoogle  bool
		isContact bool
		category  models.LastCTA
	}{
		{models.CTATypeGoogleCopy, true, true, false, models.LastCTAGoogleCopy},
		{models.CTATypeGoogleDirect, true, true, false, models.LastCTAGoogleDirect},
		{models.CTATypeContactEmail, true, false, true, models.LastCTAContact},
		{models.CTATypeContactPhone, true, false, true, models.LastCTAContact},
		{models.CTAType("sms"), false, false, false, models.LastCTANone},
		{models.CTAType(""), false, false, false, models.LastCTANone},
	}

	for _, tt := range tests {
		t.Run(string(tt.ctaType), func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.ctaType.Valid())
			assert.Equal(t, tt.isGoogle, tt.ctaType.IsGoogle())
			assert.Equal(t, tt.isContact, tt.ctaType.IsContact())
			assert.Equal(t, tt.category, tt.ctaType.Category())
		})
	}
}

func TestCTATypeValue(t *testing.T) {
	v, err := models.CTATypeGoogleDirect.Value()
	require.NoError(t, err)
	assert.Equal(t, "google_direct", v)

	_, err = models.CTAType("fax").Value()
	assert.Error(t, err)
}

func TestCTATypeScan(t *testing.T) {
	var ctaType models.CTAType
	require.NoError(t, ctaType.Scan("contact_phone"))
	assert.Equal(t, models.CTATypeContactPhone, ctaType)

	require.NoError(t, ctaType.Scan([]byte("google_copy")))
	assert.Equal(t, models.CTATypeGoogleCopy, ctaType)

	require.NoError(t, ctaType.Scan(nil))
	assert.Equal(t, models.CTAType(""), ctaType)

	assert.Error(t, ctaType.Scan(42))
}

func TestCodeStatus(t *testing.T) {
	assert.True(t, models.CodeStatusActive.Valid())
	assert.True(t, models.CodeStatusArchived.Valid())
	assert.False(t, models.CodeStatus("retired").Valid())

	v, err := models.CodeStatusActive.Value()
	require.NoError(t, err)
	assert.Equal(t, "active", v)

	_, err = models.CodeStatus("retired").Value()
	assert.Error(t, err)
}

func TestLabelScheme(t *testing.T) {
	assert.True(t, models.LabelSchemeSequential.Valid())
	assert.True(t, models.LabelSchemeLocation.Valid())
	assert.True(t, models.LabelSchemeMerchantTimestamp.Valid())
	assert.False(t, models.LabelScheme("roman").Valid())
}

func TestLastCTA(t *testing.T) {
	for _, lastCTA := range []models.LastCTA{
		models.LastCTANone,
		models.LastCTAGoogleCopy,
		models.LastCTAGoogleDirect,
		models.LastCTAContact,
	} {
		assert.True(t, lastCTA.Valid(), "%s", lastCTA)
	}
	assert.False(t, models.LastCTA("contact_email").Valid(), "raw click types must not be stored as summaries")

	_, err := models.LastCTA("whatsapp").Value()
	assert.Error(t, err)
}

func TestIssuedCodeStatusHelpers(t *testing.T) {
	code := models.IssuedCode{Status: models.CodeStatusActive}
	assert.True(t, code.IsActive())
	assert.False(t, code.IsArchived())

	code.Status = models.CodeStatusArchived
	assert.False(t, code.IsActive())
	assert.True(t, code.IsArchived())
}

func TestSubmissionOutcome(t *testing.T) {
	submission := models.ReviewSubmission{Rating: 4}
	assert.Equal(t, models.OutcomePositive, submission.Outcome())
	assert.Equal(t, "positive", submission.Outcome().String())

	submission.Rating = 3
	assert.Equal(t, models.OutcomeNegative, submission.Outcome())
	assert.Equal(t, "negative", submission.Outcome().String())
}
