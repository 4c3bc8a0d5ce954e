package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ratetap/ratetap/utils"
	"gorm.io/gorm"
)

// Rating bounds accepted by the submission engine.
const (
	MinRating = 1
	MaxRating = 5

	// PositiveRatingThreshold is the smallest rating routed to the positive
	// track.
	PositiveRatingThreshold = 4
)

// SubmissionOutcome is the branch decision computed from a rating. It is
// derived, never stored; the rating column stays the source of truth.
type SubmissionOutcome string

const (
	OutcomePositive SubmissionOutcome = "positive"
	OutcomeNegative SubmissionOutcome = "negative"
)

// String returns the string representation of the outcome
func (o SubmissionOutcome) String() string {
	return string(o)
}

// OutcomeForRating computes the branch decision for a rating. Callers must
// validate the rating range first.
func OutcomeForRating(rating int) SubmissionOutcome {
	if rating >= PositiveRatingThreshold {
		return OutcomePositive
	}
	return OutcomeNegative
}

// LastCTA is the collapsed category of the most recent call-to-action click
// on a submission. It is a cached projection over the cta_clicks ledger: each
// click overwrites it with its own category, so a later click of a different
// category replaces the summary of an earlier one.
type LastCTA string

const (
	LastCTANone         LastCTA = "none"
	LastCTAGoogleCopy   LastCTA = "google_copy"
	LastCTAGoogleDirect LastCTA = "google_direct"
	LastCTAContact      LastCTA = "contact"
)

// String returns the string representation of the value
func (l LastCTA) String() string {
	return string(l)
}

// Valid checks if the value is valid
func (l LastCTA) Valid() bool {
	switch l {
	case LastCTANone, LastCTAGoogleCopy, LastCTAGoogleDirect, LastCTAContact:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for LastCTA
func (l *LastCTA) Scan(value any) error {
	if value == nil {
		*l = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*l = LastCTA(v)
	case []byte:
		*l = LastCTA(string(v))
	default:
		return fmt.Errorf("cannot scan %T into LastCTA", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for LastCTA
func (l LastCTA) Value() (driver.Value, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("invalid LastCTA: %s", l)
	}
	return string(l), nil
}

// ReviewSubmission is one feedback submission. ScanID soft-links the
// submission to the most recent scan of the same code and session at submit
// time; a submission from a direct visit carries no scan and is still valid.
//
// GoogleClicked and ContactClicked are monotonic: the attribution ledger only
// ever ORs them upward, never resets them. LastCTA is overwritten by each
// click (see LastCTA). Both updates happen inside the click transaction.
type ReviewSubmission struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	UUID           uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uk_review_submissions_uuid" json:"uuid"`
	CodeID         uint       `gorm:"not null;index:idx_review_submissions_code_id" json:"code_id"`
	OwnerID        uint       `gorm:"not null;index:idx_review_submissions_owner_id" json:"owner_id"`
	ScanID         *uint      `gorm:"index:idx_review_submissions_scan_id" json:"scan_id,omitempty"`
	Rating         int        `gorm:"not null" json:"rating"`
	Comment        *string    `gorm:"type:text" json:"comment,omitempty"`
	GoogleClicked  bool       `gorm:"not null;default:false" json:"google_clicked"`
	ContactClicked bool       `gorm:"not null;default:false" json:"contact_clicked"`
	LastCTA        LastCTA    `gorm:"column:last_cta;size:16;not null;default:'none'" json:"last_cta"`
	CreatedAt      time.Time  `gorm:"index:idx_review_submissions_created_at" json:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty"`

	// Relations
	Code *IssuedCode `gorm:"foreignKey:CodeID;references:ID" json:"code,omitempty"`
	Scan *ScanEvent  `gorm:"foreignKey:ScanID;references:ID" json:"scan,omitempty"`
}

// TableName returns the table name for the model
func (ReviewSubmission) TableName() string {
	return "review_submissions"
}

// BeforeCreate is called before creating a new record
func (r *ReviewSubmission) BeforeCreate(tx *gorm.DB) error {
	if r.UUID == uuid.Nil {
		r.UUID = uuid.New()
	}
	if r.LastCTA == "" {
		r.LastCTA = LastCTANone
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = utils.UTCNow()
	}
	return nil
}

// Outcome returns the branch decision for this submission's rating.
func (r *ReviewSubmission) Outcome() SubmissionOutcome {
	return OutcomeForRating(r.Rating)
}

// ReviewSubmissionFilter represents filter criteria for review submissions
type ReviewSubmissionFilter struct {
	ID            *uint
	UUID          *uuid.UUID
	CodeID        *uint
	OwnerID       *uint
	ScanID        *uint
	MinRating     *int
	MaxRating     *int
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
