package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ratetap/ratetap/utils"
	"gorm.io/gorm"
)

// CTAType identifies which call-to-action was clicked after a submission.
type CTAType string

const (
	CTATypeGoogleCopy   CTAType = "google_copy"
	CTATypeGoogleDirect CTAType = "google_direct"
	CTATypeContactEmail CTAType = "contact_email"
	CTATypeContactPhone CTAType = "contact_phone"
)

// String returns the string representation of the type
func (t CTAType) String() string {
	return string(t)
}

// Valid checks if the type is valid
func (t CTAType) Valid() bool {
	switch t {
	case CTATypeGoogleCopy, CTATypeGoogleDirect, CTATypeContactEmail, CTATypeContactPhone:
		return true
	default:
		return false
	}
}

// IsGoogle reports whether the click targets the review platform.
func (t CTAType) IsGoogle() bool {
	return t == CTATypeGoogleCopy || t == CTATypeGoogleDirect
}

// IsContact reports whether the click targets a private contact channel.
func (t CTAType) IsContact() bool {
	return t == CTATypeContactEmail || t == CTATypeContactPhone
}

// Category collapses the click into the summary value stored on the parent
// submission; both contact channels fold into LastCTAContact.
func (t CTAType) Category() LastCTA {
	switch t {
	case CTATypeGoogleCopy:
		return LastCTAGoogleCopy
	case CTATypeGoogleDirect:
		return LastCTAGoogleDirect
	case CTATypeContactEmail, CTATypeContactPhone:
		return LastCTAContact
	default:
		return LastCTANone
	}
}

// Scan implements the sql.Scanner interface for CTAType
func (t *CTAType) Scan(value any) error {
	if value == nil {
		*t = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*t = CTAType(v)
	case []byte:
		*t = CTAType(string(v))
	default:
		return fmt.Errorf("cannot scan %T into CTAType", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for CTAType
func (t CTAType) Value() (driver.Value, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid CTAType: %s", t)
	}
	return string(t), nil
}

// CTAClick is the append-only audit trail of call-to-action interactions.
// Repeated and rapid-fire clicks all persist; the parent submission only
// exposes the collapsed summary.
type CTAClick struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UUID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_cta_clicks_uuid" json:"uuid"`
	SubmissionID uint      `gorm:"not null;index:idx_cta_clicks_submission_id" json:"submission_id"`
	CTAType      CTAType   `gorm:"column:cta_type;size:24;not null;index:idx_cta_clicks_cta_type" json:"cta_type"`
	ClickedAt    time.Time `gorm:"column:clicked_at;index:idx_cta_clicks_clicked_at" json:"clicked_at"`

	// Relations
	Submission *ReviewSubmission `gorm:"foreignKey:SubmissionID;references:ID" json:"submission,omitempty"`
}

// TableName returns the table name for the model
func (CTAClick) TableName() string {
	return "cta_clicks"
}

// BeforeCreate is called before creating a new record
func (c *CTAClick) BeforeCreate(tx *gorm.DB) error {
	if c.UUID == uuid.Nil {
		c.UUID = uuid.New()
	}
	if c.ClickedAt.IsZero() {
		c.ClickedAt = utils.UTCNow()
	}
	return nil
}

// CTAClickFilter represents filter criteria for CTA clicks
type CTAClickFilter struct {
	ID            *uint
	UUID          *uuid.UUID
	SubmissionID  *uint
	CTAType       *CTAType
	ClickedAfter  *time.Time
	ClickedBefore *time.Time
}
