package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ratetap/ratetap/utils"
	"gorm.io/gorm"
)

// CodeStatus represents the lifecycle status of an issued code
type CodeStatus string

const (
	CodeStatusActive   CodeStatus = "active"
	CodeStatusArchived CodeStatus = "archived"
)

// String returns the string representation of the status
func (s CodeStatus) String() string {
	return string(s)
}

// Valid checks if the status is valid
func (s CodeStatus) Valid() bool {
	switch s {
	case CodeStatusActive, CodeStatusArchived:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for CodeStatus
func (s *CodeStatus) Scan(value any) error {
	if value == nil {
		*s = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*s = CodeStatus(v)
	case []byte:
		*s = CodeStatus(string(v))
	default:
		return fmt.Errorf("cannot scan %T into CodeStatus", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for CodeStatus
func (s CodeStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid CodeStatus: %s", s)
	}
	return string(s), nil
}

// LabelScheme selects how batch labels are rendered. The scheme is supplied by
// the caller, never inferred.
type LabelScheme string

const (
	// LabelSchemeSequential renders "Prefix 01", "Prefix 02", ...
	LabelSchemeSequential LabelScheme = "sequential"
	// LabelSchemeLocation prepends the location name to each label.
	LabelSchemeLocation LabelScheme = "location"
	// LabelSchemeMerchantTimestamp prepends the merchant name and the issue date.
	LabelSchemeMerchantTimestamp LabelScheme = "merchant_timestamp"
)

// String returns the string representation of the scheme
func (s LabelScheme) String() string {
	return string(s)
}

// Valid checks if the scheme is valid
func (s LabelScheme) Valid() bool {
	switch s {
	case LabelSchemeSequential, LabelSchemeLocation, LabelSchemeMerchantTimestamp:
		return true
	default:
		return false
	}
}

// IssuedCode represents a single scannable unit. The short code is globally
// unique across all merchants because the resolver has no merchant context
// until after lookup; the store enforces this with a unique index.
//
// Codes are created only through batch issuance and are archived rather than
// deleted so historical scans and submissions keep a valid owner.
type IssuedCode struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	UUID       uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uk_issued_codes_uuid" json:"uuid"`
	ShortCode  string     `gorm:"size:16;not null;uniqueIndex:uk_issued_codes_short_code" json:"short_code"`
	MerchantID uint       `gorm:"not null;index:idx_issued_codes_merchant_id" json:"merchant_id"`
	LocationID *uint      `gorm:"index:idx_issued_codes_location_id" json:"location_id,omitempty"`
	Label      string     `gorm:"size:128;not null" json:"label"`
	BatchID    uuid.UUID  `gorm:"type:uuid;not null;index:idx_issued_codes_batch_id" json:"batch_id"`
	Status     CodeStatus `gorm:"size:16;not null;default:'active';index:idx_issued_codes_status" json:"status"`
	CreatedAt  time.Time  `gorm:"index:idx_issued_codes_created_at" json:"created_at"`
	UpdatedAt  *time.Time `json:"updated_at,omitempty"`

	// Relations
	Merchant *Merchant `gorm:"foreignKey:MerchantID;references:ID" json:"merchant,omitempty"`
	Location *Location `gorm:"foreignKey:LocationID;references:ID" json:"location,omitempty"`
}

// TableName returns the table name for the model
func (IssuedCode) TableName() string {
	return "issued_codes"
}

// BeforeCreate is called before creating a new record
func (c *IssuedCode) BeforeCreate(tx *gorm.DB) error {
	if c.UUID == uuid.Nil {
		c.UUID = uuid.New()
	}
	if c.Status == "" {
		c.Status = CodeStatusActive
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = utils.UTCNow()
	}
	return nil
}

// IsActive reports whether the code still resolves publicly.
func (c *IssuedCode) IsActive() bool {
	return c.Status == CodeStatusActive
}

// IsArchived reports whether the code has been retired from resolution.
func (c *IssuedCode) IsArchived() bool {
	return c.Status == CodeStatusArchived
}

// IssuedCodeFilter represents filter criteria for issued codes
type IssuedCodeFilter struct {
	ID            *uint
	UUID          *uuid.UUID
	ShortCode     *string
	MerchantID    *uint
	LocationID    *uint
	BatchID       *uuid.UUID
	Status        *CodeStatus
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
