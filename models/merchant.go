package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ratetap/ratetap/utils"
	"gorm.io/gorm"
)

// BrandingSpec holds the public display fields served to the feedback page.
// Contact channels are included because the negative track renders them.
type BrandingSpec struct {
	LogoURL          *string `json:"logo_url,omitempty"`
	PrimaryColor     *string `json:"primary_color,omitempty"`
	SecondaryColor   *string `json:"secondary_color,omitempty"`
	ReviewPlatformID *string `json:"review_platform_id,omitempty"`
	ContactEmail     *string `json:"contact_email,omitempty"`
	ContactPhone     *string `json:"contact_phone,omitempty"`
}

// Value implements the driver.Valuer interface for BrandingSpec
func (s BrandingSpec) Value() (driver.Value, error) {
	return json.Marshal(s)
}

// Scan implements the sql.Scanner interface for BrandingSpec
func (s *BrandingSpec) Scan(value any) error {
	if value == nil {
		*s = BrandingSpec{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into BrandingSpec", value)
	}

	return json.Unmarshal(bytes, s)
}

// Merchant represents a tenant that issues codes and collects feedback.
// Rows are provisioned by the identity/onboarding service; this service only
// reads them.
type Merchant struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	UUID      uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:uk_merchants_uuid" json:"uuid"`
	Name      string       `gorm:"size:255;not null" json:"name"`
	Branding  BrandingSpec `gorm:"type:jsonb;not null" json:"branding"`
	CreatedAt time.Time    `gorm:"index:idx_merchants_created_at" json:"created_at"`
	UpdatedAt *time.Time   `json:"updated_at,omitempty"`
}

// TableName returns the table name for the model
func (Merchant) TableName() string {
	return "merchants"
}

// BeforeCreate is called before creating a new record
func (m *Merchant) BeforeCreate(tx *gorm.DB) error {
	if m.UUID == uuid.Nil {
		m.UUID = uuid.New()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = utils.UTCNow()
	}
	return nil
}

// MerchantFilter represents filter criteria for merchants
type MerchantFilter struct {
	ID   *uint
	UUID *uuid.UUID
	Name *string
}
