package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/ratetap/ratetap/utils"
	"gorm.io/gorm"
)

// Location is an optional site under a merchant, used to qualify code labels.
type Location struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UUID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_locations_uuid" json:"uuid"`
	MerchantID uint      `gorm:"not null;index:idx_locations_merchant_id" json:"merchant_id"`
	Name       string    `gorm:"size:255;not null" json:"name"`
	CreatedAt  time.Time `json:"created_at"`

	// Relations
	Merchant *Merchant `gorm:"foreignKey:MerchantID;references:ID" json:"merchant,omitempty"`
}

// TableName returns the table name for the model
func (Location) TableName() string {
	return "locations"
}

// BeforeCreate is called before creating a new record
func (l *Location) BeforeCreate(tx *gorm.DB) error {
	if l.UUID == uuid.Nil {
		l.UUID = uuid.New()
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = utils.UTCNow()
	}
	return nil
}

// LocationFilter represents filter criteria for locations
type LocationFilter struct {
	ID         *uint
	UUID       *uuid.UUID
	MerchantID *uint
}
