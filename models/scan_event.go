package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/ratetap/ratetap/utils"
	"gorm.io/gorm"
)

// ScanEvent is one recorded scan of a code. Rows are immutable once written.
// SessionID correlates a scan with its eventual submission; it is not a
// uniqueness key, so a session re-rendering the page produces further rows.
// IPFingerprint is a keyed one-way hash computed by the handler; a raw
// address never reaches this model.
type ScanEvent struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UUID          uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_scan_events_uuid" json:"uuid"`
	CodeID        uint      `gorm:"not null;index:idx_scan_events_code_session,priority:1" json:"code_id"`
	OwnerID       uint      `gorm:"not null;index:idx_scan_events_owner_id" json:"owner_id"`
	SessionID     string    `gorm:"size:64;not null;index:idx_scan_events_code_session,priority:2" json:"session_id"`
	IPFingerprint string    `gorm:"size:64;not null" json:"ip_fingerprint"`
	UserAgent     *string   `gorm:"type:text" json:"user_agent,omitempty"`
	CreatedAt     time.Time `gorm:"index:idx_scan_events_created_at" json:"created_at"`

	// Relations
	Code *IssuedCode `gorm:"foreignKey:CodeID;references:ID" json:"code,omitempty"`
}

// TableName returns the table name for the model
func (ScanEvent) TableName() string {
	return "scan_events"
}

// BeforeCreate is called before creating a new record
func (e *ScanEvent) BeforeCreate(tx *gorm.DB) error {
	if e.UUID == uuid.Nil {
		e.UUID = uuid.New()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = utils.UTCNow()
	}
	return nil
}

// ScanEventFilter represents filter criteria for scan events
type ScanEventFilter struct {
	ID            *uint
	UUID          *uuid.UUID
	CodeID        *uint
	OwnerID       *uint
	SessionID     *string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
