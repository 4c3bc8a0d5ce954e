// Package businessflow contains the business logic for the application.
package businessflow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ratetap/ratetap/app/dto"
	"github.com/ratetap/ratetap/config"
	"github.com/ratetap/ratetap/models"
	"github.com/ratetap/ratetap/repository"
)

const RequestIDKey = "X-Request-ID"

// ClientMetadata holds all client-related information for audit logging and session tracking
type ClientMetadata struct {
	IPAddress  string            `json:"ip_address"`
	UserAgent  string            `json:"user_agent"`
	DeviceInfo map[string]string `json:"device_info,omitempty"`
	RequestID  string            `json:"request_id,omitempty"`
	SessionID  string            `json:"session_id,omitempty"`
	Additional map[string]string `json:"additional,omitempty"`
}

// NewClientMetadata creates a new ClientMetadata instance with basic information
func NewClientMetadata(ipAddress, userAgent string) *ClientMetadata {
	return &ClientMetadata{
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		DeviceInfo: make(map[string]string),
		Additional: make(map[string]string),
	}
}

// AddDeviceInfo adds device information to the metadata
func (cm *ClientMetadata) AddDeviceInfo(key, value string) {
	if cm.DeviceInfo == nil {
		cm.DeviceInfo = make(map[string]string)
	}
	cm.DeviceInfo[key] = value
}

// AddAdditional adds additional custom information to the metadata
func (cm *ClientMetadata) AddAdditional(key, value string) {
	if cm.Additional == nil {
		cm.Additional = make(map[string]string)
	}
	cm.Additional[key] = value
}

// SetRequestID sets the request ID
func (cm *ClientMetadata) SetRequestID(requestID string) {
	cm.RequestID = requestID
}

// SetSessionID sets the session ID
func (cm *ClientMetadata) SetSessionID(sessionID string) {
	cm.SessionID = sessionID
}

func getMerchant(ctx context.Context, repo repository.MerchantRepository, merchantID uint) (models.Merchant, error) {
	merchant, err := repo.ByID(ctx, merchantID)
	if err != nil {
		return models.Merchant{}, fmt.Errorf("failed to fetch merchant: %w", err)
	}
	if merchant == nil {
		return models.Merchant{}, ErrMerchantNotFound
	}
	return *merchant, nil
}

func getIssuedCodeByUUID(ctx context.Context, repo repository.IssuedCodeRepository, codeUUID uuid.UUID) (models.IssuedCode, error) {
	code, err := repo.ByUUID(ctx, codeUUID)
	if err != nil {
		return models.IssuedCode{}, fmt.Errorf("failed to fetch code: %w", err)
	}
	if code == nil {
		return models.IssuedCode{}, ErrCodeNotFound
	}
	return *code, nil
}

// publicScanURL composes the URL a QR image points at. The base is normalized
// the same way regardless of how the deployment spells it.
func publicScanURL(baseURL, shortCode string) string {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return ""
	}
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "https://" + baseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")
	return fmt.Sprintf("%s/r/%s", baseURL, shortCode)
}

func redisKey(cfg config.CacheConfig, key string) string {
	if cfg.RedisPrefix == "" {
		return key
	}
	return cfg.RedisPrefix + key
}

func brandingCacheKey(merchantID uint) string {
	return fmt.Sprintf("branding:%d", merchantID)
}

func mapIssuedCodeDTO(code models.IssuedCode, scanURL, qrImage string) dto.IssuedCodeDTO {
	out := dto.IssuedCodeDTO{
		UUID:      code.UUID.String(),
		ShortCode: code.ShortCode,
		Label:     code.Label,
		BatchID:   code.BatchID.String(),
		Status:    code.Status.String(),
		ScanURL:   scanURL,
		QRImage:   qrImage,
		CreatedAt: code.CreatedAt.Format(time.RFC3339),
	}
	if code.Location != nil {
		locUUID := code.Location.UUID.String()
		out.LocationUUID = &locUUID
	}
	return out
}

func mapBrandingDTO(merchant models.Merchant) dto.BrandingDTO {
	return dto.BrandingDTO{
		Name:             merchant.Name,
		LogoURL:          merchant.Branding.LogoURL,
		PrimaryColor:     merchant.Branding.PrimaryColor,
		SecondaryColor:   merchant.Branding.SecondaryColor,
		ReviewPlatformID: merchant.Branding.ReviewPlatformID,
		ContactEmail:     merchant.Branding.ContactEmail,
		ContactPhone:     merchant.Branding.ContactPhone,
	}
}

func mapScanEventDTO(scan models.ScanEvent, codeUUID uuid.UUID) dto.ScanEventDTO {
	return dto.ScanEventDTO{
		UUID:      scan.UUID.String(),
		CodeUUID:  codeUUID.String(),
		SessionID: scan.SessionID,
		CreatedAt: scan.CreatedAt.Format(time.RFC3339),
	}
}

func mapSubmissionDTO(sub models.ReviewSubmission, codeUUID uuid.UUID, scanUUID *uuid.UUID) dto.ReviewSubmissionDTO {
	out := dto.ReviewSubmissionDTO{
		UUID:           sub.UUID.String(),
		CodeUUID:       codeUUID.String(),
		Rating:         sub.Rating,
		Comment:        sub.Comment,
		GoogleClicked:  sub.GoogleClicked,
		ContactClicked: sub.ContactClicked,
		LastCTA:        sub.LastCTA.String(),
		Outcome:        sub.Outcome().String(),
		CreatedAt:      sub.CreatedAt.Format(time.RFC3339),
	}
	if scanUUID != nil {
		s := scanUUID.String()
		out.ScanUUID = &s
	}
	return out
}

func mapCTAClickDTO(click models.CTAClick, submissionUUID uuid.UUID) dto.CTAClickDTO {
	return dto.CTAClickDTO{
		UUID:           click.UUID.String(),
		SubmissionUUID: submissionUUID.String(),
		CTAType:        click.CTAType.String(),
		ClickedAt:      click.ClickedAt.Format(time.RFC3339),
	}
}
