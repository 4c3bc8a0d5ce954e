// Package businessflow contains the core business logic and use cases for scan recording
package businessflow

import (
	"context"
	"strings"

	"github.com/ratetap/ratetap/app/dto"
	"github.com/ratetap/ratetap/models"
	"github.com/ratetap/ratetap/repository"
	"github.com/ratetap/ratetap/utils"
)

// ScanFlow appends immutable scan events. Recording succeeds for any code
// that exists, archived included; duplicate sessions are accepted because a
// session may legitimately re-render the page.
type ScanFlow interface {
	RecordScan(ctx context.Context, req *dto.RecordScanRequest, metadata *ClientMetadata) (*dto.RecordScanResponse, error)
}

// ScanFlowImpl implements the scan recording business flow
type ScanFlowImpl struct {
	scanRepo repository.ScanEventRepository
	codeRepo repository.IssuedCodeRepository
}

// NewScanFlow creates a new scan flow instance
func NewScanFlow(scanRepo repository.ScanEventRepository, codeRepo repository.IssuedCodeRepository) ScanFlow {
	return &ScanFlowImpl{scanRepo: scanRepo, codeRepo: codeRepo}
}

// RecordScan writes one ScanEvent for the given code and session. The
// fingerprint arrives pre-hashed from the handler; this flow never sees a
// raw client address.
func (f *ScanFlowImpl) RecordScan(ctx context.Context, req *dto.RecordScanRequest, metadata *ClientMetadata) (*dto.RecordScanResponse, error) {
	if req == nil {
		return nil, NewBusinessError("VALIDATION_ERROR", "Request is required", nil)
	}
	if strings.TrimSpace(req.SessionID) == "" {
		return nil, NewBusinessError("VALIDATION_ERROR", "session_id is required", ErrSessionIDRequired)
	}

	codeUUID, err := utils.ParseUUID(req.CodeUUID)
	if err != nil {
		return nil, NewBusinessError("VALIDATION_ERROR", "code_uuid must be a valid UUID", err)
	}

	code, err := getIssuedCodeByUUID(ctx, f.codeRepo, codeUUID)
	if err != nil {
		if IsCodeNotFound(err) {
			return nil, NewBusinessError("NOT_FOUND", "Code not found", err)
		}
		return nil, NewBusinessError("CODE_LOOKUP_FAILED", "Failed to lookup code", err)
	}

	scan := &models.ScanEvent{
		CodeID:        code.ID,
		OwnerID:       code.MerchantID,
		SessionID:     req.SessionID,
		IPFingerprint: req.IPFingerprint,
		UserAgent:     req.UserAgent,
	}
	if err := f.scanRepo.Save(ctx, scan); err != nil {
		return nil, NewBusinessError("RECORD_SCAN_FAILED", "Failed to record scan", err)
	}

	return &dto.RecordScanResponse{
		Message: "Scan recorded",
		Scan:    mapScanEventDTO(*scan, code.UUID),
	}, nil
}
