// Package businessflow contains the core business logic and use cases for CTA attribution
package businessflow

import (
	"context"

	"github.com/google/uuid"
	"github.com/ratetap/ratetap/app/dto"
	"github.com/ratetap/ratetap/models"
	"github.com/ratetap/ratetap/repository"
	"github.com/ratetap/ratetap/utils"
	"gorm.io/gorm"
)

// AttributionFlow records post-submission call-to-action clicks. Every click
// is appended to the audit trail and folded into the parent submission's
// summary columns in one transaction, so the two views never diverge.
type AttributionFlow interface {
	RecordClick(ctx context.Context, req *dto.RecordClickRequest, metadata *ClientMetadata) (*dto.RecordClickResponse, error)
}

// AttributionFlowImpl implements the attribution business flow
type AttributionFlowImpl struct {
	clickRepo      repository.CTAClickRepository
	submissionRepo repository.ReviewSubmissionRepository
	scanRepo       repository.ScanEventRepository
	codeRepo       repository.IssuedCodeRepository
	db             *gorm.DB
}

// NewAttributionFlow creates a new attribution flow instance
func NewAttributionFlow(
	clickRepo repository.CTAClickRepository,
	submissionRepo repository.ReviewSubmissionRepository,
	scanRepo repository.ScanEventRepository,
	codeRepo repository.IssuedCodeRepository,
	db *gorm.DB,
) AttributionFlow {
	return &AttributionFlowImpl{
		clickRepo:      clickRepo,
		submissionRepo: submissionRepo,
		scanRepo:       scanRepo,
		codeRepo:       codeRepo,
		db:             db,
	}
}

// RecordClick appends one CTAClick and updates the parent submission's
// google_clicked/contact_clicked flags and last_cta. Repeat clicks are
// expected and all recorded; the flags only ever flip false to true.
func (f *AttributionFlowImpl) RecordClick(ctx context.Context, req *dto.RecordClickRequest, metadata *ClientMetadata) (*dto.RecordClickResponse, error) {
	if req == nil {
		return nil, NewBusinessError("VALIDATION_ERROR", "Request is required", nil)
	}
	ctaType := models.CTAType(req.CTAType)
	if !ctaType.Valid() {
		return nil, NewBusinessErrorf("VALIDATION_ERROR", "cta_type %q is not supported", ErrCTATypeInvalid, req.CTAType)
	}

	submissionUUID, err := utils.ParseUUID(req.SubmissionUUID)
	if err != nil {
		return nil, NewBusinessError("VALIDATION_ERROR", "submission_uuid must be a valid UUID", err)
	}

	submission, err := f.submissionRepo.ByUUID(ctx, submissionUUID)
	if err != nil {
		return nil, NewBusinessError("SUBMISSION_LOOKUP_FAILED", "Failed to lookup submission", err)
	}
	if submission == nil {
		return nil, NewBusinessError("NOT_FOUND", "Submission not found", ErrSubmissionNotFound)
	}

	click := &models.CTAClick{
		SubmissionID: submission.ID,
		CTAType:      ctaType,
	}
	err = repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		if err := f.clickRepo.Save(txCtx, click); err != nil {
			return err
		}
		return f.submissionRepo.ApplyClick(txCtx, submission.ID, ctaType.IsGoogle(), ctaType.IsContact(), ctaType.Category())
	})
	if err != nil {
		return nil, NewBusinessError("RECORD_CLICK_FAILED", "Failed to record click", err)
	}

	updated, err := f.submissionRepo.ByID(ctx, submission.ID)
	if err != nil || updated == nil {
		return nil, NewBusinessError("SUBMISSION_LOOKUP_FAILED", "Failed to reload submission", err)
	}

	codeUUID, scanUUID := f.resolveSubmissionRefs(ctx, updated)
	return &dto.RecordClickResponse{
		Message:    "Click recorded",
		Click:      mapCTAClickDTO(*click, submission.UUID),
		Submission: mapSubmissionDTO(*updated, codeUUID, scanUUID),
	}, nil
}

// resolveSubmissionRefs looks up the public identifiers of the submission's
// code and scan for the response payload. Lookup failures degrade to empty
// references rather than failing a click that already committed.
func (f *AttributionFlowImpl) resolveSubmissionRefs(ctx context.Context, submission *models.ReviewSubmission) (uuid.UUID, *uuid.UUID) {
	var codeUUID uuid.UUID
	if code, err := f.codeRepo.ByID(ctx, submission.CodeID); err == nil && code != nil {
		codeUUID = code.UUID
	}
	var scanUUID *uuid.UUID
	if submission.ScanID != nil {
		if scan, err := f.scanRepo.ByID(ctx, *submission.ScanID); err == nil && scan != nil {
			scanUUID = &scan.UUID
		}
	}
	return codeUUID, scanUUID
}
