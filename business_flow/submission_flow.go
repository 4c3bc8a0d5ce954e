// Package businessflow contains the core business logic and use cases for review submission
package businessflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/ratetap/ratetap/app/dto"
	"github.com/ratetap/ratetap/app/services"
	"github.com/ratetap/ratetap/config"
	"github.com/ratetap/ratetap/models"
	"github.com/ratetap/ratetap/repository"
	"github.com/ratetap/ratetap/utils"
)

// SubmissionFlow validates and persists rating submissions and computes the
// positive/negative branch decision the caller renders. It never fires CTA
// clicks; those are separate, later calls into the attribution flow.
type SubmissionFlow interface {
	Submit(ctx context.Context, req *dto.SubmitReviewRequest, metadata *ClientMetadata) (*dto.SubmitReviewResponse, error)
}

// SubmissionFlowImpl implements the submission business flow
type SubmissionFlowImpl struct {
	submissionRepo repository.ReviewSubmissionRepository
	scanRepo       repository.ScanEventRepository
	codeRepo       repository.IssuedCodeRepository
	merchantRepo   repository.MerchantRepository
	notifier       services.NotificationService
	adminConfig    config.AdminConfig
}

// NewSubmissionFlow creates a new submission flow instance
func NewSubmissionFlow(
	submissionRepo repository.ReviewSubmissionRepository,
	scanRepo repository.ScanEventRepository,
	codeRepo repository.IssuedCodeRepository,
	merchantRepo repository.MerchantRepository,
	notifier services.NotificationService,
	adminConfig config.AdminConfig,
) SubmissionFlow {
	return &SubmissionFlowImpl{
		submissionRepo: submissionRepo,
		scanRepo:       scanRepo,
		codeRepo:       codeRepo,
		merchantRepo:   merchantRepo,
		notifier:       notifier,
		adminConfig:    adminConfig,
	}
}

// Submit persists one ReviewSubmission. The submitting session's scan is
// soft-linked by looking up the most recent ScanEvent for (code, session);
// a direct visit with no recorded scan is accepted with a null scan.
func (f *SubmissionFlowImpl) Submit(ctx context.Context, req *dto.SubmitReviewRequest, metadata *ClientMetadata) (*dto.SubmitReviewResponse, error) {
	if req == nil {
		return nil, NewBusinessError("VALIDATION_ERROR", "Request is required", nil)
	}
	if req.Rating < models.MinRating || req.Rating > models.MaxRating {
		return nil, NewBusinessErrorf("VALIDATION_ERROR", "rating must be between %d and %d", ErrRatingOutOfRange, models.MinRating, models.MaxRating)
	}
	if strings.TrimSpace(req.SessionID) == "" {
		return nil, NewBusinessError("VALIDATION_ERROR", "session_id is required", ErrSessionIDRequired)
	}

	var comment *string
	if req.Comment != nil {
		c := strings.TrimSpace(*req.Comment)
		if len(c) > 2000 {
			return nil, NewBusinessError("VALIDATION_ERROR", "comment must not exceed 2000 characters", nil)
		}
		if c != "" {
			comment = &c
		}
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

	scan, err := f.scanRepo.LatestByCodeAndSession(ctx, code.ID, req.SessionID)
	if err != nil {
		return nil, NewBusinessError("SCAN_LOOKUP_FAILED", "Failed to lookup scan", err)
	}
	var scanID *uint
	var scanUUID *uuid.UUID
	if scan != nil {
		scanID = &scan.ID
		scanUUID = &scan.UUID
	}

	submission := &models.ReviewSubmission{
		CodeID:         code.ID,
		OwnerID:        code.MerchantID,
		ScanID:         scanID,
		Rating:         req.Rating,
		Comment:        comment,
		GoogleClicked:  false,
		ContactClicked: false,
		LastCTA:        models.LastCTANone,
	}
	if err := f.submissionRepo.Save(ctx, submission); err != nil {
		return nil, NewBusinessError("SUBMIT_REVIEW_FAILED", "Failed to save submission", err)
	}

	outcome := submission.Outcome()
	if outcome == models.OutcomeNegative {
		f.notifyNegativeFeedback(ctx, &code, submission)
	}

	return &dto.SubmitReviewResponse{
		Message:    "Review submitted",
		Submission: mapSubmissionDTO(*submission, code.UUID, scanUUID),
		Outcome:    outcome.String(),
	}, nil
}

// notifyNegativeFeedback alerts the merchant about a negative submission.
// Best-effort: the alert is sent on its own goroutine and a delivery failure
// never surfaces to the submitting customer.
func (f *SubmissionFlowImpl) notifyNegativeFeedback(ctx context.Context, code *models.IssuedCode, submission *models.ReviewSubmission) {
	if f.notifier == nil {
		return
	}

	merchant, err := getMerchant(ctx, f.merchantRepo, code.MerchantID)
	if err != nil {
		return
	}

	recipient := strings.TrimSpace(f.adminConfig.AlertEmail)
	if merchant.Branding.ContactEmail != nil && strings.TrimSpace(*merchant.Branding.ContactEmail) != "" {
		recipient = strings.TrimSpace(*merchant.Branding.ContactEmail)
	}
	if recipient == "" {
		return
	}

	subject := fmt.Sprintf("Negative feedback on %s", code.Label)
	body := fmt.Sprintf("A customer rated %q %d out of %d.", code.Label, submission.Rating, models.MaxRating)
	if submission.Comment != nil {
		body = fmt.Sprintf("%s\n\nComment:\n%s", body, *submission.Comment)
	}

	go func() {
		_ = f.notifier.SendEmail(context.Background(), recipient, subject, body)
	}()
}
