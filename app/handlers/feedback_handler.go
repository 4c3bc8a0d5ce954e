// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"context"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/ratetap/ratetap/app/dto"
	"github.com/ratetap/ratetap/app/middleware"
	businessflow "github.com/ratetap/ratetap/business_flow"
	"github.com/ratetap/ratetap/utils"
)

// FeedbackHandlerInterface defines the contract for the public feedback pipeline handlers
type FeedbackHandlerInterface interface {
	RecordScan(c fiber.Ctx) error
	SubmitReview(c fiber.Ctx) error
	RecordClick(c fiber.Ctx) error
}

// FeedbackHandler handles scan, submission, and click HTTP requests
type FeedbackHandler struct {
	scanFlow        businessflow.ScanFlow
	submissionFlow  businessflow.SubmissionFlow
	attributionFlow businessflow.AttributionFlow
	fingerprinter   *utils.IPFingerprinter
	validator       *validator.Validate
}

// NewFeedbackHandler creates a new feedback handler
func NewFeedbackHandler(
	scanFlow businessflow.ScanFlow,
	submissionFlow businessflow.SubmissionFlow,
	attributionFlow businessflow.AttributionFlow,
	fingerprinter *utils.IPFingerprinter,
) *FeedbackHandler {
	return &FeedbackHandler{
		scanFlow:        scanFlow,
		submissionFlow:  submissionFlow,
		attributionFlow: attributionFlow,
		fingerprinter:   fingerprinter,
		validator:       validator.New(),
	}
}

func (h *FeedbackHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *FeedbackHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// RecordScan appends one scan event for a code and session
// @Summary Record Scan
// @Description Record one scan of a code. The client IP is stored only as a keyed one-way fingerprint.
// @Tags Feedback
// @Accept json
// @Produce json
// @Param request body dto.RecordScanRequest true "Scan data"
// @Success 201 {object} dto.APIResponse{data=dto.RecordScanResponse} "Scan recorded"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 404 {object} dto.APIResponse "Code not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/scans [post]
func (h *FeedbackHandler) RecordScan(c fiber.Ctx) error {
	var req dto.RecordScanRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	// The fingerprint and user agent are derived from transport data, never
	// trusted from the body.
	req.IPFingerprint = h.fingerprinter.Fingerprint(c.IP())
	if ua := c.Get("User-Agent"); ua != "" {
		req.UserAgent = &ua
	}

	// Validate request
	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	// Get client information
	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	metadata.SetSessionID(req.SessionID)

	// Call business logic with proper context
	result, err := h.scanFlow.RecordScan(h.createRequestContext(c, "/api/v1/scans"), &req, metadata)
	if err != nil {
		if businessflow.IsCodeNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Code not found", "CODE_NOT_FOUND", nil)
		}
		if businessflow.IsSessionIDRequired(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "session_id is required", "VALIDATION_ERROR", nil)
		}

		log.Println("Record scan failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to record scan", "RECORD_SCAN_FAILED", nil)
	}

	middleware.RecordScanEvent()

	return h.SuccessResponse(c, fiber.StatusCreated, "Scan recorded successfully", fiber.Map{
		"message": result.Message,
		"scan":    result.Scan,
	})
}

// SubmitReview validates and persists one rating submission
// @Summary Submit Review
// @Description Submit a rating with optional comment. The response carries the branch outcome the caller renders.
// @Tags Feedback
// @Accept json
// @Produce json
// @Param request body dto.SubmitReviewRequest true "Submission data"
// @Success 201 {object} dto.APIResponse{data=dto.SubmitReviewResponse} "Review submitted"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 404 {object} dto.APIResponse "Code not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/submissions [post]
func (h *FeedbackHandler) SubmitReview(c fiber.Ctx) error {
	var req dto.SubmitReviewRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	// Validate request
	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	// Get client information
	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	metadata.SetSessionID(req.SessionID)

	// Call business logic with proper context
	result, err := h.submissionFlow.Submit(h.createRequestContext(c, "/api/v1/submissions"), &req, metadata)
	if err != nil {
		if businessflow.IsCodeNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Code not found", "CODE_NOT_FOUND", nil)
		}
		if businessflow.IsRatingOutOfRange(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Rating must be between 1 and 5", "VALIDATION_ERROR", nil)
		}
		if businessflow.IsSessionIDRequired(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "session_id is required", "VALIDATION_ERROR", nil)
		}

		log.Println("Submit review failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to submit review", "SUBMIT_REVIEW_FAILED", nil)
	}

	middleware.RecordSubmission(result.Outcome)

	return h.SuccessResponse(c, fiber.StatusCreated, "Review submitted successfully", fiber.Map{
		"message":    result.Message,
		"submission": result.Submission,
		"outcome":    result.Outcome,
	})
}

// RecordClick appends one CTA click and folds it into the parent submission
// @Summary Record CTA Click
// @Description Record a call-to-action click after a submission. Repeat clicks all persist.
// @Tags Feedback
// @Accept json
// @Produce json
// @Param uuid path string true "Submission UUID"
// @Param request body dto.RecordClickRequest true "Click data"
// @Success 201 {object} dto.APIResponse{data=dto.RecordClickResponse} "Click recorded"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 404 {object} dto.APIResponse "Submission not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/submissions/{uuid}/clicks [post]
func (h *FeedbackHandler) RecordClick(c fiber.Ctx) error {
	submissionUUID := c.Params("uuid")
	if submissionUUID == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Submission UUID is required", "MISSING_SUBMISSION_UUID", nil)
	}

	var req dto.RecordClickRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	req.SubmissionUUID = submissionUUID

	// Validate request
	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	// Get client information
	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	// Call business logic with proper context
	result, err := h.attributionFlow.RecordClick(h.createRequestContext(c, "/api/v1/submissions/"+submissionUUID+"/clicks"), &req, metadata)
	if err != nil {
		if businessflow.IsSubmissionNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Submission not found", "SUBMISSION_NOT_FOUND", nil)
		}
		if businessflow.IsCTATypeInvalid(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Unknown CTA type", "VALIDATION_ERROR", nil)
		}

		log.Println("Record click failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to record click", "RECORD_CLICK_FAILED", nil)
	}

	middleware.RecordCTAClick(req.CTAType)

	return h.SuccessResponse(c, fiber.StatusCreated, "Click recorded successfully", fiber.Map{
		"message":    result.Message,
		"click":      result.Click,
		"submission": result.Submission,
	})
}

// createRequestContext creates a context with request-scoped values for observability and timeout
func (h *FeedbackHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return h.createRequestContextWithTimeout(c, endpoint, 10*time.Second)
}

// createRequestContextWithTimeout creates a context with custom timeout and request-scoped values
func (h *FeedbackHandler) createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)

	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.TimeoutKey, timeout)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel)

	return ctx
}
