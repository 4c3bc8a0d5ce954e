// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/ratetap/ratetap/app/dto"
	"github.com/ratetap/ratetap/app/middleware"
	businessflow "github.com/ratetap/ratetap/business_flow"
	"github.com/ratetap/ratetap/utils"
)

// CodeAdminHandlerInterface defines the contract for the merchant code administration handlers
type CodeAdminHandlerInterface interface {
	IssueBatch(c fiber.Ctx) error
	ListCodes(c fiber.Ctx) error
	ArchiveCode(c fiber.Ctx) error
	ExportBatch(c fiber.Ctx) error
}

// CodeAdminHandler handles code issuance and management HTTP requests
type CodeAdminHandler struct {
	codeBatchFlow businessflow.CodeBatchFlow
	validator     *validator.Validate
}

// NewCodeAdminHandler creates a new code admin handler
func NewCodeAdminHandler(codeBatchFlow businessflow.CodeBatchFlow) *CodeAdminHandler {
	return &CodeAdminHandler{
		codeBatchFlow: codeBatchFlow,
		validator:     validator.New(),
	}
}

func (h *CodeAdminHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *CodeAdminHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// IssueBatch handles batch code issuance for the authenticated merchant
// @Summary Issue Code Batch
// @Description Issue a batch of QR feedback codes sharing one batch id
// @Tags Admin Codes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.IssueCodeBatchRequest true "Batch issuance data"
// @Success 201 {object} dto.APIResponse{data=dto.IssueCodeBatchResponse} "Codes issued"
// @Failure 400 {object} dto.APIResponse "Validation error or invalid request"
// @Failure 401 {object} dto.APIResponse "Unauthorized - merchant not found"
// @Failure 404 {object} dto.APIResponse "Location not found"
// @Failure 409 {object} dto.APIResponse "Short code collision budget exhausted"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/admin/codes/batch [post]
func (h *CodeAdminHandler) IssueBatch(c fiber.Ctx) error {
	var req dto.IssueCodeBatchRequest
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

	// Get authenticated merchant ID from context
	merchantID, ok := c.Locals("merchant_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Merchant ID not found in context", "MISSING_MERCHANT_ID", nil)
	}
	req.MerchantID = merchantID

	// Call business logic with proper context
	result, err := h.codeBatchFlow.IssueBatch(h.createRequestContext(c, "/api/v1/admin/codes/batch"), &req, metadata)
	if err != nil {
		if businessflow.IsMerchantNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusUnauthorized, "Merchant not found", "MERCHANT_NOT_FOUND", nil)
		}
		if businessflow.IsLocationNotFound(err) || businessflow.IsLocationNotOwned(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Location not found", "LOCATION_NOT_FOUND", nil)
		}
		if businessflow.IsBatchSizeOutOfRange(err) || businessflow.IsLabelSchemeInvalid(err) ||
			businessflow.IsLabelRequired(err) || businessflow.IsResolveURLInvalid(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Batch validation failed", "VALIDATION_ERROR", err.Error())
		}
		if businessflow.IsShortCodeExhausted(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "Could not allocate unique short codes", "CODE_COLLISION", nil)
		}

		log.Println("Code batch issuance failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Code batch issuance failed", "ISSUE_BATCH_FAILED", nil)
	}

	middleware.RecordCodesIssued(len(result.Codes))

	return h.SuccessResponse(c, fiber.StatusCreated, "Codes issued successfully", fiber.Map{
		"message":  result.Message,
		"batch_id": result.BatchID,
		"codes":    result.Codes,
	})
}

// ListCodes returns the merchant's issued codes with filters and pagination
// @Summary List Issued Codes
// @Description Retrieve the authenticated merchant's codes with pagination, ordering, and filters
// @Tags Admin Codes
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page (max 100)" default(10)
// @Param orderby query string false "Order by (newest|oldest)" default(newest)
// @Param status query string false "Filter by status (active|archived)"
// @Param batch_id query string false "Filter by batch id"
// @Param location_uuid query string false "Filter by location"
// @Param short_code query string false "Filter by exact short code"
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.ListIssuedCodesResponse}
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/admin/codes [get]
func (h *CodeAdminHandler) ListCodes(c fiber.Ctx) error {
	// Parse query params
	pageStr := c.Query("page", "1")
	limitStr := c.Query("limit", "10")
	page := 1
	if v, err := strconv.Atoi(pageStr); err == nil && v > 0 {
		page = v
	}
	limit := 10
	if v, err := strconv.Atoi(limitStr); err == nil && v > 0 {
		limit = v
	}
	if limit > 100 {
		limit = 100
	}
	orderby := c.Query("orderby", "newest")
	status := c.Query("status")
	batchID := c.Query("batch_id")
	locationUUID := c.Query("location_uuid")
	shortCode := c.Query("short_code")

	// Get authenticated merchant ID
	merchantID, ok := c.Locals("merchant_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Merchant ID not found in context", "MISSING_MERCHANT_ID", nil)
	}

	// Build request DTO
	var filter *dto.ListIssuedCodesFilter
	if status != "" || batchID != "" || locationUUID != "" || shortCode != "" {
		filter = &dto.ListIssuedCodesFilter{}
		if status != "" {
			filter.Status = &status
		}
		if batchID != "" {
			filter.BatchID = &batchID
		}
		if locationUUID != "" {
			filter.LocationUUID = &locationUUID
		}
		if shortCode != "" {
			filter.ShortCode = &shortCode
		}
	}
	req := &dto.ListIssuedCodesRequest{
		MerchantID: merchantID,
		Page:       page,
		Limit:      limit,
		OrderBy:    orderby,
		Filter:     filter,
	}

	// Client metadata
	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	// Call business logic
	result, err := h.codeBatchFlow.ListCodes(h.createRequestContext(c, "/api/v1/admin/codes"), req, metadata)
	if err != nil {
		if businessflow.IsMerchantNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusUnauthorized, "Merchant not found", "MERCHANT_NOT_FOUND", nil)
		}
		if businessflow.IsLocationNotFound(err) || businessflow.IsLocationNotOwned(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Location not found", "LOCATION_NOT_FOUND", nil)
		}

		log.Println("List codes failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list codes", "LIST_CODES_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Codes retrieved successfully", fiber.Map{
		"message":    result.Message,
		"items":      result.Items,
		"pagination": result.Pagination,
	})
}

// ArchiveCode retires a code from public resolution
// @Summary Archive Issued Code
// @Description Archive a code; resolving it afterwards returns not-found. Idempotent.
// @Tags Admin Codes
// @Accept json
// @Produce json
// @Param uuid path string true "Code UUID"
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.ArchiveCodeResponse} "Code archived"
// @Failure 400 {object} dto.APIResponse "Invalid UUID"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 404 {object} dto.APIResponse "Code not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/admin/codes/{uuid}/archive [post]
func (h *CodeAdminHandler) ArchiveCode(c fiber.Ctx) error {
	codeUUID := c.Params("uuid")
	if codeUUID == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Code UUID is required", "MISSING_CODE_UUID", nil)
	}

	// Get authenticated merchant ID
	merchantID, ok := c.Locals("merchant_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Merchant ID not found in context", "MISSING_MERCHANT_ID", nil)
	}

	req := &dto.ArchiveCodeRequest{
		UUID:       codeUUID,
		MerchantID: merchantID,
	}

	// Validate request
	if err := h.validator.Struct(req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	// Client metadata
	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	result, err := h.codeBatchFlow.ArchiveCode(h.createRequestContext(c, "/api/v1/admin/codes/"+codeUUID+"/archive"), req, metadata)
	if err != nil {
		if businessflow.IsCodeNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Code not found", "CODE_NOT_FOUND", nil)
		}

		log.Println("Archive code failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to archive code", "ARCHIVE_CODE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Code archived successfully", fiber.Map{
		"message": result.Message,
		"status":  result.Status,
	})
}

// ExportBatch streams the batch manifest workbook for a print run
// @Summary Export Code Batch
// @Description Download one batch as an XLSX manifest with embedded QR images
// @Tags Admin Codes
// @Accept json
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param batchId path string true "Batch UUID"
// @Security BearerAuth
// @Success 200 {string} string "Excel file"
// @Failure 400 {object} dto.APIResponse "Invalid batch id"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 404 {object} dto.APIResponse "Batch not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/admin/codes/batches/{batchId}/export [get]
func (h *CodeAdminHandler) ExportBatch(c fiber.Ctx) error {
	batchID, err := utils.ParseUUID(c.Params("batchId"))
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "batch id must be a valid UUID", "VALIDATION_ERROR", nil)
	}

	// Get authenticated merchant ID
	merchantID, ok := c.Locals("merchant_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Merchant ID not found in context", "MISSING_MERCHANT_ID", nil)
	}

	filename, data, err := h.codeBatchFlow.ExportBatch(h.createRequestContextWithTimeout(c, "/api/v1/admin/codes/batches/"+batchID.String()+"/export", 60*time.Second), merchantID, batchID)
	if err != nil {
		if businessflow.IsMerchantNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusUnauthorized, "Merchant not found", "MERCHANT_NOT_FOUND", nil)
		}
		if businessflow.IsBatchNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Batch not found", "BATCH_NOT_FOUND", nil)
		}

		log.Println("Export batch failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to export batch", "EXPORT_BATCH_FAILED", nil)
	}

	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set("Content-Disposition", "attachment; filename="+filename)
	return c.Send(data)
}

// createRequestContext creates a context with request-scoped values for observability and timeout
func (h *CodeAdminHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return h.createRequestContextWithTimeout(c, endpoint, 30*time.Second)
}

// createRequestContextWithTimeout creates a context with custom timeout and request-scoped values
func (h *CodeAdminHandler) createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)

	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.TimeoutKey, timeout)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel)

	return ctx
}
