// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/ratetap/ratetap/app/dto"
	businessflow "github.com/ratetap/ratetap/business_flow"
	"github.com/ratetap/ratetap/utils"
)

// AnalyticsHandlerInterface defines the contract for the merchant analytics handlers
type AnalyticsHandlerInterface interface {
	Daily(c fiber.Ctx) error
	Summary(c fiber.Ctx) error
}

// AnalyticsHandler handles merchant dashboard aggregate HTTP requests
type AnalyticsHandler struct {
	analyticsFlow businessflow.AnalyticsFlow
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(analyticsFlow businessflow.AnalyticsFlow) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsFlow: analyticsFlow}
}

func (h *AnalyticsHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *AnalyticsHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Daily returns day-bucketed counts over the trailing window
// @Summary Daily Analytics
// @Description Day-bucketed scan/submission/click counts (UTC days) for the authenticated merchant
// @Tags Admin Analytics
// @Produce json
// @Param days query int false "Window size in days (1-365)" default(30)
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.DailyAnalyticsResponse}
// @Failure 400 {object} dto.APIResponse "Invalid window"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/admin/analytics/daily [get]
func (h *AnalyticsHandler) Daily(c fiber.Ctx) error {
	days := 0
	if v, err := strconv.Atoi(c.Query("days", "0")); err == nil {
		days = v
	}

	// Get authenticated merchant ID
	merchantID, ok := c.Locals("merchant_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Merchant ID not found in context", "MISSING_MERCHANT_ID", nil)
	}

	req := &dto.DailyAnalyticsRequest{
		MerchantID: merchantID,
		Days:       days,
	}

	// Client metadata
	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	result, err := h.analyticsFlow.DailySeries(h.createRequestContext(c, "/api/v1/admin/analytics/daily"), req, metadata)
	if err != nil {
		if businessflow.IsMerchantNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusUnauthorized, "Merchant not found", "MERCHANT_NOT_FOUND", nil)
		}
		if businessflow.IsInvalidDayRange(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "days must be between 1 and 365", "VALIDATION_ERROR", nil)
		}

		log.Println("Daily analytics failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load analytics", "ANALYTICS_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Daily analytics retrieved successfully", fiber.Map{
		"message": result.Message,
		"days":    result.Days,
		"buckets": result.Buckets,
	})
}

// Summary returns window totals with percent change against the previous window
// @Summary Analytics Summary
// @Description Totals for the trailing window plus percent change vs the window immediately before it
// @Tags Admin Analytics
// @Produce json
// @Param days query int false "Window size in days (1-365)" default(30)
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.AnalyticsSummaryResponse}
// @Failure 400 {object} dto.APIResponse "Invalid window"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/admin/analytics/summary [get]
func (h *AnalyticsHandler) Summary(c fiber.Ctx) error {
	days := 0
	if v, err := strconv.Atoi(c.Query("days", "0")); err == nil {
		days = v
	}

	// Get authenticated merchant ID
	merchantID, ok := c.Locals("merchant_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Merchant ID not found in context", "MISSING_MERCHANT_ID", nil)
	}

	req := &dto.AnalyticsSummaryRequest{
		MerchantID: merchantID,
		Days:       days,
	}

	// Client metadata
	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	result, err := h.analyticsFlow.Summary(h.createRequestContext(c, "/api/v1/admin/analytics/summary"), req, metadata)
	if err != nil {
		if businessflow.IsMerchantNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusUnauthorized, "Merchant not found", "MERCHANT_NOT_FOUND", nil)
		}
		if businessflow.IsInvalidDayRange(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "days must be between 1 and 365", "VALIDATION_ERROR", nil)
		}

		log.Println("Analytics summary failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load analytics", "ANALYTICS_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Analytics summary retrieved successfully", fiber.Map{
		"message":              result.Message,
		"days":                 result.Days,
		"scans":                result.Scans,
		"submissions":          result.Submissions,
		"positive_submissions": result.PositiveSubmissions,
		"clicks":               result.Clicks,
		"average_rating":       result.AverageRating,
	})
}

// createRequestContext creates a context with request-scoped values for observability and timeout
func (h *AnalyticsHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return h.createRequestContextWithTimeout(c, endpoint, 30*time.Second)
}

// createRequestContextWithTimeout creates a context with custom timeout and request-scoped values
func (h *AnalyticsHandler) createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)

	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.TimeoutKey, timeout)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel)

	return ctx
}
