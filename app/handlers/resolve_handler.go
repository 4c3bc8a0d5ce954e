package handlers

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/ratetap/ratetap/app/dto"
	businessflow "github.com/ratetap/ratetap/business_flow"
	"github.com/ratetap/ratetap/utils"
)

// ResolveHandlerInterface defines the contract for public code resolution
type ResolveHandlerInterface interface {
	Resolve(c fiber.Ctx) error
	QRImage(c fiber.Ctx) error
}

// ResolveHandler serves the public scan landing lookups
type ResolveHandler struct {
	resolveFlow businessflow.ResolveFlow
}

// NewResolveHandler creates a new resolve handler
func NewResolveHandler(resolveFlow businessflow.ResolveFlow) ResolveHandlerInterface {
	return &ResolveHandler{resolveFlow: resolveFlow}
}

func (h *ResolveHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

// Resolve looks up a scanned short code and returns the code plus merchant branding
// @Summary Resolve Short Code
// @Description Resolve a scanned code to its owning merchant's branding. Archived and unknown codes are indistinguishable.
// @Tags Feedback
// @Produce json
// @Param shortCode path string true "Short code from the QR"
// @Success 200 {object} dto.APIResponse{data=dto.ResolveCodeResponse}
// @Failure 404 {object} dto.APIResponse "Link unavailable"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/resolve/{shortCode} [get]
func (h *ResolveHandler) Resolve(c fiber.Ctx) error {
	shortCode := c.Params("shortCode")
	if shortCode == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Short code is required", "VALIDATION_ERROR", nil)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	result, err := h.resolveFlow.Resolve(h.createRequestContext(c, "/api/v1/resolve/"+shortCode), shortCode, metadata)
	if err != nil {
		if businessflow.IsCodeNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Link unavailable", "CODE_NOT_FOUND", nil)
		}

		log.Println("Resolve code failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to resolve code", "RESOLVE_FAILED", nil)
	}

	return c.Status(fiber.StatusOK).JSON(dto.APIResponse{
		Success: true,
		Message: "Code resolved successfully",
		Data: fiber.Map{
			"message":  result.Message,
			"code":     result.Code,
			"branding": result.Branding,
		},
	})
}

// QRImage regenerates the QR PNG for an active code
// @Summary Code QR Image
// @Description Regenerate the QR artifact for an active code. Archived and unknown codes return 404.
// @Tags Feedback
// @Produce image/png
// @Param shortCode path string true "Short code"
// @Success 200 {string} string "PNG image"
// @Failure 404 {object} dto.APIResponse "Link unavailable"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/codes/{shortCode}/qr.png [get]
func (h *ResolveHandler) QRImage(c fiber.Ctx) error {
	shortCode := c.Params("shortCode")
	if shortCode == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Short code is required", "VALIDATION_ERROR", nil)
	}

	png, err := h.resolveFlow.QRImage(h.createRequestContext(c, "/api/v1/codes/"+shortCode+"/qr.png"), shortCode)
	if err != nil {
		if businessflow.IsCodeNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Link unavailable", "CODE_NOT_FOUND", nil)
		}

		log.Println("QR image generation failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to generate QR image", "QR_RENDER_FAILED", nil)
	}

	c.Set("Content-Type", "image/png")
	c.Set("Cache-Control", "no-store")
	return c.Send(png)
}

func (h *ResolveHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return h.createRequestContextWithTimeout(c, endpoint, 10*time.Second)
}

func (h *ResolveHandler) createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.TimeoutKey, timeout)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel)
	return ctx
}
