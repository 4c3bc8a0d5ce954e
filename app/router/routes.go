// Package router provides HTTP routing, middleware configuration, and server setup for the web application
package router

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"log"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/compress"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/helmet"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/ratetap/ratetap/app/dto"
	"github.com/ratetap/ratetap/app/handlers"
	"github.com/ratetap/ratetap/app/middleware"
	"github.com/ratetap/ratetap/config"
	_ "github.com/ratetap/ratetap/docs"
	"github.com/ratetap/ratetap/utils"
	"github.com/swaggo/swag"
)

// Router interface for HTTP routing
type Router interface {
	SetupRoutes()
	Start(address string) error
	GetApp() *fiber.App
}

// FiberRouter implements Router using Fiber v3
type FiberRouter struct {
	app              *fiber.App
	cfg              *config.ProductionConfig
	resolveHandler   handlers.ResolveHandlerInterface
	feedbackHandler  handlers.FeedbackHandlerInterface
	codeAdminHandler handlers.CodeAdminHandlerInterface
	analyticsHandler handlers.AnalyticsHandlerInterface
	authMiddleware   *middleware.AuthMiddleware
}

// NewFiberRouter creates a new Fiber router
func NewFiberRouter(
	cfg *config.ProductionConfig,
	resolveHandler handlers.ResolveHandlerInterface,
	feedbackHandler handlers.FeedbackHandlerInterface,
	codeAdminHandler handlers.CodeAdminHandlerInterface,
	analyticsHandler handlers.AnalyticsHandlerInterface,
	authMiddleware *middleware.AuthMiddleware,
) Router {
	// Configure Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "RateTap API",
		ServerHeader: "RateTap",
		ErrorHandler: errorHandler,
		BodyLimit:    cfg.Server.BodyLimit,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
	})

	return &FiberRouter{
		app:              app,
		cfg:              cfg,
		resolveHandler:   resolveHandler,
		feedbackHandler:  feedbackHandler,
		codeAdminHandler: codeAdminHandler,
		analyticsHandler: analyticsHandler,
		authMiddleware:   authMiddleware,
	}
}

// SetupRoutes configures all application routes
func (r *FiberRouter) SetupRoutes() {
	log.Println("Setting up routes...")

	// Global middleware
	r.setupMiddleware()

	// Health check route (no rate limiting)
	r.app.Get("/health", r.healthCheck)

	// Prometheus scrape endpoint
	if r.cfg.Metrics.Enabled {
		metricsPath := r.cfg.Metrics.Path
		if metricsPath == "" {
			metricsPath = "/metrics"
		}
		r.app.Get(metricsPath, adaptor.HTTPHandler(promhttp.Handler()))
	}

	// API routes
	api := r.app.Group("/api/v1")

	// API documentation route (development only)
	if os.Getenv("APP_ENV") == "development" || os.Getenv("APP_ENV") == "local" {
		api.Get("/docs", r.getAPIDocumentation)
		api.Get("/swagger.json", r.serveSwaggerJSON)
		// Serve Swagger UI
		r.app.Get("/swagger", r.serveSwaggerUI)
		log.Println("API documentation enabled for development")
	}

	// Apply general rate limiting to all API routes (aligned with nginx)
	api.Use(limiter.New(limiter.Config{
		Max:        r.cfg.Security.GlobalRateLimit,
		Expiration: r.cfg.Security.RateLimitWindow,
		KeyGenerator: func(c fiber.Ctx) string {
			return c.IP() // Rate limit by IP
		},
		LimitReached: func(c fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.APIResponse{
				Success: false,
				Message: "Too many requests. Please try again later.",
				Error: dto.ErrorDetail{
					Code: "RATE_LIMIT_EXCEEDED",
				},
			})
		},
	}))

	// Stricter per-IP budget on the public scan-side surface. The admin surface
	// is authenticated and only bound by the general tier above.
	api.Use(limiter.New(limiter.Config{
		Max:        r.cfg.Security.ScanRateLimit,
		Expiration: r.cfg.Security.RateLimitWindow,
		KeyGenerator: func(c fiber.Ctx) string {
			return c.IP() // Rate limit by IP
		},
		LimitReached: func(c fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.APIResponse{
				Success: false,
				Message: "Too many requests. Please try again later.",
				Error: dto.ErrorDetail{
					Code: "RATE_LIMIT_EXCEEDED",
				},
			})
		},
		Next: func(c fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), "/api/v1/admin")
		},
	}))

	// Public endpoints (QR scan side, no authentication)
	api.Get("/resolve/:shortCode", r.resolveHandler.Resolve)
	api.Get("/codes/:shortCode/qr.png", r.resolveHandler.QRImage)
	api.Post("/scans", r.feedbackHandler.RecordScan)
	api.Post("/submissions", r.feedbackHandler.SubmitReview)
	api.Post("/submissions/:uuid/clicks", r.feedbackHandler.RecordClick)

	// Admin endpoints (merchant identity from bearer token)
	admin := api.Group("/admin")
	admin.Use(r.authMiddleware.Authenticate())

	admin.Post("/codes/batch", r.codeAdminHandler.IssueBatch)
	admin.Get("/codes", r.codeAdminHandler.ListCodes)
	admin.Post("/codes/:uuid/archive", r.codeAdminHandler.ArchiveCode)
	admin.Get("/codes/batches/:batchId/export", r.codeAdminHandler.ExportBatch)
	admin.Get("/analytics/daily", r.analyticsHandler.Daily)
	admin.Get("/analytics/summary", r.analyticsHandler.Summary)

	// Not found handler
	r.app.Use(r.notFoundHandler)

	log.Println("Routes configured successfully")
}

// SetupMiddleware configures global middleware
func (r *FiberRouter) setupMiddleware() {
	// Request ID middleware - must be first
	r.app.Use(requestid.New(requestid.Config{
		Header: "X-Request-ID",
		Generator: func() string {
			return generateRequestID()
		},
	}))

	// Security headers middleware
	r.app.Use(helmet.New(helmet.Config{
		XSSProtection:             r.cfg.Security.XSSProtection,
		ContentTypeNosniff:        r.cfg.Security.XContentTypeOptions,
		XFrameOptions:             r.cfg.Security.XFrameOptions,
		HSTSMaxAge:                r.cfg.Security.HSTSMaxAge,
		HSTSExcludeSubdomains:     !r.cfg.Security.HSTSIncludeSubDoms,
		ContentSecurityPolicy:     r.cfg.Security.CSPPolicy,
		ReferrerPolicy:            r.cfg.Security.ReferrerPolicy,
		CrossOriginEmbedderPolicy: "require-corp",
		CrossOriginOpenerPolicy:   "same-origin",
		CrossOriginResourcePolicy: "cross-origin",
		OriginAgentCluster:        "?1",
		XDNSPrefetchControl:       "off",
		XDownloadOptions:          "noopen",
		XPermittedCrossDomain:     "none",
	}))

	// CORS middleware with production settings
	r.app.Use(cors.New(cors.Config{
		AllowOrigins: r.cfg.Security.AllowedOrigins,
		AllowMethods: r.cfg.Security.AllowedMethods,
		AllowHeaders: r.cfg.Security.AllowedHeaders,
		ExposeHeaders: []string{
			"X-Request-ID",
			"X-Response-Time",
			"Content-Disposition",
		},
		AllowCredentials: r.cfg.Security.AllowCredentials,
		MaxAge:           r.cfg.Security.CORSMaxAge,
	}))

	// Compression middleware for performance
	r.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
		Next: func(c fiber.Ctx) bool {
			// Skip compression for binary payloads (QR PNGs, XLSX manifests)
			contentType := c.Get("Content-Type")
			return contains(contentType, "image/") ||
				contains(contentType, "application/vnd.openxmlformats")
		},
	}))

	// Advanced logging middleware
	r.app.Use(logger.New(logger.Config{
		Format:     `{"time":"${time}","pid":"${pid}","request_id":"${locals:requestid}","level":"info","method":"${method}","path":"${path}","protocol":"${protocol}","ip":"${ip}","user_agent":"${ua}","status":${status},"latency":"${latency}","bytes_in":${bytesReceived},"bytes_out":${bytesSent},"referer":"${referer}"}` + "\n",
		TimeFormat: time.RFC3339,
		TimeZone:   "UTC",
		Next: func(c fiber.Ctx) bool {
			// Skip logging for health checks in production
			return c.Path() == "/health"
		},
	}))

	// Prometheus HTTP metrics
	if r.cfg.Metrics.Enabled {
		r.app.Use(middleware.Metrics())
	}

	// Custom security middleware
	r.app.Use(r.securityMiddleware)

	// Recovery middleware with custom error handling
	r.app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c fiber.Ctx, e interface{}) {
			// Log panic with request context
			log.Printf(`{"time":"%s","level":"error","request_id":"%s","event":"panic","error":"%v","path":"%s","method":"%s","ip":"%s"}`,
				utils.UTCNow().Format(time.RFC3339),
				c.Locals("requestid"),
				e,
				c.Path(),
				c.Method(),
				c.IP(),
			)
		},
	}))
}

// Custom security middleware
func (r *FiberRouter) securityMiddleware(c fiber.Ctx) error {
	// Add security headers
	c.Set("X-Response-Time", utils.UTCNow().Format(time.RFC3339))
	c.Set("Server", "RateTap")

	// Continue to next middleware
	return c.Next()
}

// Start starts the HTTP server
func (r *FiberRouter) Start(address string) error {
	log.Printf("Starting server on %s", address)
	return r.app.Listen(address)
}

// GetApp returns the Fiber app instance
func (r *FiberRouter) GetApp() *fiber.App {
	return r.app
}

// Health check endpoint
func (r *FiberRouter) healthCheck(c fiber.Ctx) error {
	return c.JSON(dto.APIResponse{
		Success: true,
		Message: "Service is healthy",
		Data: fiber.Map{
			"status":      "ok",
			"timestamp":   utils.UTCNow().Unix(),
			"version":     r.cfg.Deployment.Version,
			"service":     "ratetap-api",
			"environment": r.cfg.Deployment.Environment,
		},
	})
}

// API documentation endpoint
func (r *FiberRouter) getAPIDocumentation(c fiber.Ctx) error {
	docs := GetRouteDocumentation()
	return c.JSON(dto.APIResponse{
		Success: true,
		Message: "API documentation retrieved successfully",
		Data: fiber.Map{
			"title":       "RateTap API Documentation",
			"version":     "1.0.0",
			"description": "QR feedback code issuance, scan capture, and review attribution API",
			"endpoints":   docs,
		},
	})
}

// Serve Swagger UI HTML page
func (r *FiberRouter) serveSwaggerUI(c fiber.Ctx) error {
	htmlContent := `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>RateTap API - Swagger UI</title>
    <link rel="stylesheet" type="text/css" href="https://unpkg.com/swagger-ui-dist@5.9.0/swagger-ui.css" />
    <style>
        html {
            box-sizing: border-box;
            overflow: -moz-scrollbars-vertical;
            overflow-y: scroll;
        }
        *, *:before, *:after {
            box-sizing: inherit;
        }
        body {
            margin:0;
            background: #fafafa;
        }
    </style>
</head>
<body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5.9.0/swagger-ui-bundle.js"></script>
    <script src="https://unpkg.com/swagger-ui-dist@5.9.0/swagger-ui-standalone-preset.js"></script>
    <script>
        window.onload = function() {
            const ui = SwaggerUIBundle({
                url: '/api/v1/swagger.json',
                dom_id: '#swagger-ui',
                deepLinking: true,
                presets: [
                    SwaggerUIBundle.presets.apis,
                    SwaggerUIStandalonePreset
                ],
                plugins: [
                    SwaggerUIBundle.plugins.DownloadUrl
                ],
                layout: "StandaloneLayout",
                validatorUrl: null
            });
        };
    </script>
</body>
</html>`

	c.Set("Content-Type", "text/html")
	return c.SendString(htmlContent)
}

// Serve Swagger JSON specification
func (r *FiberRouter) serveSwaggerJSON(c fiber.Ctx) error {
	// Render the doc registered by the generated docs package
	doc, err := swag.ReadDoc()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.APIResponse{
			Success: false,
			Message: "Failed to load Swagger documentation",
			Error: dto.ErrorDetail{
				Code: "SWAGGER_LOAD_ERROR",
			},
		})
	}

	c.Set("Content-Type", "application/json")
	return c.SendString(doc)
}

// Not found handler
func (r *FiberRouter) notFoundHandler(c fiber.Ctx) error {
	requestID := c.Locals("requestid")

	return c.Status(fiber.StatusNotFound).JSON(dto.APIResponse{
		Success: false,
		Message: "The requested resource was not found",
		Error: dto.ErrorDetail{
			Code: "NOT_FOUND",
			Details: fiber.Map{
				"path":       c.Path(),
				"method":     c.Method(),
				"request_id": requestID,
			},
		},
	})
}

// Global error handler
func errorHandler(c fiber.Ctx, err error) error {
	// Default error code
	code := fiber.StatusInternalServerError

	// Retrieve the custom status code if it's a fiber.*Error
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	// Log the error
	log.Printf("Error %d: %v", code, err)

	// Get RequestID for tracing
	requestID := c.Locals("requestid")

	// Return JSON error response
	return c.Status(code).JSON(dto.APIResponse{
		Success: false,
		Message: "An internal server error occurred",
		Error: dto.ErrorDetail{
			Code: "INTERNAL_ERROR",
			Details: fiber.Map{
				"timestamp":  utils.UTCNow().Unix(),
				"request_id": requestID,
			},
		},
	})
}

// Helper functions

// generateRequestID creates a unique request ID
func generateRequestID() string {
	bytes := make([]byte, 8)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

// contains checks if a string contains a substring
func contains(str, substr string) bool {
	return strings.Contains(str, substr)
}

// GetRouteDocumentation returns API documentation
func GetRouteDocumentation() []map[string]any {
	return []map[string]any{
		{
			"method":      "GET",
			"path":        "/api/v1/resolve/:shortCode",
			"description": "Resolve a short code into its feedback target and merchant branding",
			"parameters": map[string]any{
				"shortCode": "string (required) - Short code from the scanned QR",
			},
		},
		{
			"method":      "GET",
			"path":        "/api/v1/codes/:shortCode/qr.png",
			"description": "Regenerate the QR PNG for an active code",
			"parameters": map[string]any{
				"shortCode": "string (required) - Short code from the scanned QR",
				"size":      "number (optional) - PNG edge length in pixels",
			},
		},
		{
			"method":      "POST",
			"path":        "/api/v1/scans",
			"description": "Record a scan event against an issued code",
			"parameters": map[string]any{
				"code_uuid":  "string (required) - UUID of the resolved code",
				"session_id": "string (required) - Client session identifier (8-64 chars)",
			},
		},
		{
			"method":      "POST",
			"path":        "/api/v1/submissions",
			"description": "Submit a rating with optional comment",
			"parameters": map[string]any{
				"code_uuid":  "string (required) - UUID of the resolved code",
				"session_id": "string (required) - Client session identifier",
				"rating":     "number (required) - 1 to 5",
				"comment":    "string (optional) - Free-form comment, max 2000 chars",
			},
		},
		{
			"method":      "POST",
			"path":        "/api/v1/submissions/:uuid/clicks",
			"description": "Record a CTA click against a submission",
			"parameters": map[string]any{
				"uuid":     "string (required) - Submission UUID in URL path",
				"cta_type": "string (required) - google_copy|google_direct|contact_email|contact_phone",
			},
		},
		{
			"method":      "POST",
			"path":        "/api/v1/admin/codes/batch",
			"description": "Issue a batch of QR feedback codes sharing one batch id",
			"parameters": map[string]any{
				"count":         "number (required) - Batch size, 1 to 100",
				"label_scheme":  "string (required) - sequential|location|merchant_timestamp",
				"label_prefix":  "string (optional) - Required for sequential labels",
				"location_uuid": "string (optional) - Location for location-qualified labels",
				"batch_id":      "string (optional) - Reuse an existing batch id",
			},
		},
		{
			"method":      "GET",
			"path":        "/api/v1/admin/codes",
			"description": "List the merchant's issued codes with filters and pagination",
			"parameters": map[string]any{
				"status":        "string (optional) - active|archived",
				"batch_id":      "string (optional) - Batch UUID filter",
				"location_uuid": "string (optional) - Location UUID filter",
				"short_code":    "string (optional) - Exact short code lookup",
				"page":          "number (optional) - Page number (default 1)",
				"limit":         "number (optional) - Page size (default 10, max 100)",
				"orderby":       "string (optional) - newest|oldest",
			},
		},
		{
			"method":      "POST",
			"path":        "/api/v1/admin/codes/:uuid/archive",
			"description": "Archive an issued code (idempotent)",
			"parameters": map[string]any{
				"uuid": "string (required) - Code UUID in URL path",
			},
		},
		{
			"method":      "GET",
			"path":        "/api/v1/admin/codes/batches/:batchId/export",
			"description": "Download the XLSX manifest for a batch",
			"parameters": map[string]any{
				"batchId": "string (required) - Batch UUID in URL path",
			},
		},
		{
			"method":      "GET",
			"path":        "/api/v1/admin/analytics/daily",
			"description": "Day-bucketed scan, submission, and click counts",
			"parameters": map[string]any{
				"days": "number (optional) - Window size in days, 1 to 365 (default 30)",
			},
		},
		{
			"method":      "GET",
			"path":        "/api/v1/admin/analytics/summary",
			"description": "Window totals with percent change against the previous window",
			"parameters": map[string]any{
				"days": "number (optional) - Window size in days, 1 to 365 (default 30)",
			},
		},
		{
			"method":      "GET",
			"path":        "/health",
			"description": "Health check endpoint",
			"parameters":  map[string]any{},
		},
	}
}
