// internal/api/api.go
package api

import (
	"crypto/rand"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/planboard/planboard/internal/ai"
	"github.com/planboard/planboard/internal/conf"
	"github.com/planboard/planboard/internal/datastore"
	"github.com/planboard/planboard/internal/logging"
	"github.com/planboard/planboard/internal/observability"
	"github.com/planboard/planboard/internal/rating"
)

// Controller manages the API routes and handlers
type Controller struct {
	Echo     *echo.Echo
	Group    *echo.Group
	DS       datastore.Interface
	Settings *conf.Settings

	clock     rating.Clock
	aiService *ai.Service
	metrics   *observability.Metrics
	logger    *log.Logger

	apiLogger      *slog.Logger   // structured logger for API operations
	apiLevelVar    *slog.LevelVar // dynamic level control
	apiLoggerClose func() error   // closes the log file

	startTime time.Time
}

// New creates a new API controller and registers all routes under /api/v1.
func New(e *echo.Echo, ds datastore.Interface, settings *conf.Settings,
	clock rating.Clock, aiService *ai.Service,
	metrics *observability.Metrics, logger *log.Logger) *Controller {
	return NewWithOptions(e, ds, settings, clock, aiService, metrics, logger, true)
}

// NewWithOptions creates a new API controller with optional route
// initialization. Set initializeRoutes to false in tests that call handlers
// directly.
func NewWithOptions(e *echo.Echo, ds datastore.Interface, settings *conf.Settings,
	clock rating.Clock, aiService *ai.Service,
	metrics *observability.Metrics, logger *log.Logger, initializeRoutes bool) *Controller {

	if logger == nil {
		logger = log.Default()
	}
	if clock == nil {
		clock = rating.SystemClock{}
	}

	c := &Controller{
		Echo:      e,
		DS:        ds,
		Settings:  settings,
		clock:     clock,
		aiService: aiService,
		metrics:   metrics,
		logger:    logger,
		startTime: time.Now(),
	}

	// Structured logger for API requests
	initialLevel := slog.LevelInfo
	if settings.Debug {
		initialLevel = slog.LevelDebug
	}
	c.apiLevelVar = new(slog.LevelVar)
	c.apiLevelVar.Set(initialLevel)

	apiLogger, closeFunc, err := logging.NewFileLogger("logs/web.log", "api", c.apiLevelVar)
	if err != nil {
		logger.Printf("Warning: Failed to initialize API structured logger: %v", err)
		fbHandler := slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{Level: c.apiLevelVar})
		c.apiLogger = slog.New(fbHandler).With("service", "api")
		c.apiLoggerClose = func() error { return nil }
	} else {
		c.apiLogger = apiLogger
		c.apiLoggerClose = closeFunc
	}

	c.Group = e.Group("/api/v1")

	c.Group.Use(middleware.Recover())
	c.Group.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: settings.WebServer.AllowedOrigins,
	}))
	c.Group.Use(middleware.BodyLimit(bodyLimit(settings)))
	c.Group.Use(c.LoggingMiddleware())

	if initializeRoutes {
		c.initRoutes()
	}

	return c
}

func bodyLimit(settings *conf.Settings) string {
	if settings.WebServer.BodyLimit != "" {
		return settings.WebServer.BodyLimit
	}
	return "1M"
}

// LoggingMiddleware creates a middleware function that logs API requests
func (c *Controller) LoggingMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			start := time.Now()

			err := next(ctx)

			if c.apiLogger == nil {
				return err
			}

			req := ctx.Request()
			res := ctx.Response()

			attrs := []slog.Attr{
				slog.String("method", req.Method),
				slog.String("path", req.URL.Path),
				slog.String("query", req.URL.RawQuery),
				slog.Int("status", res.Status),
				slog.String("ip", ctx.RealIP()),
				slog.String("user_agent", req.UserAgent()),
				slog.Int64("latency_ms", time.Since(start).Milliseconds()),
			}
			if err != nil {
				attrs = append(attrs, slog.Any("error", err))
			}

			c.apiLogger.LogAttrs(req.Context(), slog.LevelInfo, "API Request", attrs...)

			return err
		}
	}
}

// initRoutes registers all API endpoints
func (c *Controller) initRoutes() {
	c.Group.GET("/health", c.HealthCheck)

	routeInitializers := []struct {
		name string
		fn   func()
	}{
		{"content routes", c.initContentRoutes},
		{"rating routes", c.initRatingRoutes},
		{"ai routes", c.initAIRoutes},
	}

	for _, initializer := range routeInitializers {
		c.Debug("Initializing %s...", initializer.name)
		initializer.fn()
	}
}

// HealthCheck handles the API health check endpoint
func (c *Controller) HealthCheck(ctx echo.Context) error {
	response := map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
	}

	if c.Settings.Debug {
		response["environment"] = "development"
	} else {
		response["environment"] = "production"
	}

	// Simple connectivity check against the datastore
	dbStatus := "connected"
	if _, err := c.DS.GetPublicationQueue(); err != nil {
		dbStatus = "disconnected"
		response["database_error"] = err.Error()
		response["status"] = "degraded"
	}
	response["database_status"] = dbStatus

	uptime := time.Since(c.startTime)
	response["uptime"] = uptime.String()
	response["uptime_seconds"] = uptime.Seconds()

	return ctx.JSON(http.StatusOK, response)
}

// Shutdown performs cleanup of resources used by the API controller.
func (c *Controller) Shutdown() {
	if c.apiLoggerClose != nil {
		if err := c.apiLoggerClose(); err != nil {
			c.logger.Printf("Error closing API log file: %v", err)
		}
	}
	c.Debug("API Controller shutting down")
}

// ErrorResponse is the error body returned by all handlers.
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	Code          int    `json:"code"`
	CorrelationID string `json:"correlation_id"` // Unique identifier for tracking this error
}

// NewErrorResponse creates a new API error response
func NewErrorResponse(err error, message string, code int) *ErrorResponse {
	correlationID := generateCorrelationID()

	var errorStr string
	if err != nil {
		errorStr = err.Error()
	} else {
		errorStr = message
	}

	return &ErrorResponse{
		Error:         errorStr,
		Message:       message,
		Code:          code,
		CorrelationID: correlationID,
	}
}

// generateCorrelationID creates a unique identifier for error tracking
func generateCorrelationID() string {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	const length = 8

	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "ERR-RAND"
	}
	for i := range b {
		b[i] = charset[int(b[i])%len(charset)]
	}
	return string(b)
}

// HandleError constructs and returns an appropriate error response
func (c *Controller) HandleError(ctx echo.Context, err error, message string, code int) error {
	errorResp := NewErrorResponse(err, message, code)

	ip := ctx.RealIP()
	c.logger.Printf("API Error [%s] from %s: %s: %v", errorResp.CorrelationID, ip, message, err)

	if c.apiLogger != nil {
		var errorStr string
		if err != nil {
			errorStr = err.Error()
		} else {
			errorStr = message
		}
		c.apiLogger.Error("API Error",
			"correlation_id", errorResp.CorrelationID,
			"message", message,
			"error", errorStr,
			"code", code,
			"path", ctx.Request().URL.Path,
			"method", ctx.Request().Method,
			"ip", ip,
		)
	}

	return ctx.JSON(code, errorResp)
}

// ValidationErrors is returned with a 400 status when request input fails
// validation. Each entry is a human readable description of one failure.
type ValidationErrors struct {
	Error  string   `json:"error"`
	Errors []string `json:"errors"`
}

// HandleValidationErrors returns a 400 response listing every validation
// failure in the request.
func (c *Controller) HandleValidationErrors(ctx echo.Context, errs []string) error {
	if c.apiLogger != nil {
		c.apiLogger.Warn("Request validation failed",
			"path", ctx.Request().URL.Path,
			"method", ctx.Request().Method,
			"errors", errs,
		)
	}
	return ctx.JSON(http.StatusBadRequest, &ValidationErrors{
		Error:  "Invalid request",
		Errors: errs,
	})
}

// Debug logs debug messages when debug mode is enabled
func (c *Controller) Debug(format string, v ...any) {
	if c.Settings.Debug {
		msg := fmt.Sprintf(format, v...)
		c.logger.Printf("[DEBUG] %s", msg)
		if c.apiLogger != nil {
			c.apiLogger.Debug(msg)
		}
	}
}

// logAPIRequest is a helper to log API requests with common context fields.
func (c *Controller) logAPIRequest(ctx echo.Context, level slog.Level, msg string, args ...any) {
	if c.apiLogger == nil {
		return
	}

	baseAttrs := []any{
		"path", ctx.Request().URL.Path,
		"ip", ctx.RealIP(),
	}
	baseAttrs = append(baseAttrs, args...)

	switch level {
	case slog.LevelDebug:
		c.apiLogger.Debug(msg, baseAttrs...)
	case slog.LevelInfo:
		c.apiLogger.Info(msg, baseAttrs...)
	case slog.LevelWarn:
		c.apiLogger.Warn(msg, baseAttrs...)
	case slog.LevelError:
		c.apiLogger.Error(msg, baseAttrs...)
	default:
		c.apiLogger.Log(ctx.Request().Context(), level, msg, baseAttrs...)
	}
}
