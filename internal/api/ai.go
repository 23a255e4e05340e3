// internal/api/ai.go - AI content enrichment and usage reporting
package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/planboard/planboard/internal/ai"
	"github.com/planboard/planboard/internal/errors"
	"github.com/planboard/planboard/internal/workflow"
)

// initAIRoutes registers the AI enrichment endpoints
func (c *Controller) initAIRoutes() {
	group := c.Group.Group("/ai")
	group.POST("/enhance-content", c.EnhanceContent)
	group.POST("/generate-ideas", c.GenerateIdeas)
	group.POST("/optimize-platform", c.OptimizeForPlatform)
	group.POST("/generate-hashtags", c.GenerateHashtags)
	group.GET("/usage", c.GetAIUsage)
	group.GET("/usage/detailed", c.GetAIUsageDetailed)
}

// aiUnavailable reports whether the AI service is disabled by configuration,
// writing a 503 response when it is. Callers must stop handling the request
// when it returns true.
func (c *Controller) aiUnavailable(ctx echo.Context) bool {
	if c.aiService == nil {
		_ = c.HandleError(ctx, nil, "AI service is not enabled", http.StatusServiceUnavailable)
		return true
	}
	return false
}

// handleAIError maps service errors to HTTP responses. Exhausted daily
// budgets surface as 429 so the caller can back off until the next day.
func (c *Controller) handleAIError(ctx echo.Context, err error, message string) error {
	var limitErr *ai.LimitError
	if errors.As(err, &limitErr) {
		return ctx.JSON(http.StatusTooManyRequests, map[string]any{
			"error":  "Rate limit exceeded",
			"reason": limitErr.Reason,
		})
	}
	return c.HandleError(ctx, err, message, http.StatusInternalServerError)
}

// enhanceContentRequest is the request body for content enhancement.
type enhanceContentRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Platforms   []string `json:"platforms"`
}

// EnhanceContent rewrites a draft title and description and proposes
// hashtags for the requested platforms.
func (c *Controller) EnhanceContent(ctx echo.Context) error {
	if c.aiUnavailable(ctx) {
		return nil
	}

	var req enhanceContentRequest
	if err := ctx.Bind(&req); err != nil {
		return c.HandleError(ctx, err, "Invalid request body", http.StatusBadRequest)
	}

	var errs []string
	if strings.TrimSpace(req.Title) == "" {
		errs = append(errs, "title is required")
	}
	if strings.TrimSpace(req.Description) == "" {
		errs = append(errs, "description is required")
	}
	platforms, err := workflow.ParsePlatforms(req.Platforms)
	if err != nil {
		errs = append(errs, err.Error())
	}
	if len(errs) > 0 {
		return c.HandleValidationErrors(ctx, errs)
	}

	names := make([]string, len(platforms))
	for i, p := range platforms {
		names[i] = string(p)
	}

	content, cached, err := c.aiService.EnhanceContent(ctx.Request().Context(), req.Title, req.Description, names)
	if err != nil {
		return c.handleAIError(ctx, err, "Failed to enhance content")
	}
	return ctx.JSON(http.StatusOK, map[string]any{
		"enhancedContent": content,
		"cached":          cached,
	})
}

// generateIdeasRequest is the request body for idea generation.
type generateIdeasRequest struct {
	Department string `json:"department"`
}

// GenerateIdeas proposes post ideas for a department.
func (c *Controller) GenerateIdeas(ctx echo.Context) error {
	if c.aiUnavailable(ctx) {
		return nil
	}

	var req generateIdeasRequest
	if err := ctx.Bind(&req); err != nil {
		return c.HandleError(ctx, err, "Invalid request body", http.StatusBadRequest)
	}

	department, err := workflow.ParseDepartment(req.Department)
	if err != nil || req.Department == "" {
		return c.HandleValidationErrors(ctx, []string{"department must be a recognized department"})
	}

	ideas, cached, err := c.aiService.GenerateIdeas(ctx.Request().Context(), string(department))
	if err != nil {
		return c.handleAIError(ctx, err, "Failed to generate ideas")
	}
	return ctx.JSON(http.StatusOK, map[string]any{
		"ideas":  ideas,
		"cached": cached,
	})
}

// optimizePlatformRequest is the request body for platform optimization.
type optimizePlatformRequest struct {
	Content  string `json:"content"`
	Platform string `json:"platform"`
}

// OptimizeForPlatform rewrites content following one platform's conventions.
func (c *Controller) OptimizeForPlatform(ctx echo.Context) error {
	if c.aiUnavailable(ctx) {
		return nil
	}

	var req optimizePlatformRequest
	if err := ctx.Bind(&req); err != nil {
		return c.HandleError(ctx, err, "Invalid request body", http.StatusBadRequest)
	}

	var errs []string
	if strings.TrimSpace(req.Content) == "" {
		errs = append(errs, "content is required")
	}
	platform, ok := workflow.NormalizePlatform(req.Platform)
	if !ok {
		errs = append(errs, "platform must be a recognized platform")
	}
	if len(errs) > 0 {
		return c.HandleValidationErrors(ctx, errs)
	}

	optimized, cached, err := c.aiService.OptimizeForPlatform(ctx.Request().Context(), req.Content, string(platform))
	if err != nil {
		return c.handleAIError(ctx, err, "Failed to optimize content")
	}
	return ctx.JSON(http.StatusOK, map[string]any{
		"optimizedContent": optimized,
		"cached":           cached,
	})
}

// generateHashtagsRequest is the request body for hashtag generation.
type generateHashtagsRequest struct {
	Content string `json:"content"`
}

// GenerateHashtags proposes hashtags for a piece of content.
func (c *Controller) GenerateHashtags(ctx echo.Context) error {
	if c.aiUnavailable(ctx) {
		return nil
	}

	var req generateHashtagsRequest
	if err := ctx.Bind(&req); err != nil {
		return c.HandleError(ctx, err, "Invalid request body", http.StatusBadRequest)
	}
	if strings.TrimSpace(req.Content) == "" {
		return c.HandleValidationErrors(ctx, []string{"content is required"})
	}

	hashtags, cached, err := c.aiService.GenerateHashtags(ctx.Request().Context(), req.Content)
	if err != nil {
		return c.handleAIError(ctx, err, "Failed to generate hashtags")
	}
	return ctx.JSON(http.StatusOK, map[string]any{
		"hashtags": hashtags,
		"cached":   cached,
	})
}

// usageDays parses the optional days query parameter, defaulting to 30.
func usageDays(ctx echo.Context) (int, error) {
	raw := ctx.QueryParam("days")
	if raw == "" {
		return 30, nil
	}
	days, err := strconv.Atoi(raw)
	if err != nil || days < 1 || days > 365 {
		return 0, errors.Newf("days must be an integer between 1 and 365").
			Component("api").
			Category(errors.CategoryValidation).
			Build()
	}
	return days, nil
}

// GetAIUsage returns daily AI usage totals, newest first.
func (c *Controller) GetAIUsage(ctx echo.Context) error {
	if c.aiUnavailable(ctx) {
		return nil
	}

	days, err := usageDays(ctx)
	if err != nil {
		return c.HandleValidationErrors(ctx, []string{err.Error()})
	}

	stats, err := c.aiService.Tracker().Stats(days)
	if err != nil {
		return c.HandleError(ctx, err, "Failed to get AI usage", http.StatusInternalServerError)
	}
	return ctx.JSON(http.StatusOK, stats)
}

// GetAIUsageDetailed returns per-operation AI usage records, newest first.
func (c *Controller) GetAIUsageDetailed(ctx echo.Context) error {
	if c.aiUnavailable(ctx) {
		return nil
	}

	days, err := usageDays(ctx)
	if err != nil {
		return c.HandleValidationErrors(ctx, []string{err.Error()})
	}

	details, err := c.aiService.Tracker().DetailedStats(days)
	if err != nil {
		return c.HandleError(ctx, err, "Failed to get AI usage details", http.StatusInternalServerError)
	}
	return ctx.JSON(http.StatusOK, details)
}
