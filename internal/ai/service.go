package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/planboard/planboard/internal/errors"
	"github.com/planboard/planboard/internal/logging"
	"github.com/planboard/planboard/internal/observability/metrics"
)

// Operation names used for usage accounting and metrics labels.
const (
	OpEnhanceContent   = "enhance-content"
	OpGenerateIdeas    = "generate-ideas"
	OpOptimizePlatform = "optimize-platform"
	OpGenerateHashtags = "generate-hashtags"
)

// Service coordinates prompt construction, caching, usage accounting and
// provider calls for the enrichment operations.
type Service struct {
	provider Provider
	cache    *Cache
	tracker  *Tracker
	metrics  *metrics.AIMetrics
	logger   *slog.Logger
}

// NewService wires an enrichment service. The cache and metrics may be nil.
func NewService(provider Provider, cache *Cache, tracker *Tracker, aiMetrics *metrics.AIMetrics) *Service {
	logger := logging.ForService("ai")
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		provider: provider,
		cache:    cache,
		tracker:  tracker,
		metrics:  aiMetrics,
		logger:   logger,
	}
}

// EnhanceContent rewrites a draft title and description for the given target
// platforms and proposes hashtags. The second return value reports whether
// the result came from the cache. When the provider is rate limited a
// deterministic local enhancement is returned instead of an error.
func (s *Service) EnhanceContent(ctx context.Context, title, description string, platforms []string) (*EnhancedContent, bool, error) {
	prompt := fmt.Sprintf(`Enhance the following content for a business social media post:
Title: %s
Description: %s
Target Platforms: %s

Please provide:
1. An improved title (max 80 characters)
2. An enhanced description that's engaging and professional (max 600 characters)
3. 5-8 relevant hashtags

Format your response as JSON:
{
  "title": "improved title",
  "description": "enhanced description",
  "hashtags": ["hashtag1", "hashtag2", ...]
}`, title, description, strings.Join(platforms, ", "))

	if cached, ok := s.cacheGet(prompt); ok {
		var content EnhancedContent
		if err := json.Unmarshal([]byte(cached), &content); err == nil {
			return &content, true, nil
		}
		// Corrupt cache entry, regenerate below.
	}

	if err := s.checkLimit(OpEnhanceContent); err != nil {
		return nil, false, err
	}

	completion, err := s.provider.Complete(ctx, prompt)
	if err != nil {
		if errors.Is(err, ErrRateLimited) {
			s.logger.Warn("provider rate limited, using fallback enhancement")
			s.recordRequest(OpEnhanceContent, "fallback")
			return fallbackEnhancedContent(title, description, platforms), false, nil
		}
		s.recordRequest(OpEnhanceContent, "error")
		return nil, false, err
	}

	raw, err := extractJSON(completion.Text, '{', '}')
	if err != nil {
		s.recordRequest(OpEnhanceContent, "error")
		return nil, false, err
	}
	var content EnhancedContent
	if err := json.Unmarshal([]byte(raw), &content); err != nil {
		s.recordRequest(OpEnhanceContent, "error")
		return nil, false, errors.New(err).
			Component("ai").
			Category(errors.CategoryAIProvider).
			Context("operation", OpEnhanceContent).
			Build()
	}

	s.finish(OpEnhanceContent, prompt, raw, completion)
	return &content, false, nil
}

// GenerateIdeas proposes five short post titles for a department.
func (s *Service) GenerateIdeas(ctx context.Context, department string) ([]string, bool, error) {
	prompt := fmt.Sprintf(`Generate 5 compelling content ideas for posts related to the "%s" department of a professional services firm.
Each idea should be a short title (max 10 words) that would grab attention on social media.
The ideas should be relevant to current business trends and suitable for LinkedIn or a corporate website.
Format your response as a JSON array of strings: ["Idea 1", "Idea 2", ...]`, department)

	if cached, ok := s.cacheGet(prompt); ok {
		var ideas []string
		if err := json.Unmarshal([]byte(cached), &ideas); err == nil {
			return ideas, true, nil
		}
	}

	if err := s.checkLimit(OpGenerateIdeas); err != nil {
		return nil, false, err
	}

	completion, err := s.provider.Complete(ctx, prompt)
	if err != nil {
		s.recordRequest(OpGenerateIdeas, "error")
		return nil, false, err
	}

	raw, err := extractJSON(completion.Text, '[', ']')
	if err != nil {
		s.recordRequest(OpGenerateIdeas, "error")
		return nil, false, err
	}
	var ideas []string
	if err := json.Unmarshal([]byte(raw), &ideas); err != nil {
		s.recordRequest(OpGenerateIdeas, "error")
		return nil, false, errors.New(err).
			Component("ai").
			Category(errors.CategoryAIProvider).
			Context("operation", OpGenerateIdeas).
			Build()
	}

	s.finish(OpGenerateIdeas, prompt, raw, completion)
	return ideas, false, nil
}

// OptimizeForPlatform rewrites content following the conventions of one
// target platform and returns it as plain text.
func (s *Service) OptimizeForPlatform(ctx context.Context, content, platform string) (string, bool, error) {
	prompt := fmt.Sprintf(`Optimize the following content specifically for %s:
"%s"

Consider the best practices, character limits, and formatting typical for %s.
Maintain the professional tone and key messages.
Return only the optimized content as plain text.`, platform, content, platform)

	if cached, ok := s.cacheGet(prompt); ok {
		return cached, true, nil
	}

	if err := s.checkLimit(OpOptimizePlatform); err != nil {
		return "", false, err
	}

	completion, err := s.provider.Complete(ctx, prompt)
	if err != nil {
		s.recordRequest(OpOptimizePlatform, "error")
		return "", false, err
	}

	optimized := strings.TrimSpace(completion.Text)
	s.finish(OpOptimizePlatform, prompt, optimized, completion)
	return optimized, false, nil
}

// GenerateHashtags proposes hashtags for a piece of content.
func (s *Service) GenerateHashtags(ctx context.Context, content string) ([]string, bool, error) {
	prompt := fmt.Sprintf(`Generate 5-8 relevant business hashtags for the following content:
"%s"

The hashtags should be professional, relevant to the content, and suitable for business social media.
Format your response as a JSON array of strings: ["#hashtag1", "#hashtag2", ...]`, content)

	if cached, ok := s.cacheGet(prompt); ok {
		var hashtags []string
		if err := json.Unmarshal([]byte(cached), &hashtags); err == nil {
			return hashtags, true, nil
		}
	}

	if err := s.checkLimit(OpGenerateHashtags); err != nil {
		return nil, false, err
	}

	completion, err := s.provider.Complete(ctx, prompt)
	if err != nil {
		s.recordRequest(OpGenerateHashtags, "error")
		return nil, false, err
	}

	raw, err := extractJSON(completion.Text, '[', ']')
	if err != nil {
		s.recordRequest(OpGenerateHashtags, "error")
		return nil, false, err
	}
	var hashtags []string
	if err := json.Unmarshal([]byte(raw), &hashtags); err != nil {
		s.recordRequest(OpGenerateHashtags, "error")
		return nil, false, errors.New(err).
			Component("ai").
			Category(errors.CategoryAIProvider).
			Context("operation", OpGenerateHashtags).
			Build()
	}

	s.finish(OpGenerateHashtags, prompt, raw, completion)
	return hashtags, false, nil
}

// Tracker exposes the usage tracker for the usage reporting endpoints.
func (s *Service) Tracker() *Tracker {
	return s.tracker
}

func (s *Service) cacheGet(prompt string) (string, bool) {
	cached, ok := s.cache.Get(prompt)
	if s.metrics != nil {
		if ok {
			s.metrics.RecordCacheHit()
		} else {
			s.metrics.RecordCacheMiss()
		}
	}
	return cached, ok
}

func (s *Service) checkLimit(operation string) error {
	if s.tracker == nil {
		return nil
	}
	if err := s.tracker.CheckLimit(); err != nil {
		s.logger.Warn("rejecting ai request", "operation", operation, "error", err)
		s.recordRequest(operation, "limited")
		return err
	}
	return nil
}

// finish caches the response and records usage after a successful call.
func (s *Service) finish(operation, prompt, response string, completion Completion) {
	s.cache.Set(prompt, response)
	if s.tracker != nil {
		if err := s.tracker.Track(operation, completion.InputTokens, completion.OutputTokens); err != nil {
			s.logger.Error("failed to record ai usage", "operation", operation, "error", err)
		}
	}
	s.recordRequest(operation, "success")
	if s.metrics != nil {
		s.metrics.RecordTokens(completion.InputTokens, completion.OutputTokens)
	}
}

func (s *Service) recordRequest(operation, status string) {
	if s.metrics != nil {
		s.metrics.RecordRequest(operation, status)
	}
}

// extractJSON returns the first substring delimited by open and close,
// inclusive. Providers often wrap JSON in prose or markdown fences.
func extractJSON(text string, open, close byte) (string, error) {
	start := strings.IndexByte(text, open)
	end := strings.LastIndexByte(text, close)
	if start == -1 || end == -1 || end < start {
		return "", errors.Newf("response did not contain valid JSON").
			Component("ai").
			Category(errors.CategoryAIProvider).
			Build()
	}
	return text[start : end+1], nil
}
