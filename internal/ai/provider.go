// Package ai provides content enrichment through a generative text provider,
// with response caching, daily usage accounting and graceful degradation when
// the provider is unavailable.
package ai

import (
	"context"

	"github.com/planboard/planboard/internal/errors"
)

// ErrRateLimited is returned when the upstream provider rejects a request
// because its quota is exhausted.
var ErrRateLimited = errors.NewStd("ai provider rate limit exceeded")

// Completion is one raw provider response.
type Completion struct {
	Text         string
	InputTokens  int64
	OutputTokens int64
}

// Provider generates text completions for a prompt.
type Provider interface {
	Complete(ctx context.Context, prompt string) (Completion, error)
}

// EnhancedContent is the structured result of a content enhancement request.
type EnhancedContent struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Hashtags    []string `json:"hashtags"`
}
