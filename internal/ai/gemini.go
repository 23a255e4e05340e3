package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/planboard/planboard/internal/conf"
	"github.com/planboard/planboard/internal/errors"
)

const defaultGeminiEndpoint = "https://generativelanguage.googleapis.com"

// GeminiProvider calls the Google Generative Language REST API.
type GeminiProvider struct {
	apiKey   string
	model    string
	endpoint string

	// HTTPClient may be replaced in tests.
	HTTPClient *http.Client
}

// NewGeminiProvider builds a provider from the AI settings.
func NewGeminiProvider(settings *conf.AISettings) *GeminiProvider {
	endpoint := settings.Endpoint
	if endpoint == "" {
		endpoint = defaultGeminiEndpoint
	}
	timeout := settings.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &GeminiProvider{
		apiKey:     settings.APIKey,
		model:      settings.Model,
		endpoint:   strings.TrimSuffix(endpoint, "/"),
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	UsageMetadata struct {
		PromptTokenCount     int64 `json:"promptTokenCount"`
		CandidatesTokenCount int64 `json:"candidatesTokenCount"`
	} `json:"usageMetadata"`
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Complete sends a single-turn prompt and returns the first candidate text.
func (p *GeminiProvider) Complete(ctx context.Context, prompt string) (Completion, error) {
	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	})
	if err != nil {
		return Completion{}, err
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", p.endpoint, p.model, p.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return Completion{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.HTTPClient.Do(req)
	if err != nil {
		return Completion{}, errors.New(err).
			Component("ai").
			Category(errors.CategoryAIProvider).
			Context("model", p.model).
			Build()
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Completion{}, err
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return Completion{}, ErrRateLimited
	}
	if resp.StatusCode != http.StatusOK {
		var apiErr geminiResponse
		_ = json.Unmarshal(raw, &apiErr)
		return Completion{}, errors.Newf("gemini request failed: status %d: %s", resp.StatusCode, apiErr.Error.Message).
			Component("ai").
			Category(errors.CategoryAIProvider).
			Context("model", p.model).
			Context("status_code", resp.StatusCode).
			Build()
	}

	var parsed geminiResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return Completion{}, errors.New(err).
			Component("ai").
			Category(errors.CategoryAIProvider).
			Context("model", p.model).
			Build()
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return Completion{}, errors.Newf("gemini response contained no candidates").
			Component("ai").
			Category(errors.CategoryAIProvider).
			Context("model", p.model).
			Build()
	}

	var text strings.Builder
	for _, part := range parsed.Candidates[0].Content.Parts {
		text.WriteString(part.Text)
	}

	c := Completion{
		Text:         text.String(),
		InputTokens:  parsed.UsageMetadata.PromptTokenCount,
		OutputTokens: parsed.UsageMetadata.CandidatesTokenCount,
	}
	// Older API versions omit usage metadata, fall back to a rough estimate.
	if c.InputTokens == 0 {
		c.InputTokens = int64(len(prompt) / 4)
	}
	if c.OutputTokens == 0 {
		c.OutputTokens = int64(len(c.Text) / 4)
	}
	return c, nil
}
