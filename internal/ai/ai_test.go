package ai

import (
	"context"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planboard/planboard/internal/conf"
	"github.com/planboard/planboard/internal/datastore"
	"github.com/planboard/planboard/internal/rating"
)

const testGenerateURL = "https://ai.test/v1beta/models/gemini-test:generateContent"

func testAISettings() *conf.AISettings {
	return &conf.AISettings{
		Enabled:  true,
		Provider: "gemini",
		APIKey:   "test-key",
		Model:    "gemini-test",
		Endpoint: "https://ai.test",
		Timeout:  5 * time.Second,
		Cache: conf.AICacheSettings{
			Enabled: true,
			TTL:     time.Hour,
		},
		DailyRequestLimit: 10,
		DailyTokenLimit:   100000,
	}
}

func createTestDatastore(t *testing.T) datastore.Interface {
	t.Helper()
	settings := &conf.Settings{}
	settings.Output.SQLite.Enabled = true
	settings.Output.SQLite.Path = t.TempDir() + "/test.db"

	ds := datastore.New(settings)
	require.NoError(t, ds.Open(), "Failed to open database")
	t.Cleanup(func() {
		assert.NoError(t, ds.Close(), "Failed to close datastore")
	})
	return ds
}

func createTestService(t *testing.T, aiSettings *conf.AISettings) (*Service, *GeminiProvider, datastore.Interface) {
	t.Helper()
	ds := createTestDatastore(t)
	clock := rating.FixedClock{Instant: time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)}

	provider := NewGeminiProvider(aiSettings)
	httpmock.ActivateNonDefault(provider.HTTPClient)
	t.Cleanup(httpmock.DeactivateAndReset)

	tracker := NewTracker(ds, clock, aiSettings)
	service := NewService(provider, NewCache(aiSettings.Cache.TTL), tracker, nil)
	return service, provider, ds
}

// geminiBody wraps text the way the generateContent endpoint returns it.
func geminiBody(text string) map[string]any {
	return map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"parts": []map[string]any{{"text": text}}}},
		},
		"usageMetadata": map[string]any{
			"promptTokenCount":     100,
			"candidatesTokenCount": 50,
		},
	}
}

func TestGeminiCompleteSuccess(t *testing.T) {
	provider := NewGeminiProvider(testAISettings())
	httpmock.ActivateNonDefault(provider.HTTPClient)
	t.Cleanup(httpmock.DeactivateAndReset)

	responder, err := httpmock.NewJsonResponder(200, geminiBody("hello world"))
	require.NoError(t, err)
	httpmock.RegisterResponder("POST", testGenerateURL, responder)

	completion, err := provider.Complete(context.Background(), "say hello")
	require.NoError(t, err)
	assert.Equal(t, "hello world", completion.Text)
	assert.Equal(t, int64(100), completion.InputTokens)
	assert.Equal(t, int64(50), completion.OutputTokens)
}

func TestGeminiCompleteRateLimited(t *testing.T) {
	provider := NewGeminiProvider(testAISettings())
	httpmock.ActivateNonDefault(provider.HTTPClient)
	t.Cleanup(httpmock.DeactivateAndReset)

	httpmock.RegisterResponder("POST", testGenerateURL,
		httpmock.NewStringResponder(429, `{"error":{"code":429,"message":"quota exceeded"}}`))

	_, err := provider.Complete(context.Background(), "say hello")
	assert.ErrorIs(t, err, ErrRateLimited)
}

func TestGeminiCompleteEmptyCandidates(t *testing.T) {
	provider := NewGeminiProvider(testAISettings())
	httpmock.ActivateNonDefault(provider.HTTPClient)
	t.Cleanup(httpmock.DeactivateAndReset)

	httpmock.RegisterResponder("POST", testGenerateURL,
		httpmock.NewStringResponder(200, `{"candidates":[]}`))

	_, err := provider.Complete(context.Background(), "say hello")
	assert.Error(t, err)
}

func TestEnhanceContent(t *testing.T) {
	service, _, ds := createTestService(t, testAISettings())

	responder, err := httpmock.NewJsonResponder(200, geminiBody(
		"```json\n{\"title\":\"Better Title\",\"description\":\"Better description.\",\"hashtags\":[\"#Growth\",\"#Leadership\"]}\n```"))
	require.NoError(t, err)
	httpmock.RegisterResponder("POST", testGenerateURL, responder)

	content, cached, err := service.EnhanceContent(context.Background(), "draft title", "draft description", []string{"LinkedIn"})
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, "Better Title", content.Title)
	assert.Equal(t, "Better description.", content.Description)
	assert.Equal(t, []string{"#Growth", "#Leadership"}, content.Hashtags)

	// A second identical request must be served from the cache.
	content, cached, err = service.EnhanceContent(context.Background(), "draft title", "draft description", []string{"LinkedIn"})
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Equal(t, "Better Title", content.Title)
	assert.Equal(t, 1, httpmock.GetTotalCallCount())

	// Only the uncached request counts against the daily budget.
	usage, err := ds.GetAIUsage("2025-06-15")
	require.NoError(t, err)
	assert.Equal(t, 1, usage.RequestCount)
	assert.Equal(t, int64(100), usage.InputTokens)
	assert.Equal(t, int64(50), usage.OutputTokens)
	assert.InDelta(t, EstimatedCost(100, 50), usage.EstimatedCost, 1e-12)
}

func TestEnhanceContentFallbackOnRateLimit(t *testing.T) {
	service, _, _ := createTestService(t, testAISettings())

	httpmock.RegisterResponder("POST", testGenerateURL,
		httpmock.NewStringResponder(429, `{"error":{"code":429,"message":"quota exceeded"}}`))

	content, cached, err := service.EnhanceContent(context.Background(), "a quick guide to tax planning", "Some notes.", []string{"LinkedIn"})
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, "A Quick Guide to Tax Planning", content.Title)
	assert.Contains(t, content.Description, "professionals in our industry")
	assert.Contains(t, content.Hashtags, "#ProfessionalDevelopment")
}

func TestDailyRequestLimit(t *testing.T) {
	settings := testAISettings()
	settings.DailyRequestLimit = 1
	service, _, ds := createTestService(t, settings)

	require.NoError(t, ds.AddAIUsage("2025-06-15", OpGenerateIdeas, 10, 10, 0.01))

	_, _, err := service.GenerateIdeas(context.Background(), "Tax Advisory")
	var limitErr *LimitError
	require.ErrorAs(t, err, &limitErr)
	assert.Contains(t, limitErr.Reason, "request limit")
	assert.Equal(t, 0, httpmock.GetTotalCallCount())
}

func TestDailyTokenLimit(t *testing.T) {
	settings := testAISettings()
	settings.DailyTokenLimit = 1000
	service, _, ds := createTestService(t, settings)

	require.NoError(t, ds.AddAIUsage("2025-06-15", OpEnhanceContent, 600, 500, 0.01))

	_, _, err := service.GenerateHashtags(context.Background(), "some content")
	var limitErr *LimitError
	require.ErrorAs(t, err, &limitErr)
	assert.Contains(t, limitErr.Reason, "token limit")
}

func TestGenerateIdeas(t *testing.T) {
	service, _, _ := createTestService(t, testAISettings())

	responder, err := httpmock.NewJsonResponder(200, geminiBody(
		`Here are some ideas: ["First idea","Second idea","Third idea"]`))
	require.NoError(t, err)
	httpmock.RegisterResponder("POST", testGenerateURL, responder)

	ideas, cached, err := service.GenerateIdeas(context.Background(), "Technology")
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, []string{"First idea", "Second idea", "Third idea"}, ideas)
}

func TestOptimizeForPlatform(t *testing.T) {
	service, _, _ := createTestService(t, testAISettings())

	responder, err := httpmock.NewJsonResponder(200, geminiBody("  Optimized for LinkedIn.  "))
	require.NoError(t, err)
	httpmock.RegisterResponder("POST", testGenerateURL, responder)

	optimized, cached, err := service.OptimizeForPlatform(context.Background(), "raw content", "LinkedIn")
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, "Optimized for LinkedIn.", optimized)

	optimized, cached, err = service.OptimizeForPlatform(context.Background(), "raw content", "LinkedIn")
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Equal(t, "Optimized for LinkedIn.", optimized)
}

func TestGenerateHashtagsInvalidJSON(t *testing.T) {
	service, _, _ := createTestService(t, testAISettings())

	responder, err := httpmock.NewJsonResponder(200, geminiBody("no json here"))
	require.NoError(t, err)
	httpmock.RegisterResponder("POST", testGenerateURL, responder)

	_, _, err = service.GenerateHashtags(context.Background(), "some content")
	assert.Error(t, err)
}

func TestTrackerStats(t *testing.T) {
	ds := createTestDatastore(t)
	clock := rating.FixedClock{Instant: time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)}
	tracker := NewTracker(ds, clock, testAISettings())

	require.NoError(t, ds.AddAIUsage("2025-06-15", OpEnhanceContent, 100, 50, 0.01))
	require.NoError(t, ds.AddAIUsage("2025-06-14", OpGenerateIdeas, 200, 80, 0.02))
	require.NoError(t, ds.AddAIUsage("2025-05-01", OpGenerateIdeas, 10, 10, 0.001))

	stats, err := tracker.Stats(30)
	require.NoError(t, err)
	require.Len(t, stats, 2, "usage outside the window is excluded")
	assert.Equal(t, "2025-06-15", stats[0].Date)
	assert.Equal(t, "2025-06-14", stats[1].Date)

	details, err := tracker.DetailedStats(30)
	require.NoError(t, err)
	require.Len(t, details, 2)
	assert.Equal(t, OpEnhanceContent, details[0].Operation)
}

func TestCache(t *testing.T) {
	cache := NewCache(time.Hour)

	_, ok := cache.Get("prompt")
	assert.False(t, ok)

	cache.Set("prompt", "response")
	v, ok := cache.Get("prompt")
	assert.True(t, ok)
	assert.Equal(t, "response", v)

	cache.Flush()
	_, ok = cache.Get("prompt")
	assert.False(t, ok)
}

func TestTitleCase(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"a quick guide to tax planning", "A Quick Guide to Tax Planning"},
		{"the art of the deal", "The Art of the Deal"},
		{"growth", "Growth"},
		{"of", "Of"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, titleCase(tc.input), "input %q", tc.input)
	}
}

func TestExtractJSON(t *testing.T) {
	raw, err := extractJSON("```json\n{\"a\":1}\n```", '{', '}')
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, raw)

	_, err = extractJSON("no braces", '{', '}')
	assert.Error(t, err)
}
