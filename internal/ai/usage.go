package ai

import (
	"fmt"

	"github.com/planboard/planboard/internal/conf"
	"github.com/planboard/planboard/internal/datastore"
	"github.com/planboard/planboard/internal/rating"
)

// Approximate Gemini pricing per one million tokens, in USD.
const (
	inputTokenCostPerMillion  = 0.125
	outputTokenCostPerMillion = 0.375
)

const (
	defaultDailyRequestLimit = 1000
	defaultDailyTokenLimit   = 500000
)

// LimitError reports which daily budget was exhausted.
type LimitError struct {
	Reason string
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("ai usage limit reached: %s", e.Reason)
}

// EstimatedCost converts token counts into an approximate USD cost.
func EstimatedCost(inputTokens, outputTokens int64) float64 {
	inputCost := float64(inputTokens) / 1e6 * inputTokenCostPerMillion
	outputCost := float64(outputTokens) / 1e6 * outputTokenCostPerMillion
	return inputCost + outputCost
}

// Tracker accounts provider usage per day and enforces daily budgets.
type Tracker struct {
	ds           datastore.Interface
	clock        rating.Clock
	requestLimit int
	tokenLimit   int
}

// NewTracker builds a tracker using the configured daily limits. Zero limits
// fall back to the defaults.
func NewTracker(ds datastore.Interface, clock rating.Clock, settings *conf.AISettings) *Tracker {
	requestLimit := settings.DailyRequestLimit
	if requestLimit == 0 {
		requestLimit = defaultDailyRequestLimit
	}
	tokenLimit := settings.DailyTokenLimit
	if tokenLimit == 0 {
		tokenLimit = defaultDailyTokenLimit
	}
	return &Tracker{
		ds:           ds,
		clock:        clock,
		requestLimit: requestLimit,
		tokenLimit:   tokenLimit,
	}
}

func (t *Tracker) today() string {
	return t.clock.Now().UTC().Format("2006-01-02")
}

// CheckLimit returns a *LimitError when today's request or token budget is
// already spent. A failed lookup does not block requests.
func (t *Tracker) CheckLimit() error {
	usage, err := t.ds.GetAIUsage(t.today())
	if err != nil {
		return nil
	}
	if usage.RequestCount >= t.requestLimit {
		return &LimitError{Reason: fmt.Sprintf("daily request limit of %d reached", t.requestLimit)}
	}
	if usage.InputTokens+usage.OutputTokens >= int64(t.tokenLimit) {
		return &LimitError{Reason: fmt.Sprintf("daily token limit of %d reached", t.tokenLimit)}
	}
	return nil
}

// Track records one provider request against today's totals.
func (t *Tracker) Track(operation string, inputTokens, outputTokens int64) error {
	cost := EstimatedCost(inputTokens, outputTokens)
	return t.ds.AddAIUsage(t.today(), operation, inputTokens, outputTokens, cost)
}

// Stats returns daily usage records for the last days days, newest first.
// Days without any usage are omitted.
func (t *Tracker) Stats(days int) ([]datastore.AIUsage, error) {
	now := t.clock.Now().UTC()
	records := make([]datastore.AIUsage, 0, days)
	for i := 0; i < days; i++ {
		date := now.AddDate(0, 0, -i).Format("2006-01-02")
		usage, err := t.ds.GetAIUsage(date)
		if err != nil {
			return nil, err
		}
		if usage.RequestCount == 0 {
			continue
		}
		records = append(records, usage)
	}
	return records, nil
}

// DetailedStats returns per-operation usage records for the last days days,
// newest first.
func (t *Tracker) DetailedStats(days int) ([]datastore.AIUsageDetail, error) {
	now := t.clock.Now().UTC()
	records := make([]datastore.AIUsageDetail, 0, days)
	for i := 0; i < days; i++ {
		date := now.AddDate(0, 0, -i).Format("2006-01-02")
		details, err := t.ds.GetAIUsageDetails(date)
		if err != nil {
			return nil, err
		}
		records = append(records, details...)
	}
	return records, nil
}
