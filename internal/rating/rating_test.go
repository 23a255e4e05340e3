package rating

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(1))
	assert.NoError(t, Validate(5))
	assert.Error(t, Validate(0))
	assert.Error(t, Validate(6))
	assert.Error(t, Validate(-3))
}

func TestSummarize(t *testing.T) {
	testCases := []struct {
		name        string
		values      []int
		wantAverage float64
		wantTotal   int64
		eligible    bool
	}{
		{name: "no ratings", values: nil, wantAverage: 0, wantTotal: 0, eligible: false},
		{name: "single five", values: []int{5}, wantAverage: 5, wantTotal: 1, eligible: false},
		{name: "high count low average", values: []int{3, 3, 3, 3}, wantAverage: 3, wantTotal: 4, eligible: false},
		{name: "threshold exactly met", values: []int{4, 4, 4}, wantAverage: 4, wantTotal: 3, eligible: true},
		{name: "above threshold", values: []int{5, 5, 3}, wantAverage: 13.0 / 3.0, wantTotal: 3, eligible: true},
		{name: "two fives not enough", values: []int{5, 5}, wantAverage: 5, wantTotal: 2, eligible: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := Summarize(tc.values)
			assert.InDelta(t, tc.wantAverage, s.Average, 1e-9)
			assert.Equal(t, tc.wantTotal, s.Total)
			assert.Equal(t, tc.eligible, s.Eligible())
		})
	}
}

func TestEligibleUsesUnroundedMean(t *testing.T) {
	// 3.995 rounds to 4.0 for display but must not pass the threshold
	s := Summary{Average: 3.995, Total: 10}
	assert.False(t, s.Eligible())
}

func TestWeekNumber(t *testing.T) {
	testCases := []struct {
		name string
		at   time.Time
		want int
	}{
		// 2023-01-01 is a Sunday
		{name: "first day of sunday-start year", at: time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC), want: 1},
		{name: "last day of first week", at: time.Date(2023, 1, 7, 12, 0, 0, 0, time.UTC), want: 2},
		{name: "second week", at: time.Date(2023, 1, 8, 12, 0, 0, 0, time.UTC), want: 2},
		// 2025-01-01 is a Wednesday
		{name: "midweek year start", at: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC), want: 1},
		{name: "first sunday of midweek year", at: time.Date(2025, 1, 5, 12, 0, 0, 0, time.UTC), want: 2},
		{name: "end of year", at: time.Date(2025, 12, 31, 12, 0, 0, 0, time.UTC), want: 53},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, WeekNumber(tc.at))
		})
	}
}

func TestWeekNumberStableWithinDay(t *testing.T) {
	morning := time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)
	evening := time.Date(2025, 6, 10, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, WeekNumber(morning), WeekNumber(evening))
}

func TestClocks(t *testing.T) {
	instant := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	var c Clock = FixedClock{Instant: instant}
	assert.Equal(t, instant, c.Now())

	c = SystemClock{}
	assert.WithinDuration(t, time.Now(), c.Now(), time.Second)
}
