package rating

import (
	"math"
	"time"
)

// Clock supplies the current time. Injected so the weekly dedup key can be
// pinned in tests instead of reading wall-clock time inside the aggregator.
type Clock interface {
	Now() time.Time
}

// SystemClock is a Clock backed by time.Now.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

// FixedClock is a Clock that always returns the same instant. Test use.
type FixedClock struct {
	Instant time.Time
}

func (c FixedClock) Now() time.Time {
	return c.Instant
}

// WeekNumber returns the calendar week number (1..53) used as the weekly
// rating dedup key. Weeks start on Sunday and week 1 is the partial week
// containing January 1st, matching the key format of existing rating rows.
func WeekNumber(now time.Time) int {
	janFirst := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	days := now.Sub(janFirst).Hours() / 24
	return int(math.Ceil((days + float64(janFirst.Weekday()) + 1) / 7))
}
