// Package rating implements rating validation, the weekly dedup key and the
// publication eligibility rule.
package rating

import "fmt"

// Rating value bounds.
const (
	MinRating = 1
	MaxRating = 5
)

// Eligibility thresholds. An item may enter the publication queue once its
// unrounded mean rating reaches EligibleAverage across at least EligibleCount
// ratings.
const (
	EligibleAverage = 4.0
	EligibleCount   = 3
)

// Validate checks that a rating value is within bounds.
func Validate(value int) error {
	if value < MinRating || value > MaxRating {
		return fmt.Errorf("rating must be between %d and %d", MinRating, MaxRating)
	}
	return nil
}

// Summary holds the derived rating state of a content item.
type Summary struct {
	Average float64
	Total   int64
}

// Eligible reports whether the summary passes the publication threshold. The
// comparison uses the unrounded mean; rounding is a presentation concern.
func (s Summary) Eligible() bool {
	return s.Average >= EligibleAverage && s.Total >= EligibleCount
}

// Summarize computes the derived rating state from a set of rating values.
func Summarize(values []int) Summary {
	if len(values) == 0 {
		return Summary{}
	}
	var sum int
	for _, v := range values {
		sum += v
	}
	return Summary{
		Average: float64(sum) / float64(len(values)),
		Total:   int64(len(values)),
	}
}
