// Package workflow defines the content board's status, platform and department
// enumerations and the intra-column ordering rules.
package workflow

import (
	"fmt"
	"strings"
)

// Status is a workflow stage of a content item.
type Status string

const (
	StatusInbox         Status = "Inbox"
	StatusPendingReview Status = "PendingReview"
	StatusScheduled     Status = "Scheduled"
	StatusDone          Status = "Done"
)

// AllStatuses lists the recognized workflow stages in board order.
var AllStatuses = []Status{StatusInbox, StatusPendingReview, StatusScheduled, StatusDone}

// legacyStatuses maps the deprecated stage names from the old board layout to
// their current equivalents. Latest wins, no other reconciliation is attempted.
var legacyStatuses = map[string]Status{
	"Idea":       StatusInbox,
	"InProgress": StatusPendingReview,
	"Review":     StatusPendingReview,
}

// ParseStatus validates a status value. Unknown values are rejected with an
// error listing the allowed values.
func ParseStatus(s string) (Status, error) {
	for _, status := range AllStatuses {
		if s == string(status) {
			return status, nil
		}
	}
	return "", fmt.Errorf("status must be one of: %s", statusList())
}

// NormalizeStatus resolves both current and legacy stage names. Used by the
// datastore migration when reading rows written by older versions.
func NormalizeStatus(s string) (Status, bool) {
	if status, err := ParseStatus(s); err == nil {
		return status, true
	}
	if status, ok := legacyStatuses[s]; ok {
		return status, true
	}
	return "", false
}

// Transition validates a status change. There is no enforced transition graph:
// any stage is reachable from any other, and an unchanged status is a no-op.
func Transition(current Status, next string) (Status, error) {
	status, err := ParseStatus(next)
	if err != nil {
		return current, err
	}
	return status, nil
}

func statusList() string {
	names := make([]string, len(AllStatuses))
	for i, s := range AllStatuses {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}
