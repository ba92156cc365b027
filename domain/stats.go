package domain

import "math"

// Stats aggregates todo counts for a single user. Pending counts every
// todo that is not completed, so in_progress items are pending here.
type Stats struct {
	Total             int              `json:"total"`
	Pending           int              `json:"pending"`
	Completed         int              `json:"completed"`
	CompletionRate    int              `json:"completion_rate"`
	PriorityBreakdown map[Priority]int `json:"priority_breakdown"`
}

// CompletionRate returns the completed share as a whole percentage,
// rounded to the nearest integer. Zero totals yield zero.
func CompletionRate(completed, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}
