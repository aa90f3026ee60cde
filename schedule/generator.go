// Package schedule expands a recurring-rent definition (start, end,
// frequency) into discrete due dates.
package schedule

import (
	"time"

	"github.com/propdesk/rental_management_system/backend/models"
)

// step returns the calendar increment for one frequency period. AddDate
// normalizes month-end overflow (Jan 31 + 1 month lands in early March),
// matching the behavior callers have come to expect from calendar stepping.
func step(t time.Time, freq models.Frequency) time.Time {
	switch freq {
	case models.FrequencyQuarterly:
		return t.AddDate(0, 3, 0)
	case models.FrequencyYearly:
		return t.AddDate(1, 0, 0)
	default:
		return t.AddDate(0, 1, 0)
	}
}

// DueDates emits one due date per period from start through end inclusive,
// monotonically increasing. start after end yields an empty slice, not an
// error.
func DueDates(start, end time.Time, freq models.Frequency) []time.Time {
	dates := []time.Time{}
	for current := start; !current.After(end); current = step(current, freq) {
		dates = append(dates, current)
	}
	return dates
}
