package schedule

import (
	"time"

	"github.com/coolcare/coolcare/internal/models"
)

// DueDates holds the derived candidate due dates for one device. They
// are computed, never stored; every field is nil when the device has no
// cleaning history.
type DueDates struct {
	Short  *time.Time `json:"short,omitempty"`
	Medium *time.Time `json:"medium,omitempty"`
	Long   *time.Time `json:"long,omitempty"`
}

// ComputeDueDates derives the three candidate due dates from the last
// cleaning date using calendar-month addition, so month-length and
// leap-year variation carry through exactly as time.AddDate produces.
func ComputeDueDates(lastCleaning *time.Time) DueDates {
	if lastCleaning == nil {
		return DueDates{}
	}
	short := lastCleaning.AddDate(0, models.IntervalShort.Months(), 0)
	medium := lastCleaning.AddDate(0, models.IntervalMedium.Months(), 0)
	long := lastCleaning.AddDate(0, models.IntervalLong.Months(), 0)
	return DueDates{Short: &short, Medium: &medium, Long: &long}
}

// ByKind returns the due date for one interval kind.
func (d DueDates) ByKind(kind models.IntervalKind) *time.Time {
	switch kind {
	case models.IntervalShort:
		return d.Short
	case models.IntervalMedium:
		return d.Medium
	case models.IntervalLong:
		return d.Long
	default:
		return nil
	}
}

// Nearest returns the earliest non-nil due date, or nil when the device
// has no computed schedule.
func (d DueDates) Nearest() *time.Time {
	var nearest *time.Time
	for _, candidate := range []*time.Time{d.Short, d.Medium, d.Long} {
		if candidate == nil {
			continue
		}
		if nearest == nil || candidate.Before(*nearest) {
			nearest = candidate
		}
	}
	return nearest
}

// dateOnly truncates an instant to UTC midnight. All schedule
// comparisons are date-only in UTC so behavior does not shift with the
// server timezone.
func dateOnly(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
