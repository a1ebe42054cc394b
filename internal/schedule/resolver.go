package schedule

import (
	"time"

	"github.com/coolcare/coolcare/internal/models"
)

// DaysOverdue returns the number of whole calendar days the due date
// lies in the past at now, comparing UTC midnights. Future due dates
// yield a negative count.
func DaysOverdue(due, now time.Time) int {
	return int(dateOnly(now).Sub(dateOnly(due)) / (24 * time.Hour))
}

// ResolveOverdue reduces a list of overdue obligations to at most one
// per device: higher interval priority wins, then the larger
// days-overdue count, and remaining ties keep the first encountered.
// Output order follows each device's first appearance in the input.
func ResolveOverdue(obligations []models.Obligation, now time.Time) []models.Obligation {
	resolved := make([]models.Obligation, 0, len(obligations))
	index := make(map[string]int, len(obligations))

	for _, ob := range obligations {
		i, seen := index[ob.DeviceID]
		if !seen {
			index[ob.DeviceID] = len(resolved)
			resolved = append(resolved, ob)
			continue
		}
		if moreUrgent(ob, resolved[i], now) {
			resolved[i] = ob
		}
	}
	return resolved
}

// moreUrgent reports whether the candidate outranks the incumbent for
// the same device. Ties return false, so resolution is stable in input
// order.
func moreUrgent(candidate, incumbent models.Obligation, now time.Time) bool {
	if candidate.Kind.Priority() != incumbent.Kind.Priority() {
		return candidate.Kind.Priority() > incumbent.Kind.Priority()
	}
	return DaysOverdue(candidate.DueDate, now) > DaysOverdue(incumbent.DueDate, now)
}
