package schedule

import (
	"time"

	"github.com/coolcare/coolcare/internal/models"
)

// Classify derives the service state of a device at the given instant.
// A recorded repair overrides any due obligation; a device with no
// cleaning history is still waiting to be scheduled.
func Classify(device models.Device, now time.Time) models.ClassificationState {
	if device.LastRepairDate != nil {
		return models.StateRepair
	}

	nearest := ComputeDueDates(device.LastCleaningDate).Nearest()
	if nearest == nil {
		return models.StateScheduled
	}

	if dateOnly(*nearest).Before(dateOnly(now)) {
		return models.StateDue
	}
	return models.StateMaintain
}
