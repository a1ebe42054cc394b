package schedule

import (
	"time"

	"github.com/coolcare/coolcare/internal/models"
)

// BuildDueSoon materializes every obligation falling due within the
// lookahead window, including due dates already in the past. Output
// order follows the device order, short cycle first per device.
func BuildDueSoon(devices []models.Device, now time.Time, windowDays int) []models.Obligation {
	cutoff := dateOnly(now).AddDate(0, 0, windowDays)
	return build(devices, func(due time.Time) bool {
		return !dateOnly(due).After(cutoff)
	})
}

// BuildOverdue materializes obligations whose due date is strictly in
// the past, date-only.
func BuildOverdue(devices []models.Device, now time.Time) []models.Obligation {
	today := dateOnly(now)
	return build(devices, func(due time.Time) bool {
		return dateOnly(due).Before(today)
	})
}

func build(devices []models.Device, include func(time.Time) bool) []models.Obligation {
	obligations := make([]models.Obligation, 0, len(devices))
	for _, device := range devices {
		dues := ComputeDueDates(device.LastCleaningDate)
		for _, kind := range models.Intervals {
			due := dues.ByKind(kind)
			if due == nil || !include(*due) {
				continue
			}
			obligations = append(obligations, models.Obligation{
				DeviceID:     device.ID.Hex(),
				DeviceName:   device.Name,
				ClientName:   device.ClientName,
				LocationName: device.LocationName,
				Kind:         kind,
				DueDate:      *due,
			})
		}
	}
	return obligations
}
