package models

import "time"

// IntervalKind identifies one of the three service cycles.
type IntervalKind string

const (
	IntervalShort  IntervalKind = "short"  // 3-month cycle
	IntervalMedium IntervalKind = "medium" // 4-month cycle
	IntervalLong   IntervalKind = "long"   // 6-month cycle
)

// Intervals lists every kind in ascending cycle length.
var Intervals = []IntervalKind{IntervalShort, IntervalMedium, IntervalLong}

// Months returns the cycle length in calendar months.
func (k IntervalKind) Months() int {
	switch k {
	case IntervalShort:
		return 3
	case IntervalMedium:
		return 4
	case IntervalLong:
		return 6
	default:
		return 0
	}
}

// Priority ranks interval kinds for overdue resolution. A 6-month
// cleaning that slipped subsumes a 3-month one on the same unit, so
// priority follows cycle length.
func (k IntervalKind) Priority() int {
	return k.Months()
}

// IsValidInterval checks if an interval kind is valid.
func IsValidInterval(k IntervalKind) bool {
	return k.Months() > 0
}

// Obligation is a single due-date instance for one maintenance
// interval on one device.
type Obligation struct {
	DeviceID     string       `json:"device_id"`
	DeviceName   string       `json:"device_name"`
	ClientName   string       `json:"client_name"`
	LocationName string       `json:"location_name"`
	Kind         IntervalKind `json:"interval"`
	DueDate      time.Time    `json:"due_date"`
}
