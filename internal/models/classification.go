package models

// ClassificationState describes where a device sits in its service
// cycle. Precedence, highest first: repair > due > maintain > scheduled.
type ClassificationState string

const (
	// StateRepair means a repair was recorded; it overrides any due
	// obligation regardless of how recent the repair was.
	StateRepair ClassificationState = "repair"
	// StateDue means the nearest due date is strictly in the past.
	StateDue ClassificationState = "due"
	// StateMaintain means the device has obligations and the nearest
	// one is still in the future.
	StateMaintain ClassificationState = "maintain"
	// StateScheduled means the device has no cleaning history yet.
	StateScheduled ClassificationState = "scheduled"
)
