package models

import "time"

// ClientLocationGroup is one presentation bucket of obligations sharing
// the literal (client name, location name) pair. Groups are rebuilt on
// every query and never persisted.
type ClientLocationGroup struct {
	ClientName      string       `json:"client_name"`
	LocationName    string       `json:"location_name"`
	Members         []Obligation `json:"members"`
	Count           int          `json:"count"`
	MaxDaysOverdue  int          `json:"max_days_overdue"`
	EarliestDueDate time.Time    `json:"earliest_due_date"`
}
