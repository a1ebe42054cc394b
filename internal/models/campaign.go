package models

import "time"

// RecipientOutcome records the dispatch result for one recipient.
type RecipientOutcome struct {
	ClientID   string `json:"client_id"`
	ClientName string `json:"client_name"`
	OK         bool   `json:"ok"`
	MessageID  string `json:"message_id,omitempty"`
	Error      string `json:"error,omitempty"`
}

// CampaignResult aggregates one dispatcher run. Outcomes align
// one-to-one with the input recipient list, and SuccessCount plus
// FailureCount always equals its length. The result is never
// persisted; the caller owns logging and storage.
type CampaignResult struct {
	RunID        string             `json:"run_id"`
	SuccessCount int                `json:"success_count"`
	FailureCount int                `json:"failure_count"`
	Outcomes     []RecipientOutcome `json:"outcomes"`
	StartedAt    time.Time          `json:"started_at"`
	FinishedAt   time.Time          `json:"finished_at"`
}
