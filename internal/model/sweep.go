package model

import (
	"time"

	"github.com/google/uuid"
)

// SweepSummary is the aggregate returned by one complete pass over due
// scheduled messages.
type SweepSummary struct {
	Processed int       `json:"processed"`
	Errors    int       `json:"errors"`
	Total     int       `json:"total"`
	Timestamp time.Time `json:"timestamp"`
}

// DispatchOutcome is the per-message result of a dispatch attempt. It is
// never persisted as its own entity; the terminal status and the audit
// event are derived from it.
type DispatchOutcome struct {
	MessageID uuid.UUID
	Status    MessageStatus
	Attempted int
	Succeeded int
	Failed    int
	LastError string
}

// TerminalStatus derives the status to persist from the per-recipient
// counters. Zero attempted recipients always means failed.
func (o DispatchOutcome) TerminalStatus() MessageStatus {
	switch {
	case o.Attempted == 0 || o.Succeeded == 0:
		return StatusFailed
	case o.Failed == 0:
		return StatusSent
	default:
		return StatusPartiallySent
	}
}
