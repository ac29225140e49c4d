package domain

import "time"

// StatusHistoryEntry is a single append-only audit record of a status
// change. History is never rewritten; failed transitions append nothing.
type StatusHistoryEntry struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	ChangedBy string    `json:"changedBy"`
	Reason    string    `json:"reason,omitempty"`
}

func appendHistory(h []StatusHistoryEntry, status, changedBy, reason string, now time.Time) []StatusHistoryEntry {
	return append(h, StatusHistoryEntry{
		Status:    status,
		Timestamp: now,
		ChangedBy: changedBy,
		Reason:    reason,
	})
}
