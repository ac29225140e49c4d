package domain

import "time"

// TrashEntry snapshots a soft-deleted entity for its recovery window.
// Document holds the entity's full JSON as it was at deletion time;
// recovery re-validates it against the current graph rather than
// trusting the snapshot's references.
type TrashEntry struct {
	ID             string
	OrganizationID string
	EntityType     EntityKind
	EntityID       string
	Document       string
	DeletedBy      string
	DeletedAt      time.Time
	ExpiresAt      time.Time
}

// Expired reports whether the recovery window has elapsed.
func (e *TrashEntry) Expired(now time.Time) bool {
	return now.After(e.ExpiresAt)
}
