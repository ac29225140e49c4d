package repository

import (
	"encoding/json"
	"fmt"
	"time"
)

// marshalDoc serializes an entity into its stored JSON document.
func marshalDoc(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encoding document: %w", err)
	}
	return string(data), nil
}

// formatTime renders a timestamp for the extracted created_at/updated_at
// columns. Documents carry their own timestamps; these columns exist for
// ordering and indexing only. Nanoseconds are zero-padded so the text
// values order lexicographically even within the same second.
func formatTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000000000Z07:00")
}

// nullableStr converts an optional string to a SQLite value, storing
// NULL for the empty string so partial indexes stay small.
func nullableStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}
