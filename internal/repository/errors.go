package repository

import "errors"

// ErrNotFound is returned when an entity does not exist within the
// caller's scope. A document in another organization is indistinguishable
// from a missing one.
var ErrNotFound = errors.New("not found")

// ErrVersionConflict is returned when an optimistic write observed a
// stale version. The service layer maps it to the concurrent-modification
// class; the caller may re-read and retry.
var ErrVersionConflict = errors.New("version conflict")
