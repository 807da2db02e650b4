// Package storeerr holds the sentinel errors every storage backend wraps, so
// callers can match them with errors.Is regardless of which backend produced
// them.
package storeerr

import "errors"

// ErrNotFound is returned when a requested entity does not exist for the
// owner.
var ErrNotFound = errors.New("not found")

// ErrConditionalResolved is returned when a resolution is recorded against a
// conditional that already has a terminal outcome.
var ErrConditionalResolved = errors.New("conditional already resolved")
