package typemap

import "errors"

// Sentinel errors shared by every container in the module. Callers match
// them with errors.Is; returned errors wrap a sentinel together with the
// offending key or type for diagnostics.
var (
	// ErrKeyNotFound is returned when the addressing key (or, for the
	// type-keyed store, the requested type) has no entry.
	ErrKeyNotFound = errors.New("key not found in store")

	// ErrTypeMismatch is returned when an entry exists but its stored
	// concrete type, or the capability it was registered under, differs
	// from the one requested.
	ErrTypeMismatch = errors.New("type mismatch for the requested key")
)
