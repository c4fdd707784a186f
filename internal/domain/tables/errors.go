package tables

import "errors"

var (
	// ErrNoMatchingEntry is returned when no entry matches the probe.
	ErrNoMatchingEntry = errors.New("tables: no matching entry")
	// ErrMalformedTable marks empty tables, tables without a primary key
	// and unparseable numeric keys.
	ErrMalformedTable = errors.New("tables: malformed table")
	// ErrInvalidProbe marks missing, negative or non-finite probe values.
	ErrInvalidProbe = errors.New("tables: invalid probe")
	// ErrUnknownShape is returned for an unregistered table type.
	ErrUnknownShape = errors.New("tables: unknown table type")
)
