package repository

import "errors"

var (
	// ErrNotFound reports that no document matched the given id or filter.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate reports a unique-index violation (e.g. username taken).
	ErrDuplicate = errors.New("duplicate key")
)
