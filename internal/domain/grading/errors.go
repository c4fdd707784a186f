package grading

import "errors"

// Sentinel kinds for grading errors.
var (
	ErrNoMatchingBoundary = errors.New("no matching grade boundary")
	ErrInvalidKey         = errors.New("invalid grading key")
	ErrInvalidInput       = errors.New("invalid score")
)
