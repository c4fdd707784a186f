package criteria

import "errors"

// Sentinel kinds for criteria errors.
var (
	ErrInvalidInput = errors.New("invalid criterion score")
)
