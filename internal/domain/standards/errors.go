package standards

import "errors"

var (
	// ErrInvalidInput marks missing ids and negative or non-finite values.
	ErrInvalidInput = errors.New("invalid standards input")
	// ErrUnknownLevel is returned for a level outside none..gold.
	ErrUnknownLevel = errors.New("unknown level")
	// ErrInvalidStandard marks a standard that cannot be evaluated.
	ErrInvalidStandard = errors.New("invalid standard")
)
