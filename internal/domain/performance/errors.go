package performance

import "errors"

var (
	// ErrInvalidStage is returned for a level/lane pair missing from the
	// shuttle-run configuration.
	ErrInvalidStage = errors.New("invalid shuttle-run stage")
	// ErrInvalidInput marks negative or non-finite measurements.
	ErrInvalidInput = errors.New("invalid measurement")
	// ErrInvalidConfig marks a shuttle-run configuration that cannot be used.
	ErrInvalidConfig = errors.New("invalid shuttle-run config")
)
