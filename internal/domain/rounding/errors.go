package rounding

import "errors"

// Sentinel kinds for rounding rule errors.
var (
	ErrUnknownKind       = errors.New("unknown rounding type")
	ErrNegativePrecision = errors.New("negative decimal places")
)
