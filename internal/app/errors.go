package service

import (
	"errors"

	"github.com/okian/sportgrade/internal/adapters/catalog"
	"github.com/okian/sportgrade/internal/adapters/repository"
	"github.com/okian/sportgrade/internal/domain/criteria"
	"github.com/okian/sportgrade/internal/domain/grading"
	"github.com/okian/sportgrade/internal/domain/model"
	"github.com/okian/sportgrade/internal/domain/performance"
	"github.com/okian/sportgrade/internal/domain/standards"
	"github.com/okian/sportgrade/internal/domain/tables"
)

// Sentinel kinds for service errors.
var (
	ErrUnknownKind    = errors.New("unknown measurement kind")
	ErrNotStarted     = errors.New("service not started")
	ErrResultNotFound = errors.New("result not found")
	ErrBackpressure   = errors.New("measurement queue unavailable")
	ErrInvalidRequest = errors.New("invalid request")
)

var inputErrors = []error{
	ErrUnknownKind,
	ErrInvalidRequest,
	model.ErrInvalidMeasurement,
	grading.ErrInvalidInput,
	criteria.ErrInvalidInput,
	tables.ErrInvalidProbe,
	performance.ErrInvalidInput,
	standards.ErrInvalidInput,
	standards.ErrUnknownLevel,
}

var configErrors = []error{
	grading.ErrNoMatchingBoundary,
	grading.ErrInvalidKey,
	tables.ErrNoMatchingEntry,
	tables.ErrMalformedTable,
	tables.ErrUnknownShape,
	performance.ErrInvalidStage,
	performance.ErrInvalidConfig,
	standards.ErrInvalidStandard,
	catalog.ErrInvalidCatalog,
	catalog.ErrLoadCatalog,
}

// IsInputError reports whether err was caused by the submitted values.
func IsInputError(err error) bool { return isAny(err, inputErrors) }

// IsConfigError reports whether err points at the catalog: a table that does
// not cover the value, a key without a floor, an unknown shuttle-run stage.
func IsConfigError(err error) bool { return isAny(err, configErrors) }

// IsNotFound reports whether err is a missing catalog entry or result.
func IsNotFound(err error) bool {
	return errors.Is(err, catalog.ErrNotFound) ||
		errors.Is(err, ErrResultNotFound) ||
		errors.Is(err, repository.ErrNotFound)
}

func isAny(err error, targets []error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}

// outcome is the metrics label for an evaluation result.
func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case IsInputError(err):
		return "input_error"
	case IsConfigError(err):
		return "config_error"
	case IsNotFound(err):
		return "not_found"
	default:
		return "error"
	}
}
