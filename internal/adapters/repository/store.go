// Package repository stores evaluation records.
package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/okian/sportgrade/internal/domain/model"
)

// Store provides access to evaluation records.
type Store interface {
	// Put stores a record. Records are immutable; putting an existing id
	// fails with ErrDuplicate.
	Put(ctx context.Context, r model.Record) error

	// Get returns a record by id or ErrNotFound.
	Get(ctx context.Context, id uuid.UUID) (model.Record, error)

	// ByMeasurement returns the record produced for a measurement id.
	ByMeasurement(ctx context.Context, measurementID string) (model.Record, error)

	// BySubject returns a subject's records, oldest first.
	BySubject(ctx context.Context, subjectID string) []model.Record

	// Count returns the number of stored records.
	Count(ctx context.Context) int
}
