package domain

import (
	"context"

	"github.com/google/uuid"
)

// ValuationRepository defines the interface for valuation history persistence operations
type ValuationRepository interface {
	// Save stores a valuation result
	// Saving a result whose ID already exists is a no-op
	Save(ctx context.Context, v *ValuationResult) error

	// GetByID retrieves a valuation by its ID
	// Returns an error wrapping ErrNotFound if it does not exist
	GetByID(ctx context.Context, id uuid.UUID) (*ValuationResult, error)

	// List retrieves a page of valuations, newest first
	List(ctx context.Context, limit, offset int) ([]*ValuationResult, error)

	// Count returns the total number of stored valuations
	Count(ctx context.Context) (int, error)

	// Delete removes a valuation
	// Returns an error wrapping ErrNotFound if it does not exist
	Delete(ctx context.Context, id uuid.UUID) error
}

// ComparisonRepository defines the interface for the comparison set
type ComparisonRepository interface {
	// Add appends a valuation ID to the end of the comparison set holding at
	// most capacity IDs. The checks and the append happen atomically.
	// Returns an error wrapping ErrNotFound, ErrAlreadyInComparison or
	// ErrComparisonFull when the ID cannot be added.
	Add(ctx context.Context, id uuid.UUID, capacity int) error

	// Remove removes a valuation ID from the comparison set, if present
	Remove(ctx context.Context, id uuid.UUID) error

	// List returns the valuation IDs in insertion order
	List(ctx context.Context) ([]uuid.UUID, error)

	// Clear empties the comparison set
	Clear(ctx context.Context) error
}

// ReportRepository defines the interface for generated report records
type ReportRepository interface {
	// Create records a generated report
	Create(ctx context.Context, r *Report) error

	// List retrieves all reports, newest first
	List(ctx context.Context) ([]*Report, error)

	// Count returns the number of generated reports
	Count(ctx context.Context) (int, error)
}
