package comparison

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/simaogato/assetval-backend/internal/domain"
)

// ComparisonService manages the set of valuations compared side by side
type ComparisonService struct {
	ValuationRepo  domain.ValuationRepository
	ComparisonRepo domain.ComparisonRepository
	Capacity       int
	Logger         *log.Logger
}

// NewComparisonService creates a new ComparisonService instance.
// A non-positive capacity falls back to domain.DefaultComparisonCapacity.
func NewComparisonService(
	valuationRepo domain.ValuationRepository,
	comparisonRepo domain.ComparisonRepository,
	capacity int,
	logger *log.Logger,
) *ComparisonService {
	if capacity <= 0 {
		capacity = domain.DefaultComparisonCapacity
	}
	if logger == nil {
		logger = log.Default()
	}
	return &ComparisonService{
		ValuationRepo:  valuationRepo,
		ComparisonRepo: comparisonRepo,
		Capacity:       capacity,
		Logger:         logger,
	}
}

// Add appends a recorded valuation to the comparison set
func (s *ComparisonService) Add(ctx context.Context, valuationID uuid.UUID) error {
	if _, err := s.ValuationRepo.GetByID(ctx, valuationID); err != nil {
		return err
	}

	err := s.ComparisonRepo.Add(ctx, valuationID, s.Capacity)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrComparisonFull):
		return fmt.Errorf("%w: at most %d assets", domain.ErrComparisonFull, s.Capacity)
	case errors.Is(err, domain.ErrAlreadyInComparison), errors.Is(err, domain.ErrNotFound):
		return err
	default:
		return fmt.Errorf("failed to add to comparison: %w", err)
	}
}

// Remove drops a valuation from the comparison set; removing an absent ID is not an error
func (s *ComparisonService) Remove(ctx context.Context, valuationID uuid.UUID) error {
	return s.ComparisonRepo.Remove(ctx, valuationID)
}

// Clear empties the comparison set
func (s *ComparisonService) Clear(ctx context.Context) error {
	return s.ComparisonRepo.Clear(ctx)
}

// List returns the compared valuations in insertion order.
// IDs whose valuation no longer exists are skipped.
func (s *ComparisonService) List(ctx context.Context) ([]*domain.ValuationResult, error) {
	ids, err := s.ComparisonRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list comparison: %w", err)
	}

	valuations := make([]*domain.ValuationResult, 0, len(ids))
	for _, id := range ids {
		v, err := s.ValuationRepo.GetByID(ctx, id)
		if errors.Is(err, domain.ErrNotFound) {
			s.Logger.Printf("comparison: skipping missing valuation %s", id)
			continue
		}
		if err != nil {
			return nil, err
		}
		valuations = append(valuations, v)
	}
	return valuations, nil
}

// Summary builds the side-by-side comparison with portfolio totals
func (s *ComparisonService) Summary(ctx context.Context) (*domain.ComparisonSummary, error) {
	valuations, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]domain.ComparisonRow, 0, len(valuations))
	for _, v := range valuations {
		rows = append(rows, domain.NewComparisonRow(v))
	}
	return domain.Summarize(rows), nil
}
