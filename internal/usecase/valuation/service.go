package valuation

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/simaogato/assetval-backend/internal/domain"
)

// DefaultHistoryLimit is the page size used when History is called without a limit
const DefaultHistoryLimit = 50

// ValuationService runs valuations and manages the valuation history
type ValuationService struct {
	ValuationRepo  domain.ValuationRepository
	ComparisonRepo domain.ComparisonRepository

	// Now is the clock valuations are stamped with
	Now    func() time.Time
	Logger *log.Logger
}

// NewValuationService creates a new ValuationService instance
func NewValuationService(
	valuationRepo domain.ValuationRepository,
	comparisonRepo domain.ComparisonRepository,
	logger *log.Logger,
) *ValuationService {
	if logger == nil {
		logger = log.Default()
	}
	return &ValuationService{
		ValuationRepo:  valuationRepo,
		ComparisonRepo: comparisonRepo,
		Now:            now,
		Logger:         logger,
	}
}

// now is UTC at microsecond precision so timestamps survive a TIMESTAMPTZ round trip
func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// Calculate validates and evaluates an asset, then records the result in the history
func (s *ValuationService) Calculate(ctx context.Context, asset domain.AssetDescription) (*domain.ValuationResult, error) {
	result, err := s.Preview(ctx, asset)
	if err != nil {
		return nil, err
	}

	for _, field := range result.DefaultedFields {
		s.Logger.Printf("valuation %s: unknown %s for %q, using default", result.ID, field, asset.AssetName)
	}

	if err := s.ValuationRepo.Save(ctx, result); err != nil {
		return nil, fmt.Errorf("failed to save valuation: %w", err)
	}

	return result, nil
}

// Preview evaluates an asset without recording it
func (s *ValuationService) Preview(ctx context.Context, asset domain.AssetDescription) (*domain.ValuationResult, error) {
	if err := asset.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Evaluate(asset, s.Now())
}

// Get retrieves a recorded valuation
func (s *ValuationService) Get(ctx context.Context, id uuid.UUID) (*domain.ValuationResult, error) {
	return s.ValuationRepo.GetByID(ctx, id)
}

// History returns a page of recorded valuations, newest first
func (s *ValuationService) History(ctx context.Context, limit, offset int) ([]*domain.ValuationResult, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if offset < 0 {
		offset = 0
	}

	results, err := s.ValuationRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list valuations: %w", err)
	}
	return results, nil
}

// Delete removes a valuation from the history and from the comparison set
func (s *ValuationService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.ValuationRepo.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.ComparisonRepo.Remove(ctx, id); err != nil {
		return fmt.Errorf("failed to remove valuation from comparison: %w", err)
	}
	return nil
}

// Count returns the number of recorded valuations
func (s *ValuationService) Count(ctx context.Context) (int, error) {
	return s.ValuationRepo.Count(ctx)
}
