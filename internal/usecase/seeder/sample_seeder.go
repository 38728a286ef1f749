package seeder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/simaogato/assetval-backend/internal/domain"
	"github.com/simaogato/assetval-backend/internal/usecase/valuation"
)

// SampleValuationTime is the fixed instant sample assets are valued at, so that
// reseeding produces the same valuation IDs
var SampleValuationTime = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// SampleAssets returns the demo assets loaded by the seeder
func SampleAssets() []domain.AssetDescription {
	return []domain.AssetDescription{
		{
			AssetName:         "CNC Milling Machine",
			Category:          domain.CategoryMachinery,
			AcquisitionDate:   date(2020, time.January, 1),
			AcquisitionCost:   decimal.NewFromInt(85000),
			Condition:         domain.ConditionGood,
			UsefulLife:        15,
			MarketComparable:  decimal.NewFromInt(52000),
			LiquidationFactor: decimal.New(55, -2),
			MarketDemand:      domain.DemandHigh,
			EconomicCondition: domain.EconomyStable,
			Notes:             "Annual maintenance contract in place.",
		},
		{
			AssetName:         "Delivery Van",
			Category:          domain.CategoryVehicle,
			AcquisitionDate:   date(2021, time.June, 15),
			AcquisitionCost:   decimal.NewFromInt(38000),
			Condition:         domain.ConditionFair,
			UsefulLife:        8,
			MarketComparable:  decimal.Zero,
			LiquidationFactor: decimal.New(60, -2),
			MarketDemand:      domain.DemandNormal,
			EconomicCondition: domain.EconomyRecession,
		},
		{
			AssetName:         "Office Furniture Set",
			Category:          domain.CategoryFurniture,
			AcquisitionDate:   date(2018, time.March, 1),
			AcquisitionCost:   decimal.NewFromInt(12000),
			Condition:         domain.ConditionPoor,
			UsefulLife:        10,
			MarketComparable:  decimal.Zero,
			LiquidationFactor: decimal.New(30, -2),
			MarketDemand:      domain.DemandLow,
			EconomicCondition: domain.EconomyStable,
		},
		{
			AssetName:         "Server Rack",
			Category:          domain.CategoryElectronics,
			AcquisitionDate:   date(2023, time.September, 1),
			AcquisitionCost:   decimal.NewFromInt(24000),
			Condition:         domain.ConditionExcellent,
			UsefulLife:        5,
			MarketComparable:  decimal.NewFromInt(19000),
			LiquidationFactor: decimal.New(45, -2),
			MarketDemand:      domain.DemandNormal,
			EconomicCondition: domain.EconomyBoom,
		},
	}
}

// SampleSeeder loads demo valuations into an empty history
type SampleSeeder struct {
	repo domain.ValuationRepository
}

// NewSampleSeeder creates a new SampleSeeder instance
func NewSampleSeeder(repo domain.ValuationRepository) *SampleSeeder {
	return &SampleSeeder{
		repo: repo,
	}
}

// Seed ensures every sample valuation exists in the history and returns the
// number of valuations it created
func (s *SampleSeeder) Seed(ctx context.Context) (int, error) {
	created := 0
	for _, asset := range SampleAssets() {
		result, err := valuation.Evaluate(asset, SampleValuationTime)
		if err != nil {
			return created, fmt.Errorf("failed to evaluate sample %q: %w", asset.AssetName, err)
		}

		// Try to get the valuation by its deterministic ID
		_, err = s.repo.GetByID(ctx, result.ID)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return created, err
		}

		if err := s.repo.Save(ctx, result); err != nil {
			return created, err
		}
		created++
	}

	return created, nil
}
