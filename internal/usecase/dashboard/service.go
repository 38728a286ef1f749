package dashboard

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/simaogato/assetval-backend/internal/domain"
)

// RecentLimit is the number of recent valuations shown on the dashboard
const RecentLimit = 5

// Summary represents the dashboard totals over the valuation history
type Summary struct {
	TotalValuations     int                       `json:"totalValuations"`
	CombinedMarket      decimal.Decimal           `json:"combinedMarket"`
	CombinedLiquidation decimal.Decimal           `json:"combinedLiquidation"`
	ReportsGenerated    int                       `json:"reportsGenerated"`
	Recent              []*domain.ValuationResult `json:"recent"`
}

// DashboardService handles dashboard-related operations
type DashboardService struct {
	ValuationRepo domain.ValuationRepository
	ReportRepo    domain.ReportRepository
}

// NewDashboardService creates a new DashboardService instance
func NewDashboardService(
	valuationRepo domain.ValuationRepository,
	reportRepo domain.ReportRepository,
) *DashboardService {
	return &DashboardService{
		ValuationRepo: valuationRepo,
		ReportRepo:    reportRepo,
	}
}

// GetSummary calculates the dashboard totals
// Logic:
//   - Combined market / liquidation: sum over every recorded valuation
//   - Reports generated: number of report records
//   - Recent: the RecentLimit newest valuations
func (s *DashboardService) GetSummary(ctx context.Context) (*Summary, error) {
	// 1. Walk the whole history page by page and sum the values
	total, err := s.ValuationRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count valuations: %w", err)
	}

	const pageSize = 200
	market := decimal.Zero
	liquidation := decimal.Zero
	var recent []*domain.ValuationResult

	for offset := 0; offset < total; offset += pageSize {
		page, err := s.ValuationRepo.List(ctx, pageSize, offset)
		if err != nil {
			return nil, fmt.Errorf("failed to list valuations: %w", err)
		}
		if len(page) == 0 {
			break
		}
		for _, v := range page {
			market = market.Add(v.MarketValue)
			liquidation = liquidation.Add(v.LiquidationValue)
			if len(recent) < RecentLimit {
				recent = append(recent, v)
			}
		}
	}

	// 2. Count generated reports
	reports, err := s.ReportRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count reports: %w", err)
	}

	if recent == nil {
		recent = []*domain.ValuationResult{}
	}

	return &Summary{
		TotalValuations:     total,
		CombinedMarket:      market,
		CombinedLiquidation: liquidation,
		ReportsGenerated:    reports,
		Recent:              recent,
	}, nil
}
