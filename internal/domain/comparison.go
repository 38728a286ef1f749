package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultComparisonCapacity is the number of assets that fit side by side in a comparison
const DefaultComparisonCapacity = 4

// ComparisonRow is one asset column of a comparison
type ComparisonRow struct {
	ValuationID      uuid.UUID       `json:"valuationId"`
	AssetName        string          `json:"assetName"`
	Category         Category        `json:"category"`
	AcquisitionCost  decimal.Decimal `json:"acquisitionCost"`
	Condition        Condition       `json:"condition"`
	YearsOwned       decimal.Decimal `json:"yearsOwned"`
	MarketValue      decimal.Decimal `json:"marketValue"`
	LiquidationValue decimal.Decimal `json:"liquidationValue"`
}

// NewComparisonRow flattens a valuation into a comparison column
func NewComparisonRow(v *ValuationResult) ComparisonRow {
	return ComparisonRow{
		ValuationID:      v.ID,
		AssetName:        v.Asset.AssetName,
		Category:         v.Asset.Category,
		AcquisitionCost:  v.Asset.AcquisitionCost,
		Condition:        v.Asset.Condition,
		YearsOwned:       v.YearsOwned,
		MarketValue:      v.MarketValue,
		LiquidationValue: v.LiquidationValue,
	}
}

// ComparisonSummary is the side-by-side view of the comparison set with portfolio totals
type ComparisonSummary struct {
	Rows                []ComparisonRow `json:"rows"`
	TotalAssets         int             `json:"totalAssets"`
	CombinedMarket      decimal.Decimal `json:"combinedMarket"`
	CombinedLiquidation decimal.Decimal `json:"combinedLiquidation"`
	AverageMarket       decimal.Decimal `json:"averageMarket"`
}

// Summarize computes the portfolio totals over rows. The average is zero for an empty set.
func Summarize(rows []ComparisonRow) *ComparisonSummary {
	summary := &ComparisonSummary{
		Rows:                rows,
		TotalAssets:         len(rows),
		CombinedMarket:      decimal.Zero,
		CombinedLiquidation: decimal.Zero,
		AverageMarket:       decimal.Zero,
	}
	for _, row := range rows {
		summary.CombinedMarket = summary.CombinedMarket.Add(row.MarketValue)
		summary.CombinedLiquidation = summary.CombinedLiquidation.Add(row.LiquidationValue)
	}
	if len(rows) > 0 {
		summary.AverageMarket = summary.CombinedMarket.Div(decimal.NewFromInt(int64(len(rows)))).Round(2)
	}
	return summary
}
