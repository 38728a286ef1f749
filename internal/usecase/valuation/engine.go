package valuation

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simaogato/assetval-backend/internal/domain"
)

// ValuationNamespace is the UUIDv5 namespace valuation IDs are derived in
var ValuationNamespace = uuid.MustParse("6f1c7c4e-2b9a-5d3e-9a51-7c0e4b8f2a10")

var (
	one = decimal.NewFromInt(1)

	// Depreciation never exceeds 90% of the acquisition cost
	maxDepreciation = decimal.New(90, -2)

	// Blend weights when a market comparable is available
	bookWeight       = decimal.New(4, -1)
	comparableWeight = decimal.New(6, -1)

	daysPerYear    = decimal.RequireFromString("365.25")
	secondsPerYear = decimal.NewFromInt(int64(24 * time.Hour / time.Second)).Mul(daysPerYear)
)

// Evaluate computes the market and liquidation value of an asset at instant now.
//
// Evaluate is pure: it reads no clock, performs no I/O and touches no shared
// state, so identical inputs always produce identical results. The only
// rejected input is a non-positive useful life (domain.ErrDivision); unknown
// enum tags fall back to the defaults documented in the domain package and are
// listed in DefaultedFields.
func Evaluate(asset domain.AssetDescription, now time.Time) (*domain.ValuationResult, error) {
	if asset.UsefulLife <= 0 {
		return nil, fmt.Errorf("%w: got %d", domain.ErrDivision, asset.UsefulLife)
	}

	var defaulted []string

	// Elapsed ownership in fractional years; negative for future acquisitions
	yearsOwned := elapsedSeconds(asset.AcquisitionDate, now).Div(secondsPerYear)

	// The category rate is resolved for validation only. Straight-line
	// depreciation below runs over the useful life alone.
	if _, ok := asset.Category.DepreciationRate(); !ok {
		defaulted = append(defaulted, "category")
	}

	totalDepreciation := decimal.Min(yearsOwned.Div(decimal.NewFromInt(int64(asset.UsefulLife))), maxDepreciation)
	depreciatedValue := asset.AcquisitionCost.Mul(one.Sub(totalDepreciation))

	conditionFactor, ok := asset.Condition.Factor()
	if !ok {
		defaulted = append(defaulted, "condition")
	}
	conditionAdjustedValue := depreciatedValue.Mul(conditionFactor)

	hasComparable := asset.MarketComparable.IsPositive()
	marketValue := conditionAdjustedValue
	if hasComparable {
		marketValue = conditionAdjustedValue.Mul(bookWeight).Add(asset.MarketComparable.Mul(comparableWeight))
	}

	demandAdj, ok := asset.MarketDemand.Adjustment()
	if !ok {
		defaulted = append(defaulted, "marketDemand")
	}
	marketValue = marketValue.Mul(one.Add(demandAdj))

	economicAdj, ok := asset.EconomicCondition.Adjustment()
	if !ok {
		defaulted = append(defaulted, "economicCondition")
	}
	marketValue = marketValue.Mul(one.Add(economicAdj))

	liquidationValue := marketValue.Mul(asset.LiquidationFactor)

	breakdown := []domain.BreakdownItem{
		{
			Label:  "Original Acquisition Cost",
			Amount: asset.AcquisitionCost,
			Sign:   domain.SignNeutral,
		},
		{
			Label:  fmt.Sprintf("Depreciation (%s%%)", totalDepreciation.Mul(decimal.NewFromInt(100)).StringFixed(1)),
			Amount: asset.AcquisitionCost.Neg().Mul(totalDepreciation),
			Sign:   domain.SignNegative,
		},
		{
			Label:  "Depreciated Value",
			Amount: depreciatedValue,
			Sign:   domain.SignNeutral,
		},
		{
			Label:  fmt.Sprintf("Condition Adjustment (%s)", asset.Condition),
			Amount: conditionAdjustedValue.Sub(depreciatedValue),
			Sign:   signOf(conditionAdjustedValue.GreaterThan(depreciatedValue)),
		},
	}

	if hasComparable {
		// Effect of the comparable net of the later multiplicative adjustments
		adjustedBook := conditionAdjustedValue.Mul(one.Add(demandAdj)).Mul(one.Add(economicAdj))
		breakdown = append(breakdown, domain.BreakdownItem{
			Label:  "Market Comparable Adjustment",
			Amount: marketValue.Sub(adjustedBook),
			Sign:   domain.SignNeutral,
		})
	}

	if !demandAdj.IsZero() {
		breakdown = append(breakdown, domain.BreakdownItem{
			Label:  fmt.Sprintf("Market Demand (%s)", asset.MarketDemand),
			Amount: marginalContribution(marketValue, demandAdj),
			Sign:   signOf(demandAdj.IsPositive()),
		})
	}

	if !economicAdj.IsZero() {
		breakdown = append(breakdown, domain.BreakdownItem{
			Label:  fmt.Sprintf("Economic Conditions (%s)", asset.EconomicCondition),
			Amount: marginalContribution(marketValue, economicAdj),
			Sign:   signOf(economicAdj.IsPositive()),
		})
	}

	id, err := valuationID(asset, now)
	if err != nil {
		return nil, err
	}

	return &domain.ValuationResult{
		ID:               id,
		Asset:            asset,
		YearsOwned:       yearsOwned,
		MarketValue:      marketValue.Round(2),
		LiquidationValue: liquidationValue.Round(2),
		Breakdown:        breakdown,
		CalculatedAt:     now,
		DefaultedFields:  defaulted,
	}, nil
}

// marginalContribution back-computes the amount a multiplicative adjustment
// added to value: value * adj / (1 + adj)
// elapsedSeconds is the exact interval from, to in seconds. time.Duration
// saturates near 292 years, so the whole seconds and nanoseconds are kept apart.
func elapsedSeconds(from, to time.Time) decimal.Decimal {
	seconds := decimal.NewFromInt(to.Unix() - from.Unix())
	nanos := decimal.New(int64(to.Nanosecond()-from.Nanosecond()), -9)
	return seconds.Add(nanos)
}

func marginalContribution(value, adj decimal.Decimal) decimal.Decimal {
	return value.Mul(adj).Div(one.Add(adj))
}

func signOf(positive bool) domain.Sign {
	if positive {
		return domain.SignPositive
	}
	return domain.SignNegative
}

// valuationID derives a stable ID from the inputs of a valuation
func valuationID(asset domain.AssetDescription, now time.Time) (uuid.UUID, error) {
	key, err := json.Marshal(struct {
		Asset domain.AssetDescription `json:"asset"`
		Now   time.Time               `json:"now"`
	}{asset, now.UTC()})
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to encode valuation key: %w", err)
	}
	return uuid.NewSHA1(ValuationNamespace, key), nil
}
