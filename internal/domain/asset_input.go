package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the layout of acquisition dates exchanged with clients
const DateLayout = "2006-01-02"

// AssetInput is an asset as entered by a user: amounts are decimal strings and
// the liquidation factor is a percentage
type AssetInput struct {
	AssetName          string `json:"assetName"`
	Category           string `json:"category"`
	AcquisitionDate    string `json:"acquisitionDate"`
	AcquisitionCost    string `json:"acquisitionCost"`
	Condition          string `json:"condition"`
	UsefulLife         int    `json:"usefulLife"`
	MarketComparable   string `json:"marketComparable,omitempty"`
	LiquidationPercent string `json:"liquidationPercent"`
	MarketDemand       string `json:"marketDemand"`
	EconomicCondition  string `json:"economicCondition"`
	Notes              string `json:"notes,omitempty"`
}

// Parse converts the input into an AssetDescription and validates it.
// An empty market comparable means none is available.
func (in AssetInput) Parse() (AssetDescription, error) {
	var errs []error

	acquired, err := time.Parse(DateLayout, strings.TrimSpace(in.AcquisitionDate))
	if err != nil {
		errs = append(errs, fmt.Errorf("acquisition date must be YYYY-MM-DD: %q", in.AcquisitionDate))
	}

	cost, err := parseAmount(in.AcquisitionCost)
	if err != nil {
		errs = append(errs, fmt.Errorf("invalid acquisition cost: %q", in.AcquisitionCost))
	}

	comparable := decimal.Zero
	if strings.TrimSpace(in.MarketComparable) != "" {
		if comparable, err = parseAmount(in.MarketComparable); err != nil {
			errs = append(errs, fmt.Errorf("invalid market comparable: %q", in.MarketComparable))
		}
	}

	percent, err := parseAmount(in.LiquidationPercent)
	if err != nil {
		errs = append(errs, fmt.Errorf("invalid liquidation percent: %q", in.LiquidationPercent))
	}

	if len(errs) > 0 {
		return AssetDescription{}, fmt.Errorf("%w: %w", ErrValidation, errors.Join(errs...))
	}

	asset := AssetDescription{
		AssetName:         strings.TrimSpace(in.AssetName),
		Category:          Category(strings.ToLower(strings.TrimSpace(in.Category))),
		AcquisitionDate:   acquired,
		AcquisitionCost:   cost,
		Condition:         Condition(strings.ToLower(strings.TrimSpace(in.Condition))),
		UsefulLife:        in.UsefulLife,
		MarketComparable:  comparable,
		LiquidationFactor: LiquidationPercent(percent),
		MarketDemand:      MarketDemand(strings.ToLower(strings.TrimSpace(in.MarketDemand))),
		EconomicCondition: EconomicCondition(strings.ToLower(strings.TrimSpace(in.EconomicCondition))),
		Notes:             in.Notes,
	}
	if err := asset.Validate(); err != nil {
		return AssetDescription{}, err
	}
	return asset, nil
}

func parseAmount(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.TrimSpace(s))
}
