package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Category represents the asset category, each mapping to an annual depreciation rate
type Category string

const (
	CategoryMachinery   Category = "machinery"
	CategoryVehicle     Category = "vehicle"
	CategoryProperty    Category = "property"
	CategoryInventory   Category = "inventory"
	CategoryElectronics Category = "electronics"
	CategoryFurniture   Category = "furniture"
	CategoryOther       Category = "other"
)

// Condition represents the physical/operational condition of an asset
type Condition string

const (
	ConditionExcellent Condition = "excellent"
	ConditionGood      Condition = "good"
	ConditionFair      Condition = "fair"
	ConditionPoor      Condition = "poor"
	ConditionSalvage   Condition = "salvage"
)

// MarketDemand represents the demand for this kind of asset on the market
type MarketDemand string

const (
	DemandHigh   MarketDemand = "high"
	DemandNormal MarketDemand = "normal"
	DemandLow    MarketDemand = "low"
)

// EconomicCondition represents the general economic climate
type EconomicCondition string

const (
	EconomyBoom      EconomicCondition = "boom"
	EconomyStable    EconomicCondition = "stable"
	EconomyRecession EconomicCondition = "recession"
)

// Fallbacks used when a tag does not resolve to a known factor.
const (
	DefaultCategory          = CategoryOther
	DefaultCondition         = ConditionFair
	DefaultMarketDemand      = DemandNormal
	DefaultEconomicCondition = EconomyStable
)

var depreciationRates = map[Category]decimal.Decimal{
	CategoryMachinery:   decimal.New(10, -2),
	CategoryVehicle:     decimal.New(15, -2),
	CategoryProperty:    decimal.New(2, -2),
	CategoryInventory:   decimal.New(5, -2),
	CategoryElectronics: decimal.New(20, -2),
	CategoryFurniture:   decimal.New(10, -2),
	CategoryOther:       decimal.New(10, -2),
}

var conditionFactors = map[Condition]decimal.Decimal{
	ConditionExcellent: decimal.New(95, -2),
	ConditionGood:      decimal.New(80, -2),
	ConditionFair:      decimal.New(60, -2),
	ConditionPoor:      decimal.New(40, -2),
	ConditionSalvage:   decimal.New(20, -2),
}

var demandAdjustments = map[MarketDemand]decimal.Decimal{
	DemandHigh:   decimal.New(10, -2),
	DemandNormal: decimal.Zero,
	DemandLow:    decimal.New(-10, -2),
}

var economicAdjustments = map[EconomicCondition]decimal.Decimal{
	EconomyBoom:      decimal.New(5, -2),
	EconomyStable:    decimal.Zero,
	EconomyRecession: decimal.New(-10, -2),
}

// Categories lists the known categories in presentation order
func Categories() []Category {
	return []Category{
		CategoryMachinery, CategoryVehicle, CategoryProperty, CategoryInventory,
		CategoryElectronics, CategoryFurniture, CategoryOther,
	}
}

// IsValid reports whether the category has an entry in the depreciation table
func (c Category) IsValid() bool {
	_, ok := depreciationRates[c]
	return ok
}

// DepreciationRate returns the annual depreciation rate of the category.
// Unknown categories resolve to the "other" rate and ok is false.
func (c Category) DepreciationRate() (rate decimal.Decimal, ok bool) {
	rate, ok = depreciationRates[c]
	if !ok {
		return depreciationRates[DefaultCategory], false
	}
	return rate, true
}

func (c Category) String() string { return string(c) }

// IsValid reports whether the condition has an entry in the condition table
func (c Condition) IsValid() bool {
	_, ok := conditionFactors[c]
	return ok
}

// Factor returns the value retention factor for the condition.
// Unknown conditions resolve to DefaultCondition and ok is false.
func (c Condition) Factor() (factor decimal.Decimal, ok bool) {
	factor, ok = conditionFactors[c]
	if !ok {
		return conditionFactors[DefaultCondition], false
	}
	return factor, true
}

func (c Condition) String() string { return string(c) }

// IsValid reports whether the demand level is known
func (d MarketDemand) IsValid() bool {
	_, ok := demandAdjustments[d]
	return ok
}

// Adjustment returns the signed fractional adjustment for the demand level.
// Unknown levels resolve to no adjustment and ok is false.
func (d MarketDemand) Adjustment() (adj decimal.Decimal, ok bool) {
	adj, ok = demandAdjustments[d]
	if !ok {
		return demandAdjustments[DefaultMarketDemand], false
	}
	return adj, true
}

func (d MarketDemand) String() string { return string(d) }

// IsValid reports whether the economic condition is known
func (e EconomicCondition) IsValid() bool {
	_, ok := economicAdjustments[e]
	return ok
}

// Adjustment returns the signed fractional adjustment for the economic condition.
// Unknown conditions resolve to no adjustment and ok is false.
func (e EconomicCondition) Adjustment() (adj decimal.Decimal, ok bool) {
	adj, ok = economicAdjustments[e]
	if !ok {
		return economicAdjustments[DefaultEconomicCondition], false
	}
	return adj, true
}

func (e EconomicCondition) String() string { return string(e) }

// AssetDescription is the input of a valuation.
// It is constructed once from user input and never mutated afterwards.
type AssetDescription struct {
	AssetName         string            `json:"assetName"`
	Category          Category          `json:"category"`
	AcquisitionDate   time.Time         `json:"acquisitionDate"`
	AcquisitionCost   decimal.Decimal   `json:"acquisitionCost"`
	Condition         Condition         `json:"condition"`
	UsefulLife        int               `json:"usefulLife"`        // years
	MarketComparable  decimal.Decimal   `json:"marketComparable"`  // zero means no comparable available
	LiquidationFactor decimal.Decimal   `json:"liquidationFactor"` // fraction in [0,1], not a percentage
	MarketDemand      MarketDemand      `json:"marketDemand"`
	EconomicCondition EconomicCondition `json:"economicCondition"`
	Notes             string            `json:"notes,omitempty"`
}

// LiquidationPercent converts a liquidation percentage (0-100) as collected
// from users into the fraction consumed by the engine.
func LiquidationPercent(percent decimal.Decimal) decimal.Decimal {
	return percent.Div(decimal.NewFromInt(100))
}

// Validate checks the ranges a caller is expected to enforce before
// requesting a valuation. Useful life is checked by the engine itself.
func (a *AssetDescription) Validate() error {
	var errs []error

	if a.AssetName == "" {
		errs = append(errs, errors.New("asset name cannot be empty"))
	}
	if a.AcquisitionDate.IsZero() {
		errs = append(errs, errors.New("acquisition date is required"))
	}
	if a.AcquisitionCost.IsNegative() {
		errs = append(errs, errors.New("acquisition cost must not be negative"))
	}
	if a.MarketComparable.IsNegative() {
		errs = append(errs, errors.New("market comparable must not be negative"))
	}
	if a.LiquidationFactor.IsNegative() || a.LiquidationFactor.GreaterThan(decimal.NewFromInt(1)) {
		errs = append(errs, errors.New("liquidation factor must be between 0 and 1"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrValidation, errors.Join(errs...))
	}
	return nil
}
