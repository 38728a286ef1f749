package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sign classifies a breakdown line for presentation
type Sign string

const (
	SignPositive Sign = "positive"
	SignNegative Sign = "negative"
	SignNeutral  Sign = "neutral"
)

// BreakdownItem is one labelled adjustment explaining how the market value was derived
type BreakdownItem struct {
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"value"`
	Sign   Sign            `json:"type"`
}

// ValuationResult is the immutable output of a valuation.
// Breakdown is explanatory only: it is derived from the other fields and its
// entries are not guaranteed to sum to MarketValue.
type ValuationResult struct {
	ID               uuid.UUID        `json:"id"`
	Asset            AssetDescription `json:"asset"`
	YearsOwned       decimal.Decimal  `json:"yearsOwned"`
	MarketValue      decimal.Decimal  `json:"marketValue"`      // rounded to cents
	LiquidationValue decimal.Decimal  `json:"liquidationValue"` // rounded to cents
	Breakdown        []BreakdownItem  `json:"breakdown"`
	CalculatedAt     time.Time        `json:"calculatedAt"`
	DefaultedFields  []string         `json:"defaultedFields,omitempty"` // input tags resolved through a fallback
}
