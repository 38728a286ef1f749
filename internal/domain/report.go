package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReportKind distinguishes single asset reports from comparison reports
type ReportKind string

const (
	ReportKindValuation  ReportKind = "valuation"
	ReportKindComparison ReportKind = "comparison"
)

// ReportFormat is the output format of a rendered report document
type ReportFormat string

const (
	FormatMarkdown ReportFormat = "markdown"
	FormatHTML     ReportFormat = "html"
	FormatTerminal ReportFormat = "terminal"
)

// IsValid reports whether the format is supported by the report formatter
func (f ReportFormat) IsValid() bool {
	switch f {
	case FormatMarkdown, FormatHTML, FormatTerminal:
		return true
	default:
		return false
	}
}

// Extension returns the file extension used for documents in this format
func (f ReportFormat) Extension() string {
	switch f {
	case FormatHTML:
		return "html"
	case FormatTerminal:
		return "txt"
	default:
		return "md"
	}
}

// Report records a generated report document.
// For comparison reports the values are the combined totals of all assets.
type Report struct {
	ID               uuid.UUID       `json:"id"`
	Kind             ReportKind      `json:"kind"`
	Title            string          `json:"title"`
	ValuationIDs     []uuid.UUID     `json:"valuationIds"`
	AssetNames       []string        `json:"assetNames"`
	MarketValue      decimal.Decimal `json:"marketValue"`
	LiquidationValue decimal.Decimal `json:"liquidationValue"`
	Filename         string          `json:"filename"`
	Format           ReportFormat    `json:"format"`
	GeneratedAt      time.Time       `json:"generatedAt"`
}
