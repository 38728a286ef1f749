package report

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/simaogato/assetval-backend/internal/domain"
)

// DocumentFormatter renders report documents
type DocumentFormatter interface {
	ValuationDocument(v *domain.ValuationResult, generatedAt time.Time, format domain.ReportFormat) ([]byte, error)
	ComparisonDocument(s *domain.ComparisonSummary, generatedAt time.Time, format domain.ReportFormat) ([]byte, error)
}

// ComparisonSource provides the current comparison summary
type ComparisonSource interface {
	Summary(ctx context.Context) (*domain.ComparisonSummary, error)
}

// Document is a rendered report together with its record
type Document struct {
	Report  *domain.Report
	Content []byte
}

// Runs of whitespace and path separators collapse to a single underscore in filenames
var filenameSeparators = regexp.MustCompile(`[\s/\\]+`)

// ReportService renders report documents and keeps a record of each one generated
type ReportService struct {
	ValuationRepo domain.ValuationRepository
	ReportRepo    domain.ReportRepository
	Comparison    ComparisonSource
	Formatter     DocumentFormatter

	Now    func() time.Time
	Logger *log.Logger
}

// NewReportService creates a new ReportService instance
func NewReportService(
	valuationRepo domain.ValuationRepository,
	reportRepo domain.ReportRepository,
	comparison ComparisonSource,
	formatter DocumentFormatter,
	logger *log.Logger,
) *ReportService {
	if logger == nil {
		logger = log.Default()
	}
	return &ReportService{
		ValuationRepo: valuationRepo,
		ReportRepo:    reportRepo,
		Comparison:    comparison,
		Formatter:     formatter,
		Now:           func() time.Time { return time.Now().UTC() },
		Logger:        logger,
	}
}

// ValuationReport renders the report of a recorded valuation
func (s *ReportService) ValuationReport(ctx context.Context, valuationID uuid.UUID, format domain.ReportFormat) (*Document, error) {
	if !format.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, format)
	}

	v, err := s.ValuationRepo.GetByID(ctx, valuationID)
	if err != nil {
		return nil, err
	}

	generatedAt := s.Now()
	content, err := s.Formatter.ValuationDocument(v, generatedAt, format)
	if err != nil {
		return nil, fmt.Errorf("failed to render valuation report: %w", err)
	}

	record := &domain.Report{
		ID:               uuid.New(),
		Kind:             domain.ReportKindValuation,
		Title:            "Asset Valuation Report - " + v.Asset.AssetName,
		ValuationIDs:     []uuid.UUID{v.ID},
		AssetNames:       []string{v.Asset.AssetName},
		MarketValue:      v.MarketValue,
		LiquidationValue: v.LiquidationValue,
		Filename:         ValuationFilename(v.Asset.AssetName, generatedAt, format),
		Format:           format,
		GeneratedAt:      generatedAt,
	}
	if err := s.ReportRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to record report: %w", err)
	}

	s.Logger.Printf("generated report %s for valuation %s", record.Filename, v.ID)
	return &Document{Report: record, Content: content}, nil
}

// ComparisonReport renders the report of the current comparison set
func (s *ReportService) ComparisonReport(ctx context.Context, format domain.ReportFormat) (*Document, error) {
	if !format.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, format)
	}

	summary, err := s.Comparison.Summary(ctx)
	if err != nil {
		return nil, err
	}
	if summary.TotalAssets == 0 {
		return nil, domain.ErrComparisonEmpty
	}

	generatedAt := s.Now()
	content, err := s.Formatter.ComparisonDocument(summary, generatedAt, format)
	if err != nil {
		return nil, fmt.Errorf("failed to render comparison report: %w", err)
	}

	record := &domain.Report{
		ID:               uuid.New(),
		Kind:             domain.ReportKindComparison,
		Title:            "Asset Comparison Report",
		ValuationIDs:     make([]uuid.UUID, 0, len(summary.Rows)),
		AssetNames:       make([]string, 0, len(summary.Rows)),
		MarketValue:      summary.CombinedMarket,
		LiquidationValue: summary.CombinedLiquidation,
		Filename:         ComparisonFilename(generatedAt, format),
		Format:           format,
		GeneratedAt:      generatedAt,
	}
	for _, row := range summary.Rows {
		record.ValuationIDs = append(record.ValuationIDs, row.ValuationID)
		record.AssetNames = append(record.AssetNames, row.AssetName)
	}
	if err := s.ReportRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to record report: %w", err)
	}

	s.Logger.Printf("generated comparison report %s over %d assets", record.Filename, summary.TotalAssets)
	return &Document{Report: record, Content: content}, nil
}

// List returns the generated reports, newest first
func (s *ReportService) List(ctx context.Context) ([]*domain.Report, error) {
	return s.ReportRepo.List(ctx)
}

// Count returns the number of generated reports
func (s *ReportService) Count(ctx context.Context) (int, error) {
	return s.ReportRepo.Count(ctx)
}

// ValuationFilename names a valuation report: valuation_<Asset_Name>_<unix millis>.<ext>
func ValuationFilename(assetName string, generatedAt time.Time, format domain.ReportFormat) string {
	return fmt.Sprintf("valuation_%s_%d.%s", filenameSeparators.ReplaceAllString(assetName, "_"), generatedAt.UnixMilli(), format.Extension())
}

// ComparisonFilename names a comparison report: comparison_report_<unix millis>.<ext>
func ComparisonFilename(generatedAt time.Time, format domain.ReportFormat) string {
	return fmt.Sprintf("comparison_report_%d.%s", generatedAt.UnixMilli(), format.Extension())
}
