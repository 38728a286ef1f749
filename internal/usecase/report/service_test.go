package report

import (
	"bytes"
	"context"
	"errors"
	"log"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simaogato/assetval-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockValuationRepository is a mock implementation of ValuationRepository for testing
type MockValuationRepository struct {
	mock.Mock
}

func (m *MockValuationRepository) Save(ctx context.Context, v *domain.ValuationResult) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}

func (m *MockValuationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ValuationResult, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ValuationResult), args.Error(1)
}

func (m *MockValuationRepository) List(ctx context.Context, limit, offset int) ([]*domain.ValuationResult, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ValuationResult), args.Error(1)
}

func (m *MockValuationRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockValuationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockReportRepository is a mock implementation of ReportRepository for testing
type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) Create(ctx context.Context, r *domain.Report) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockReportRepository) List(ctx context.Context) ([]*domain.Report, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Report), args.Error(1)
}

func (m *MockReportRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// MockComparisonSource is a mock implementation of ComparisonSource for testing
type MockComparisonSource struct {
	mock.Mock
}

func (m *MockComparisonSource) Summary(ctx context.Context) (*domain.ComparisonSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ComparisonSummary), args.Error(1)
}

// MockFormatter is a mock implementation of DocumentFormatter for testing
type MockFormatter struct {
	mock.Mock
}

func (m *MockFormatter) ValuationDocument(v *domain.ValuationResult, generatedAt time.Time, format domain.ReportFormat) ([]byte, error) {
	args := m.Called(v, generatedAt, format)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockFormatter) ComparisonDocument(s *domain.ComparisonSummary, generatedAt time.Time, format domain.ReportFormat) ([]byte, error) {
	args := m.Called(s, generatedAt, format)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

var fixedNow = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

type fixture struct {
	service       *ReportService
	valuationRepo *MockValuationRepository
	reportRepo    *MockReportRepository
	comparison    *MockComparisonSource
	formatter     *MockFormatter
}

func newFixture() *fixture {
	f := &fixture{
		valuationRepo: new(MockValuationRepository),
		reportRepo:    new(MockReportRepository),
		comparison:    new(MockComparisonSource),
		formatter:     new(MockFormatter),
	}
	f.service = NewReportService(f.valuationRepo, f.reportRepo, f.comparison, f.formatter, log.New(&bytes.Buffer{}, "", 0))
	f.service.Now = func() time.Time { return fixedNow }
	return f
}

func sampleValuation() *domain.ValuationResult {
	return &domain.ValuationResult{
		ID:               uuid.New(),
		Asset:            domain.AssetDescription{AssetName: "Delivery  Van 2"},
		MarketValue:      decimal.RequireFromString("4000.00"),
		LiquidationValue: decimal.RequireFromString("2000.00"),
	}
}

func TestValuationReport_Success(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	v := sampleValuation()
	f.valuationRepo.On("GetByID", ctx, v.ID).Return(v, nil)
	f.formatter.On("ValuationDocument", v, fixedNow, domain.FormatMarkdown).Return([]byte("# report"), nil)
	f.reportRepo.On("Create", ctx, mock.AnythingOfType("*domain.Report")).Return(nil)

	// Execute
	doc, err := f.service.ValuationReport(ctx, v.ID, domain.FormatMarkdown)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []byte("# report"), doc.Content)
	assert.Equal(t, domain.ReportKindValuation, doc.Report.Kind)
	assert.Equal(t, "valuation_Delivery_Van_2_1792324800000.md", doc.Report.Filename)
	assert.Equal(t, []uuid.UUID{v.ID}, doc.Report.ValuationIDs)
	assert.Equal(t, []string{"Delivery  Van 2"}, doc.Report.AssetNames)
	assert.True(t, doc.Report.MarketValue.Equal(v.MarketValue))
	assert.True(t, doc.Report.LiquidationValue.Equal(v.LiquidationValue))
	assert.Equal(t, fixedNow, doc.Report.GeneratedAt)
	assert.NotEqual(t, uuid.Nil, doc.Report.ID)

	recorded := f.reportRepo.Calls[0].Arguments.Get(1).(*domain.Report)
	assert.Same(t, doc.Report, recorded)
}

func TestValuationReport_UnsupportedFormat(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	doc, err := f.service.ValuationReport(ctx, uuid.New(), domain.ReportFormat("pdf"))

	assert.Nil(t, doc)
	assert.True(t, errors.Is(err, domain.ErrUnsupportedFormat))
	f.valuationRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestValuationReport_NotFound(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	id := uuid.New()
	f.valuationRepo.On("GetByID", ctx, id).Return(nil, domain.ErrNotFound)

	doc, err := f.service.ValuationReport(ctx, id, domain.FormatHTML)

	assert.Nil(t, doc)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	f.reportRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestValuationReport_RenderFailureIsNotRecorded(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	v := sampleValuation()
	f.valuationRepo.On("GetByID", ctx, v.ID).Return(v, nil)
	f.formatter.On("ValuationDocument", v, fixedNow, domain.FormatTerminal).Return(nil, errors.New("bad template"))

	doc, err := f.service.ValuationReport(ctx, v.ID, domain.FormatTerminal)

	assert.Nil(t, doc)
	assert.Contains(t, err.Error(), "failed to render valuation report")
	f.reportRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestComparisonReport_Success(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	a, b := uuid.New(), uuid.New()
	summary := domain.Summarize([]domain.ComparisonRow{
		{ValuationID: a, AssetName: "Truck", MarketValue: decimal.NewFromInt(100), LiquidationValue: decimal.NewFromInt(50)},
		{ValuationID: b, AssetName: "Crane", MarketValue: decimal.NewFromInt(300), LiquidationValue: decimal.NewFromInt(90)},
	})
	f.comparison.On("Summary", ctx).Return(summary, nil)
	f.formatter.On("ComparisonDocument", summary, fixedNow, domain.FormatHTML).Return([]byte("<html>"), nil)
	f.reportRepo.On("Create", ctx, mock.Anything).Return(nil)

	doc, err := f.service.ComparisonReport(ctx, domain.FormatHTML)

	require.NoError(t, err)
	assert.Equal(t, domain.ReportKindComparison, doc.Report.Kind)
	assert.Equal(t, "comparison_report_1792324800000.html", doc.Report.Filename)
	assert.Equal(t, []uuid.UUID{a, b}, doc.Report.ValuationIDs)
	assert.Equal(t, []string{"Truck", "Crane"}, doc.Report.AssetNames)
	assert.True(t, doc.Report.MarketValue.Equal(decimal.NewFromInt(400)))
	assert.True(t, doc.Report.LiquidationValue.Equal(decimal.NewFromInt(140)))
}

func TestComparisonReport_Empty(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	f.comparison.On("Summary", ctx).Return(domain.Summarize(nil), nil)

	doc, err := f.service.ComparisonReport(ctx, domain.FormatMarkdown)

	assert.Nil(t, doc)
	assert.ErrorIs(t, err, domain.ErrComparisonEmpty)
	f.formatter.AssertNotCalled(t, "ComparisonDocument", mock.Anything, mock.Anything, mock.Anything)
}

func TestListAndCount(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	reports := []*domain.Report{{ID: uuid.New()}, {ID: uuid.New()}}
	f.reportRepo.On("List", ctx).Return(reports, nil)
	f.reportRepo.On("Count", ctx).Return(2, nil)

	listed, err := f.service.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, reports, listed)

	count, err := f.service.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestFilenames(t *testing.T) {
	at := time.UnixMilli(1700000000123)

	assert.Equal(t, "valuation_CNC_Lathe_1700000000123.md", ValuationFilename("CNC Lathe", at, domain.FormatMarkdown))
	assert.Equal(t, "valuation_a_b_c_1700000000123.txt", ValuationFilename("a/b\\ c", at, domain.FormatTerminal))
	assert.Equal(t, "comparison_report_1700000000123.html", ComparisonFilename(at, domain.FormatHTML))
}
