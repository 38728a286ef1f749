package valuation

import (
	"bytes"
	"context"
	"errors"
	"fmt"
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

// MockComparisonRepository is a mock implementation of ComparisonRepository for testing
type MockComparisonRepository struct {
	mock.Mock
}

func (m *MockComparisonRepository) Add(ctx context.Context, id uuid.UUID, capacity int) error {
	args := m.Called(ctx, id, capacity)
	return args.Error(0)
}

func (m *MockComparisonRepository) Remove(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockComparisonRepository) List(ctx context.Context) ([]uuid.UUID, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockComparisonRepository) Clear(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func newTestService(logOutput *bytes.Buffer) (*ValuationService, *MockValuationRepository, *MockComparisonRepository) {
	valuationRepo := new(MockValuationRepository)
	comparisonRepo := new(MockComparisonRepository)
	service := NewValuationService(valuationRepo, comparisonRepo, log.New(logOutput, "", 0))
	service.Now = func() time.Time { return yearsAfter(acquired, 5) }
	return service, valuationRepo, comparisonRepo
}

func TestCalculate_PersistsResult(t *testing.T) {
	ctx := context.Background()
	var logs bytes.Buffer
	service, valuationRepo, comparisonRepo := newTestService(&logs)

	valuationRepo.On("Save", ctx, mock.AnythingOfType("*domain.ValuationResult")).Return(nil)

	// Execute
	result, err := service.Calculate(ctx, machineryAsset())

	// Assert
	require.NoError(t, err)
	assertDecimal(t, "4000.00", result.MarketValue)
	assert.Equal(t, yearsAfter(acquired, 5), result.CalculatedAt)
	assert.Empty(t, logs.String())

	saved := valuationRepo.Calls[0].Arguments.Get(1).(*domain.ValuationResult)
	assert.Same(t, result, saved)
	valuationRepo.AssertExpectations(t)
	comparisonRepo.AssertNotCalled(t, "Add", mock.Anything, mock.Anything, mock.Anything)
}

func TestCalculate_LogsDefaultedFields(t *testing.T) {
	ctx := context.Background()
	var logs bytes.Buffer
	service, valuationRepo, _ := newTestService(&logs)

	asset := machineryAsset()
	asset.Condition = domain.Condition("like new")
	valuationRepo.On("Save", ctx, mock.Anything).Return(nil)

	result, err := service.Calculate(ctx, asset)

	require.NoError(t, err)
	assert.Equal(t, []string{"condition"}, result.DefaultedFields)
	assert.Contains(t, logs.String(), "unknown condition")
	assert.Contains(t, logs.String(), "Milling Machine")
}

func TestCalculate_ValidationError(t *testing.T) {
	ctx := context.Background()
	var logs bytes.Buffer
	service, valuationRepo, _ := newTestService(&logs)

	asset := machineryAsset()
	asset.AssetName = ""

	result, err := service.Calculate(ctx, asset)

	assert.Nil(t, result)
	assert.True(t, errors.Is(err, domain.ErrValidation))
	valuationRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCalculate_DivisionError(t *testing.T) {
	ctx := context.Background()
	var logs bytes.Buffer
	service, valuationRepo, _ := newTestService(&logs)

	asset := machineryAsset()
	asset.UsefulLife = 0

	result, err := service.Calculate(ctx, asset)

	assert.Nil(t, result)
	assert.True(t, errors.Is(err, domain.ErrDivision))
	valuationRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCalculate_SaveError(t *testing.T) {
	ctx := context.Background()
	var logs bytes.Buffer
	service, valuationRepo, _ := newTestService(&logs)

	dbErr := errors.New("connection refused")
	valuationRepo.On("Save", ctx, mock.Anything).Return(dbErr)

	result, err := service.Calculate(ctx, machineryAsset())

	assert.Nil(t, result)
	assert.ErrorIs(t, err, dbErr)
	assert.Contains(t, err.Error(), "failed to save valuation")
}

func TestPreview_DoesNotPersist(t *testing.T) {
	ctx := context.Background()
	var logs bytes.Buffer
	service, valuationRepo, _ := newTestService(&logs)

	asset := machineryAsset()
	asset.MarketComparable = decimal.NewFromInt(6000)

	result, err := service.Preview(ctx, asset)

	require.NoError(t, err)
	assertDecimal(t, "5200.00", result.MarketValue)
	valuationRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestPreview_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var logs bytes.Buffer
	service, _, _ := newTestService(&logs)

	result, err := service.Preview(ctx, machineryAsset())

	assert.Nil(t, result)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGet_NotFound(t *testing.T) {
	ctx := context.Background()
	var logs bytes.Buffer
	service, valuationRepo, _ := newTestService(&logs)

	id := uuid.New()
	valuationRepo.On("GetByID", ctx, id).Return(nil, fmt.Errorf("valuation %s: %w", id, domain.ErrNotFound))

	result, err := service.Get(ctx, id)

	assert.Nil(t, result)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestHistory_AppliesDefaultPaging(t *testing.T) {
	ctx := context.Background()
	var logs bytes.Buffer
	service, valuationRepo, _ := newTestService(&logs)

	page := []*domain.ValuationResult{{ID: uuid.New()}, {ID: uuid.New()}}
	valuationRepo.On("List", ctx, DefaultHistoryLimit, 0).Return(page, nil)

	results, err := service.History(ctx, 0, -3)

	require.NoError(t, err)
	assert.Equal(t, page, results)
	valuationRepo.AssertExpectations(t)
}

func TestHistory_RepositoryError(t *testing.T) {
	ctx := context.Background()
	var logs bytes.Buffer
	service, valuationRepo, _ := newTestService(&logs)

	valuationRepo.On("List", ctx, 10, 20).Return(nil, errors.New("boom"))

	results, err := service.History(ctx, 10, 20)

	assert.Nil(t, results)
	assert.Contains(t, err.Error(), "failed to list valuations")
}

func TestDelete_RemovesFromComparison(t *testing.T) {
	ctx := context.Background()
	var logs bytes.Buffer
	service, valuationRepo, comparisonRepo := newTestService(&logs)

	id := uuid.New()
	valuationRepo.On("Delete", ctx, id).Return(nil)
	comparisonRepo.On("Remove", ctx, id).Return(nil)

	err := service.Delete(ctx, id)

	assert.NoError(t, err)
	valuationRepo.AssertExpectations(t)
	comparisonRepo.AssertExpectations(t)
}

func TestDelete_NotFoundSkipsComparison(t *testing.T) {
	ctx := context.Background()
	var logs bytes.Buffer
	service, valuationRepo, comparisonRepo := newTestService(&logs)

	id := uuid.New()
	valuationRepo.On("Delete", ctx, id).Return(domain.ErrNotFound)

	err := service.Delete(ctx, id)

	assert.ErrorIs(t, err, domain.ErrNotFound)
	comparisonRepo.AssertNotCalled(t, "Remove", mock.Anything, mock.Anything)
}

func TestCount(t *testing.T) {
	ctx := context.Background()
	var logs bytes.Buffer
	service, valuationRepo, _ := newTestService(&logs)

	valuationRepo.On("Count", ctx).Return(7, nil)

	count, err := service.Count(ctx)

	assert.NoError(t, err)
	assert.Equal(t, 7, count)
}
