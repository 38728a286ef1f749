package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/assetval-backend/internal/config"
	"github.com/simaogato/assetval-backend/internal/domain"
	"github.com/simaogato/assetval-backend/internal/usecase/seeder"
)

func testConfig(t *testing.T, mr *miniredis.Miniredis) *config.Config {
	t.Helper()

	return &config.Config{
		Store: config.StoreConfig{
			Backend: config.BackendRedis,
			Redis: config.RedisConfig{
				Host:           mr.Host(),
				Port:           mr.Port(),
				MaxConnections: 2,
			},
		},
		Report:     config.ReportConfig{Currency: "USD"},
		Comparison: config.ComparisonConfig{Capacity: 4},
	}
}

func TestOpen_Redis(t *testing.T) {
	// Setup
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	logger := log.New(io.Discard, "", 0)

	// Execute
	services, err := Open(testConfig(t, mr), logger)
	require.NoError(t, err)
	defer services.Close()

	// Assert: the services share one store
	ctx := context.Background()
	seeded, err := services.Seeder.Seed(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(seeder.SampleAssets()), seeded)

	count, err := services.Valuation.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, seeded, count)

	summary, err := services.Dashboard.GetSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, seeded, summary.TotalValuations)
	assert.Equal(t, "USD", services.Formatter.Currency())
}

func TestComparison_ConcurrentAddsRespectCapacity(t *testing.T) {
	// Setup
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	cfg := testConfig(t, mr)
	cfg.Store.Redis.MaxConnections = 10

	services, err := Open(cfg, log.New(io.Discard, "", 0))
	require.NoError(t, err)
	defer services.Close()

	ctx := context.Background()
	samples := seeder.SampleAssets()
	var ids []uuid.UUID
	for i := 0; i < 20; i++ {
		asset := samples[i%len(samples)]
		asset.AssetName = fmt.Sprintf("%s #%d", asset.AssetName, i)
		v, err := services.Valuation.Calculate(ctx, asset)
		require.NoError(t, err)
		ids = append(ids, v.ID)
	}

	// Execute
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		full int
	)
	for _, id := range ids {
		wg.Add(1)
		go func(id uuid.UUID) {
			defer wg.Done()
			err := services.Comparison.Add(ctx, id)
			if errors.Is(err, domain.ErrComparisonFull) {
				mu.Lock()
				full++
				mu.Unlock()
				return
			}
			assert.NoError(t, err)
		}(id)
	}
	wg.Wait()

	// Assert
	summary, err := services.Comparison.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, cfg.Comparison.Capacity, summary.TotalAssets)
	assert.Equal(t, len(ids)-cfg.Comparison.Capacity, full)
}

func TestOpen_Errors(t *testing.T) {
	logger := log.New(io.Discard, "", 0)

	t.Run("unknown backend", func(t *testing.T) {
		cfg := &config.Config{Store: config.StoreConfig{Backend: "sqlite"}}

		_, err := Open(cfg, logger)

		assert.Error(t, err)
	})

	t.Run("unknown currency", func(t *testing.T) {
		mr, err := miniredis.Run()
		require.NoError(t, err)
		defer mr.Close()
		cfg := testConfig(t, mr)
		cfg.Report.Currency = "NOPE"

		_, err = Open(cfg, logger)

		assert.Error(t, err)
	})
}

func TestNewServices_DefaultCapacity(t *testing.T) {
	cfg := &config.Config{Report: config.ReportConfig{Currency: "EUR", FractionDigits: 2}}

	services, err := NewServices(Repositories{}, cfg, nil)

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultComparisonCapacity, services.Comparison.Capacity)
	assert.NoError(t, services.Close())
}
