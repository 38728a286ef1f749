// Package app wires configuration, the selected store and the usecases
// shared by the server and the CLI.
package app

import (
	"fmt"
	"log"

	"github.com/simaogato/assetval-backend/internal/adapter/repository/postgres"
	"github.com/simaogato/assetval-backend/internal/adapter/repository/redis"
	reportformat "github.com/simaogato/assetval-backend/internal/adapter/report"
	"github.com/simaogato/assetval-backend/internal/config"
	"github.com/simaogato/assetval-backend/internal/domain"
	"github.com/simaogato/assetval-backend/internal/usecase/comparison"
	"github.com/simaogato/assetval-backend/internal/usecase/dashboard"
	"github.com/simaogato/assetval-backend/internal/usecase/report"
	"github.com/simaogato/assetval-backend/internal/usecase/seeder"
	"github.com/simaogato/assetval-backend/internal/usecase/valuation"
)

// Repositories is one store backend
type Repositories struct {
	Valuations domain.ValuationRepository
	Comparison domain.ComparisonRepository
	Reports    domain.ReportRepository
}

// Services holds the usecases over one store
type Services struct {
	Valuation  *valuation.ValuationService
	Comparison *comparison.ComparisonService
	Report     *report.ReportService
	Dashboard  *dashboard.DashboardService
	Seeder     *seeder.SampleSeeder
	Formatter  *reportformat.Formatter

	closeStore func() error
}

// Open connects to the configured store and builds the services over it.
// Postgres migrations are applied before the connection is opened.
func Open(cfg *config.Config, logger *log.Logger) (*Services, error) {
	repos, closeStore, err := OpenStore(cfg.Store, logger)
	if err != nil {
		return nil, err
	}

	services, err := NewServices(repos, cfg, logger)
	if err != nil {
		closeStore()
		return nil, err
	}
	services.closeStore = closeStore
	return services, nil
}

// OpenStore opens the repositories of the configured backend
func OpenStore(cfg config.StoreConfig, logger *log.Logger) (Repositories, func() error, error) {
	switch cfg.Backend {
	case config.BackendPostgres:
		connStr := cfg.Postgres.ConnectionString()
		if err := postgres.RunMigrations(connStr); err != nil {
			return Repositories{}, nil, err
		}
		db, err := postgres.NewDB(connStr)
		if err != nil {
			return Repositories{}, nil, err
		}
		logger.Printf("Using PostgreSQL store at %s:%s", cfg.Postgres.Host, cfg.Postgres.Port)
		return Repositories{
			Valuations: postgres.NewValuationRepository(db),
			Comparison: postgres.NewComparisonRepository(db),
			Reports:    postgres.NewReportRepository(db),
		}, db.Close, nil

	case config.BackendRedis:
		client, err := redis.NewClient(redis.Options{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.MaxConnections,
		})
		if err != nil {
			return Repositories{}, nil, err
		}
		logger.Printf("Using Redis store at %s:%s", cfg.Redis.Host, cfg.Redis.Port)
		return Repositories{
			Valuations: redis.NewValuationRepository(client),
			Comparison: redis.NewComparisonRepository(client),
			Reports:    redis.NewReportRepository(client),
		}, client.Close, nil

	default:
		return Repositories{}, nil, fmt.Errorf("unsupported store backend %q", cfg.Backend)
	}
}

// NewServices builds the usecases over repos
func NewServices(repos Repositories, cfg *config.Config, logger *log.Logger) (*Services, error) {
	if logger == nil {
		logger = log.Default()
	}

	formatter, err := reportformat.NewFormatter(cfg.Report.Currency, cfg.Report.FractionDigits)
	if err != nil {
		return nil, err
	}

	comparisonService := comparison.NewComparisonService(repos.Valuations, repos.Comparison, cfg.Comparison.Capacity, logger)

	return &Services{
		Valuation:  valuation.NewValuationService(repos.Valuations, repos.Comparison, logger),
		Comparison: comparisonService,
		Report:     report.NewReportService(repos.Valuations, repos.Reports, comparisonService, formatter, logger),
		Dashboard:  dashboard.NewDashboardService(repos.Valuations, repos.Reports),
		Seeder:     seeder.NewSampleSeeder(repos.Valuations),
		Formatter:  formatter,
		closeStore: func() error { return nil },
	}, nil
}

// Close releases the store connection
func (s *Services) Close() error {
	return s.closeStore()
}
