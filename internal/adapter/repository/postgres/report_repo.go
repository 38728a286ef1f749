package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/simaogato/assetval-backend/internal/domain"
)

// reportRepository implements domain.ReportRepository
type reportRepository struct {
	db *DB
}

// NewReportRepository creates a new report repository
func NewReportRepository(db *DB) domain.ReportRepository {
	return &reportRepository{db: db}
}

// Create records a generated report
func (r *reportRepository) Create(ctx context.Context, report *domain.Report) error {
	query := `
		INSERT INTO reports (id, kind, title, valuation_ids, asset_names, market_value,
			liquidation_value, filename, format, generated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	valuationIDs := make([]string, len(report.ValuationIDs))
	for i, id := range report.ValuationIDs {
		valuationIDs[i] = id.String()
	}

	_, err := r.db.ExecContext(ctx, query,
		report.ID,
		string(report.Kind),
		report.Title,
		pq.Array(valuationIDs),
		pq.Array(report.AssetNames),
		report.MarketValue.String(),
		report.LiquidationValue.String(),
		report.Filename,
		string(report.Format),
		report.GeneratedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert report: %w", err)
	}

	return nil
}

// List retrieves all reports, newest first
func (r *reportRepository) List(ctx context.Context) ([]*domain.Report, error) {
	query := `
		SELECT id, kind, title, valuation_ids, asset_names, market_value,
			liquidation_value, filename, format, generated_at
		FROM reports
		ORDER BY generated_at DESC, seq DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query reports: %w", err)
	}
	defer rows.Close()

	reports := []*domain.Report{}
	for rows.Next() {
		var report domain.Report
		var kindStr, formatStr, marketValueStr, liquidationValueStr string
		var valuationIDs, assetNames []string

		err := rows.Scan(
			&report.ID,
			&kindStr,
			&report.Title,
			pq.Array(&valuationIDs),
			pq.Array(&assetNames),
			&marketValueStr,
			&liquidationValueStr,
			&report.Filename,
			&formatStr,
			&report.GeneratedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}

		report.Kind = domain.ReportKind(kindStr)
		report.Format = domain.ReportFormat(formatStr)
		report.AssetNames = assetNames
		report.GeneratedAt = report.GeneratedAt.UTC()

		report.ValuationIDs = make([]uuid.UUID, len(valuationIDs))
		for i, s := range valuationIDs {
			if report.ValuationIDs[i], err = uuid.Parse(s); err != nil {
				return nil, fmt.Errorf("failed to parse valuation id: %w", err)
			}
		}

		// Parse NUMERIC columns
		if report.MarketValue, err = decimal.NewFromString(marketValueStr); err != nil {
			return nil, fmt.Errorf("failed to parse market_value: %w", err)
		}
		if report.LiquidationValue, err = decimal.NewFromString(liquidationValueStr); err != nil {
			return nil, fmt.Errorf("failed to parse liquidation_value: %w", err)
		}

		reports = append(reports, &report)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reports: %w", err)
	}

	return reports, nil
}

// Count returns the number of generated reports
func (r *reportRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM reports`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count reports: %w", err)
	}
	return count, nil
}
