package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simaogato/assetval-backend/internal/domain"
)

// valuationRepository implements domain.ValuationRepository
type valuationRepository struct {
	db *DB
}

// NewValuationRepository creates a new valuation repository
func NewValuationRepository(db *DB) domain.ValuationRepository {
	return &valuationRepository{db: db}
}

const valuationColumns = `id, asset, years_owned, market_value, liquidation_value, breakdown, defaulted_fields, calculated_at`

// Save inserts a valuation; a valuation with the same ID is left untouched
func (r *valuationRepository) Save(ctx context.Context, v *domain.ValuationResult) error {
	query := `
		INSERT INTO valuations (id, asset, asset_name, category, acquisition_cost, years_owned,
			market_value, liquidation_value, breakdown, defaulted_fields, calculated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO NOTHING
	`

	asset, err := json.Marshal(v.Asset)
	if err != nil {
		return fmt.Errorf("failed to encode asset: %w", err)
	}
	breakdown, err := json.Marshal(v.Breakdown)
	if err != nil {
		return fmt.Errorf("failed to encode breakdown: %w", err)
	}
	defaulted := v.DefaultedFields
	if defaulted == nil {
		defaulted = []string{}
	}
	defaultedJSON, err := json.Marshal(defaulted)
	if err != nil {
		return fmt.Errorf("failed to encode defaulted fields: %w", err)
	}

	_, err = r.db.ExecContext(ctx, query,
		v.ID,
		string(asset),
		v.Asset.AssetName,
		string(v.Asset.Category),
		v.Asset.AcquisitionCost.String(),
		v.YearsOwned.String(),
		v.MarketValue.String(),
		v.LiquidationValue.String(),
		string(breakdown),
		string(defaultedJSON),
		v.CalculatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert valuation: %w", err)
	}

	return nil
}

// GetByID retrieves a valuation by its ID
func (r *valuationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ValuationResult, error) {
	query := `SELECT ` + valuationColumns + ` FROM valuations WHERE id = $1`

	v, err := scanValuation(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("valuation %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get valuation: %w", err)
	}

	return v, nil
}

// List retrieves a page of valuations, newest first
func (r *valuationRepository) List(ctx context.Context, limit, offset int) ([]*domain.ValuationResult, error) {
	query := `
		SELECT ` + valuationColumns + `
		FROM valuations
		ORDER BY calculated_at DESC, seq DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query valuations: %w", err)
	}
	defer rows.Close()

	valuations := []*domain.ValuationResult{}
	for rows.Next() {
		v, err := scanValuation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan valuation: %w", err)
		}
		valuations = append(valuations, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating valuations: %w", err)
	}

	return valuations, nil
}

// Count returns the total number of stored valuations
func (r *valuationRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM valuations`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count valuations: %w", err)
	}
	return count, nil
}

// Delete removes a valuation; comparison entries referencing it cascade
func (r *valuationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM valuations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete valuation: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("valuation %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanValuation(row rowScanner) (*domain.ValuationResult, error) {
	var v domain.ValuationResult
	var assetJSON, breakdownJSON, defaultedJSON []byte
	var yearsOwnedStr, marketValueStr, liquidationValueStr string

	err := row.Scan(
		&v.ID,
		&assetJSON,
		&yearsOwnedStr,
		&marketValueStr,
		&liquidationValueStr,
		&breakdownJSON,
		&defaultedJSON,
		&v.CalculatedAt,
	)
	if err != nil {
		return nil, err
	}
	v.CalculatedAt = v.CalculatedAt.UTC()

	if err := json.Unmarshal(assetJSON, &v.Asset); err != nil {
		return nil, fmt.Errorf("failed to decode asset: %w", err)
	}
	if err := json.Unmarshal(breakdownJSON, &v.Breakdown); err != nil {
		return nil, fmt.Errorf("failed to decode breakdown: %w", err)
	}
	if err := json.Unmarshal(defaultedJSON, &v.DefaultedFields); err != nil {
		return nil, fmt.Errorf("failed to decode defaulted fields: %w", err)
	}
	if len(v.DefaultedFields) == 0 {
		v.DefaultedFields = nil
	}

	// Parse NUMERIC columns
	if v.YearsOwned, err = decimal.NewFromString(yearsOwnedStr); err != nil {
		return nil, fmt.Errorf("failed to parse years_owned: %w", err)
	}
	if v.MarketValue, err = decimal.NewFromString(marketValueStr); err != nil {
		return nil, fmt.Errorf("failed to parse market_value: %w", err)
	}
	if v.LiquidationValue, err = decimal.NewFromString(liquidationValueStr); err != nil {
		return nil, fmt.Errorf("failed to parse liquidation_value: %w", err)
	}

	return &v, nil
}
