package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/simaogato/assetval-backend/internal/domain"
)

// PostgreSQL error codes
const (
	uniqueViolation     = pq.ErrorCode("23505")
	foreignKeyViolation = pq.ErrorCode("23503")
)

// comparisonRepository implements domain.ComparisonRepository
type comparisonRepository struct {
	db *DB
}

// NewComparisonRepository creates a new comparison repository
func NewComparisonRepository(db *DB) domain.ComparisonRepository {
	return &comparisonRepository{db: db}
}

// Add appends a valuation to the comparison set
func (r *comparisonRepository) Add(ctx context.Context, id uuid.UUID, capacity int) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		// SHARE ROW EXCLUSIVE conflicts with itself: concurrent adds run one
		// at a time while plain reads continue
		if _, err := tx.ExecContext(ctx, `LOCK TABLE comparison_items IN SHARE ROW EXCLUSIVE MODE`); err != nil {
			return fmt.Errorf("failed to lock comparison items: %w", err)
		}

		var (
			exists  bool
			count   int
			present bool
		)
		err := tx.QueryRowContext(ctx, `
			SELECT EXISTS (SELECT 1 FROM valuations WHERE id = $1),
			       count(*),
			       COALESCE(bool_or(valuation_id = $1), false)
			FROM comparison_items
		`, id).Scan(&exists, &count, &present)
		if err != nil {
			return fmt.Errorf("failed to count comparison items: %w", err)
		}
		if !exists {
			return fmt.Errorf("valuation %s: %w", id, domain.ErrNotFound)
		}
		if present {
			return fmt.Errorf("%w: %s", domain.ErrAlreadyInComparison, id)
		}
		if count >= capacity {
			return fmt.Errorf("%w: at most %d assets", domain.ErrComparisonFull, capacity)
		}

		_, err = tx.ExecContext(ctx, `INSERT INTO comparison_items (valuation_id) VALUES ($1)`, id)
		return translateInsertError(id, err)
	})
}

// translateInsertError maps constraint violations of a comparison insert to domain errors
func translateInsertError(id uuid.UUID, err error) error {
	if err == nil {
		return nil
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case uniqueViolation:
			return fmt.Errorf("%w: %s", domain.ErrAlreadyInComparison, id)
		case foreignKeyViolation:
			return fmt.Errorf("valuation %s: %w", id, domain.ErrNotFound)
		}
	}
	return fmt.Errorf("failed to add comparison item: %w", err)
}

// Remove removes a valuation from the comparison set
func (r *comparisonRepository) Remove(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM comparison_items WHERE valuation_id = $1`, id); err != nil {
		return fmt.Errorf("failed to remove comparison item: %w", err)
	}
	return nil
}

// List returns the compared valuation IDs in insertion order
func (r *comparisonRepository) List(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT valuation_id FROM comparison_items ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query comparison items: %w", err)
	}
	defer rows.Close()

	ids := []uuid.UUID{}
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan comparison item: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating comparison items: %w", err)
	}

	return ids, nil
}

// Clear empties the comparison set
func (r *comparisonRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM comparison_items`); err != nil {
		return fmt.Errorf("failed to clear comparison: %w", err)
	}
	return nil
}
