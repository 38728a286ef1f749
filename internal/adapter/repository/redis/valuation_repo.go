package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/simaogato/assetval-backend/internal/domain"
)

// valuationRepository implements domain.ValuationRepository.
// Each valuation is a JSON document under valuation:<id>, indexed by the
// valuations sorted set scored by calculation time in microseconds.
type valuationRepository struct {
	client *goredis.Client
}

// NewValuationRepository creates a new valuation repository
func NewValuationRepository(client *goredis.Client) domain.ValuationRepository {
	return &valuationRepository{client: client}
}

// Save stores a valuation; a valuation with the same ID is left untouched
func (r *valuationRepository) Save(ctx context.Context, v *domain.ValuationResult) error {
	doc, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode valuation: %w", err)
	}

	id := v.ID.String()
	_, err = r.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.SetNX(ctx, valuationKey(id), doc, 0)
		pipe.ZAddNX(ctx, valuationsKey, goredis.Z{
			Score:  float64(v.CalculatedAt.UnixMicro()),
			Member: id,
		})
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save valuation: %w", err)
	}

	return nil
}

// GetByID retrieves a valuation by its ID
func (r *valuationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ValuationResult, error) {
	doc, err := r.client.Get(ctx, valuationKey(id.String())).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, fmt.Errorf("valuation %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get valuation: %w", err)
	}

	var v domain.ValuationResult
	if err := json.Unmarshal(doc, &v); err != nil {
		return nil, fmt.Errorf("failed to decode valuation: %w", err)
	}
	return &v, nil
}

// List retrieves a page of valuations, newest first
func (r *valuationRepository) List(ctx context.Context, limit, offset int) ([]*domain.ValuationResult, error) {
	if limit <= 0 {
		return []*domain.ValuationResult{}, nil
	}

	ids, err := r.client.ZRevRange(ctx, valuationsKey, int64(offset), int64(offset+limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list valuations: %w", err)
	}
	if len(ids) == 0 {
		return []*domain.ValuationResult{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = valuationKey(id)
	}

	docs, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load valuations: %w", err)
	}

	valuations := make([]*domain.ValuationResult, 0, len(docs))
	for _, doc := range docs {
		// A document deleted between the two reads
		s, ok := doc.(string)
		if !ok {
			continue
		}
		var v domain.ValuationResult
		if err := json.Unmarshal([]byte(s), &v); err != nil {
			return nil, fmt.Errorf("failed to decode valuation: %w", err)
		}
		valuations = append(valuations, &v)
	}

	return valuations, nil
}

// Count returns the total number of stored valuations
func (r *valuationRepository) Count(ctx context.Context) (int, error) {
	count, err := r.client.ZCard(ctx, valuationsKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count valuations: %w", err)
	}
	return int(count), nil
}

// Delete removes a valuation together with its index and comparison entries
func (r *valuationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	member := id.String()

	var deleted *goredis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		deleted = pipe.Del(ctx, valuationKey(member))
		pipe.ZRem(ctx, valuationsKey, member)
		pipe.LRem(ctx, comparisonKey, 0, member)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete valuation: %w", err)
	}

	if deleted.Val() == 0 {
		return fmt.Errorf("valuation %s: %w", id, domain.ErrNotFound)
	}
	return nil
}
