package redis

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/simaogato/assetval-backend/internal/domain"
)

// addToComparison appends ARGV[1] to the list KEYS[1] unless the valuation
// document KEYS[2] does not exist (-1), it is already present (0) or the list
// already holds ARGV[2] items (-2)
var addToComparison = goredis.NewScript(`
if redis.call('EXISTS', KEYS[2]) == 0 then
	return -1
end
local items = redis.call('LRANGE', KEYS[1], 0, -1)
for _, item in ipairs(items) do
	if item == ARGV[1] then
		return 0
	end
end
if #items >= tonumber(ARGV[2]) then
	return -2
end
redis.call('RPUSH', KEYS[1], ARGV[1])
return 1
`)

// comparisonRepository implements domain.ComparisonRepository on the comparisonAssets list
type comparisonRepository struct {
	client *goredis.Client
}

// NewComparisonRepository creates a new comparison repository
func NewComparisonRepository(client *goredis.Client) domain.ComparisonRepository {
	return &comparisonRepository{client: client}
}

func (r *comparisonRepository) Add(ctx context.Context, id uuid.UUID, capacity int) error {
	member := id.String()
	added, err := addToComparison.Run(ctx, r.client, []string{comparisonKey, valuationKey(member)}, member, capacity).Int()
	if err != nil {
		return fmt.Errorf("failed to add comparison item: %w", err)
	}

	switch added {
	case -1:
		return fmt.Errorf("valuation %s: %w", id, domain.ErrNotFound)
	case 0:
		return fmt.Errorf("%w: %s", domain.ErrAlreadyInComparison, id)
	case -2:
		return fmt.Errorf("%w: at most %d assets", domain.ErrComparisonFull, capacity)
	}
	return nil
}

func (r *comparisonRepository) Remove(ctx context.Context, id uuid.UUID) error {
	if err := r.client.LRem(ctx, comparisonKey, 0, id.String()).Err(); err != nil {
		return fmt.Errorf("failed to remove comparison item: %w", err)
	}
	return nil
}

func (r *comparisonRepository) List(ctx context.Context) ([]uuid.UUID, error) {
	members, err := r.client.LRange(ctx, comparisonKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list comparison items: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(members))
	for _, member := range members {
		id, err := uuid.Parse(member)
		if err != nil {
			return nil, fmt.Errorf("invalid comparison item %q: %w", member, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (r *comparisonRepository) Clear(ctx context.Context) error {
	if err := r.client.Del(ctx, comparisonKey).Err(); err != nil {
		return fmt.Errorf("failed to clear comparison: %w", err)
	}
	return nil
}
