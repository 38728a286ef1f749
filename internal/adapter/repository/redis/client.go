package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Keys used by the store
const (
	valuationsKey      = "valuations"
	comparisonKey      = "comparisonAssets"
	reportsKey         = "reports"
	valuationKeyPrefix = "valuation:"
)

func valuationKey(id string) string {
	return valuationKeyPrefix + id
}

// Options configures the Redis connection
type Options struct {
	Host     string
	Port     string
	Password string
	DB       int
	PoolSize int
}

// NewClient creates a new Redis connection and checks it is reachable
func NewClient(opts Options) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:         fmt.Sprintf("%s:%s", opts.Host, opts.Port),
		Password:     opts.Password,
		DB:           opts.DB,
		PoolSize:     opts.PoolSize,
		MinIdleConns: 2,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return client, nil
}
