package redis

import (
	"context"
	"encoding/json"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	"github.com/simaogato/assetval-backend/internal/domain"
)

// reportRepository implements domain.ReportRepository on the reports list,
// newest record at the head
type reportRepository struct {
	client *goredis.Client
}

// NewReportRepository creates a new report repository
func NewReportRepository(client *goredis.Client) domain.ReportRepository {
	return &reportRepository{client: client}
}

func (r *reportRepository) Create(ctx context.Context, report *domain.Report) error {
	doc, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	if err := r.client.LPush(ctx, reportsKey, doc).Err(); err != nil {
		return fmt.Errorf("failed to insert report: %w", err)
	}
	return nil
}

func (r *reportRepository) List(ctx context.Context) ([]*domain.Report, error) {
	docs, err := r.client.LRange(ctx, reportsKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}

	reports := make([]*domain.Report, 0, len(docs))
	for _, doc := range docs {
		var report domain.Report
		if err := json.Unmarshal([]byte(doc), &report); err != nil {
			return nil, fmt.Errorf("failed to decode report: %w", err)
		}
		reports = append(reports, &report)
	}
	return reports, nil
}

func (r *reportRepository) Count(ctx context.Context) (int, error) {
	count, err := r.client.LLen(ctx, reportsKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count reports: %w", err)
	}
	return int(count), nil
}
