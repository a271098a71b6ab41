package record

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"

	"genescreen/internal/screening/models"
	"genescreen/pkg/platform/sentinel"
)

var snapshotWriteDurationMs = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "genescreen_record_snapshot_write_duration_ms",
	Help:    "Latency of record cache snapshot writes in milliseconds",
	Buckets: []float64{0.5, 1, 2.5, 5, 10, 25, 50, 100},
})

const snapshotKey = "genescreen:records:snapshot"

// RedisStore is a Redis-backed record cache for distributed deployments where
// multiple instances share one view of the ledger. The whole set is stored
// under a single key, so a refresh replaces it with one atomic SET and readers
// never observe a partial set.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) ReplaceAll(ctx context.Context, records []models.ScreeningRecord) error {
	start := time.Now()
	defer func() {
		snapshotWriteDurationMs.Observe(float64(time.Since(start).Microseconds()) / 1000.0)
	}()

	payload, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshal record snapshot: %w", err)
	}
	if err := s.client.Set(ctx, snapshotKey, payload, 0).Err(); err != nil {
		return fmt.Errorf("write record snapshot: %w", err)
	}
	return nil
}

func (s *RedisStore) Find(ctx context.Context, id int64) (*models.ScreeningRecord, error) {
	records, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, r := range records {
		if r.ID == id {
			return &r, nil
		}
	}
	return nil, fmt.Errorf("record %d: %w", id, sentinel.ErrNotFound)
}

func (s *RedisStore) List(ctx context.Context) ([]models.ScreeningRecord, error) {
	raw, err := s.client.Get(ctx, snapshotKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read record snapshot: %w", err)
	}
	var records []models.ScreeningRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("decode record snapshot: %w", err)
	}
	return records, nil
}
