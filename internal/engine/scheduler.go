package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/dStensland/LostCity-sub008/internal/domain"
	"github.com/dStensland/LostCity-sub008/internal/store"
	"github.com/redis/go-redis/v9"
)

const EnrichmentQueueKey = "enrichment_queue"

// EnrichmentJob represents one pending enrichment run queued in Redis.
type EnrichmentJob struct {
	VenueID        string `json:"venue_id"`
	EnrichmentType string `json:"enrichment_type"`
}

// Scheduler queues enrichment work for venues whose completeness is below the
// ceiling. Jobs live in a sorted set scored by quality so the dispatcher
// always drains the weakest rows first. Scheduling the same (venue, type)
// pair twice just rescores the existing member, which keeps the queue
// idempotent across repeated ingests.
type Scheduler struct {
	redisStore *store.RedisStore
	logger     *slog.Logger
	ceiling    int
}

func NewScheduler(rs *store.RedisStore, ceiling int, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		redisStore: rs,
		logger:     logger,
		ceiling:    ceiling,
	}
}

// ScheduleVenue queues one job per enrichment type for a venue below the
// quality ceiling. Returns the number of jobs queued.
func (s *Scheduler) ScheduleVenue(ctx context.Context, venue *domain.Venue, enrichmentTypes []string) (int, error) {
	if venue.QualityScore >= s.ceiling || len(enrichmentTypes) == 0 {
		return 0, nil
	}

	// Use a Redis pipeline to batch-insert all jobs
	pipe := s.redisStore.Client().Pipeline()

	queued := 0
	for _, enrichmentType := range enrichmentTypes {
		job := EnrichmentJob{
			VenueID:        venue.ID,
			EnrichmentType: enrichmentType,
		}

		jobBytes, err := json.Marshal(job)
		if err != nil {
			s.logger.Error("failed to marshal enrichment job", "error", err, "venue_id", venue.ID)
			continue
		}

		pipe.ZAdd(ctx, EnrichmentQueueKey, redis.Z{
			Score:  float64(venue.QualityScore),
			Member: string(jobBytes),
		})
		queued++
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("queuing enrichment jobs to redis: %w", err)
	}

	s.logger.Info("enrichment scheduled",
		"venue_id", venue.ID,
		"quality_score", venue.QualityScore,
		"jobs_queued", queued,
	)

	return queued, nil
}

// QueueDepth returns the current number of jobs waiting in the enrichment queue.
func (s *Scheduler) QueueDepth(ctx context.Context) (int64, error) {
	return s.redisStore.Client().ZCard(ctx, EnrichmentQueueKey).Result()
}
