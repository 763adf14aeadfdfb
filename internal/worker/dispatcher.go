package worker

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/dStensland/LostCity-sub008/internal/engine"
	"github.com/redis/go-redis/v9"
)

// Dispatcher continuously drains the Redis enrichment queue and hands jobs
// to the worker pool. The queue is scored by quality, so the weakest venues
// are always claimed first.
type Dispatcher struct {
	redisClient  *redis.Client
	pool         *Pool
	logger       *slog.Logger
	pollInterval time.Duration
	batchSize    int64
	done         chan struct{}
}

// NewDispatcher creates a dispatcher that pulls from the Redis sorted set.
func NewDispatcher(redisClient *redis.Client, pool *Pool, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		redisClient:  redisClient,
		pool:         pool,
		logger:       logger,
		pollInterval: time.Second,
		batchSize:    10,
		done:         make(chan struct{}),
	}
}

// Start begins the polling loop. It runs until the context is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	defer close(d.done)

	d.logger.Info("enrichment dispatcher started")

	ticker := time.NewTicker(d.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("enrichment dispatcher stopping")
			return
		case <-ticker.C:
			d.poll(ctx)
		}
	}
}

// Wait blocks until Start has returned. The pool's job channel must not be
// closed before this unblocks, or a mid-poll Submit would panic.
func (d *Dispatcher) Wait() {
	<-d.done
}

// poll claims a batch of the lowest-scored jobs and submits them to workers.
func (d *Dispatcher) poll(ctx context.Context) {
	results, err := d.redisClient.ZRangeByScoreWithScores(ctx, engine.EnrichmentQueueKey, &redis.ZRangeBy{
		Min:   "-inf",
		Max:   "+inf",
		Count: d.batchSize,
	}).Result()
	if err != nil {
		d.logger.Error("failed to poll enrichment queue", "error", err)
		return
	}

	if len(results) == 0 {
		return
	}

	for _, z := range results {
		member := z.Member.(string)

		// Remove from queue — if another dispatcher already took it, ZRem returns 0
		removed, err := d.redisClient.ZRem(ctx, engine.EnrichmentQueueKey, member).Result()
		if err != nil {
			d.logger.Error("failed to remove job from queue", "error", err)
			continue
		}
		if removed == 0 {
			// Another dispatcher instance already claimed this job
			continue
		}

		var job engine.EnrichmentJob
		if err := json.Unmarshal([]byte(member), &job); err != nil {
			d.logger.Error("failed to unmarshal enrichment job", "error", err)
			continue
		}

		d.pool.Submit(job)
	}
}
