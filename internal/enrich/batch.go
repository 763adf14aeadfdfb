package enrich

import (
	"context"
	"fmt"

	"github.com/dStensland/LostCity-sub008/internal/engine"
)

// Batch defaults for the operator entry point.
const (
	DefaultMaxScore = 60
	DefaultLimit    = 100
)

// BatchOptions selects and shapes one batch run.
type BatchOptions struct {
	Type      string `json:"type"`
	MaxScore  int    `json:"max_score"`
	Limit     int    `json:"limit"`
	DryRun    bool   `json:"dry_run"`
	Principal string `json:"principal"`
}

// BatchResult aggregates per-entity outcomes. Processed always equals the
// sum of the other three.
type BatchResult struct {
	Processed int `json:"processed"`
	Updated   int `json:"updated"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
}

// RunBatch selects the N lowest-scoring venues below the ceiling, weakest
// first, and runs the enrichment on each. A single entity's failure never
// stops the batch; only infrastructure errors abort.
func (r *Runner) RunBatch(ctx context.Context, opts BatchOptions) (BatchResult, error) {
	var result BatchResult

	e, ok := r.registry.Get(opts.Type)
	if !ok {
		return result, fmt.Errorf("unknown enrichment type %q", opts.Type)
	}

	maxScore := opts.MaxScore
	if maxScore <= 0 {
		maxScore = DefaultMaxScore
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	venues, err := r.venues.ListVenuesBelowQuality(ctx, maxScore, limit)
	if err != nil {
		return result, fmt.Errorf("selecting batch venues: %w", err)
	}

	runOpts := RunOptions{DryRun: opts.DryRun, Principal: opts.Principal}

	for i := range venues {
		run, err := r.Run(ctx, venues[i].ID, e, runOpts)
		if err != nil {
			return result, fmt.Errorf("enriching venue %s: %w", venues[i].ID, err)
		}

		result.Processed++
		switch run.Status {
		case StatusUpdated:
			result.Updated++
		case StatusFailed:
			result.Failed++
		default:
			result.Skipped++
		}
	}

	r.logger.Info("batch enrichment complete",
		"enrichment_type", opts.Type,
		"processed", result.Processed,
		"updated", result.Updated,
		"skipped", result.Skipped,
		"failed", result.Failed,
		"dry_run", opts.DryRun,
	)

	return result, nil
}

// RunJob executes one queued job from the background dispatcher. Outcomes
// are logged rather than returned; the queue has no completion channel.
func (r *Runner) RunJob(ctx context.Context, job engine.EnrichmentJob) {
	e, ok := r.registry.Get(job.EnrichmentType)
	if !ok {
		r.logger.Warn("queued job references unknown enrichment type",
			"enrichment_type", job.EnrichmentType,
			"venue_id", job.VenueID,
		)
		return
	}

	run, err := r.Run(ctx, job.VenueID, e, RunOptions{Principal: "worker"})
	if err != nil {
		r.logger.Error("queued enrichment run failed",
			"error", err,
			"venue_id", job.VenueID,
			"enrichment_type", job.EnrichmentType,
		)
		return
	}

	r.logger.Debug("queued enrichment run finished",
		"venue_id", job.VenueID,
		"enrichment_type", job.EnrichmentType,
		"status", run.Status,
	)
}
