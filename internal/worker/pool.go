package worker

import (
	"context"
	"log/slog"
	"sync"

	"github.com/dStensland/LostCity-sub008/internal/engine"
)

// JobRunner executes one enrichment job. Implemented by enrich.Runner.
type JobRunner interface {
	RunJob(ctx context.Context, job engine.EnrichmentJob)
}

// Pool manages a fixed number of worker goroutines that process enrichment
// jobs. Parallelism lives here, at the driver level — each run is still a
// synchronous per-entity unit, and the entity lock keeps two workers off the
// same venue.
type Pool struct {
	numWorkers int
	jobs       chan engine.EnrichmentJob
	runner     JobRunner
	logger     *slog.Logger
	wg         sync.WaitGroup
}

// NewPool creates a worker pool with the given number of workers.
func NewPool(numWorkers int, runner JobRunner, logger *slog.Logger) *Pool {
	return &Pool{
		numWorkers: numWorkers,
		jobs:       make(chan engine.EnrichmentJob, numWorkers*2),
		runner:     runner,
		logger:     logger,
	}
}

// Start launches all worker goroutines. They read from the jobs channel
// until it is closed or the context is cancelled.
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(ctx)
	}
	p.logger.Info("enrichment worker pool started", "num_workers", p.numWorkers)
}

// Submit sends a job to the worker pool via the jobs channel.
func (p *Pool) Submit(job engine.EnrichmentJob) {
	p.jobs <- job
}

// Stop closes the jobs channel and waits for all workers to finish.
func (p *Pool) Stop() {
	close(p.jobs)
	p.wg.Wait()
	p.logger.Info("enrichment worker pool stopped")
}

// worker is a single goroutine that processes jobs from the channel.
func (p *Pool) worker(ctx context.Context) {
	defer p.wg.Done()

	for job := range p.jobs {
		select {
		case <-ctx.Done():
			return
		default:
			p.runner.RunJob(ctx, job)
		}
	}
}
