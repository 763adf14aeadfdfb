package worker

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/dStensland/LostCity-sub008/internal/engine"
)

// countingRunner records every job it sees.
type countingRunner struct {
	mu   sync.Mutex
	jobs []engine.EnrichmentJob
}

func (c *countingRunner) RunJob(_ context.Context, job engine.EnrichmentJob) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.jobs = append(c.jobs, job)
}

func (c *countingRunner) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.jobs)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestPool_ProcessesSubmittedJobs(t *testing.T) {
	runner := &countingRunner{}
	pool := NewPool(3, runner, testLogger())
	pool.Start(context.Background())

	for i := 0; i < 10; i++ {
		pool.Submit(engine.EnrichmentJob{VenueID: "venue-1", EnrichmentType: "address_normalize"})
	}
	pool.Stop()

	if got := runner.count(); got != 10 {
		t.Errorf("expected 10 jobs processed, got %d", got)
	}
}

func TestPool_StopWaitsForInFlightJobs(t *testing.T) {
	var processed sync.WaitGroup
	processed.Add(1)

	slow := &slowRunner{done: &processed}
	pool := NewPool(1, slow, testLogger())
	pool.Start(context.Background())

	pool.Submit(engine.EnrichmentJob{VenueID: "venue-1", EnrichmentType: "address_normalize"})
	pool.Stop()

	// Stop returning means the in-flight job completed
	waitCh := make(chan struct{})
	go func() {
		processed.Wait()
		close(waitCh)
	}()

	select {
	case <-waitCh:
	case <-time.After(time.Second):
		t.Fatal("Stop returned before the in-flight job finished")
	}
}

type slowRunner struct {
	done *sync.WaitGroup
}

func (s *slowRunner) RunJob(context.Context, engine.EnrichmentJob) {
	time.Sleep(20 * time.Millisecond)
	s.done.Done()
}

func TestPool_CancelledContextStopsWorkers(t *testing.T) {
	runner := &countingRunner{}
	ctx, cancel := context.WithCancel(context.Background())

	pool := NewPool(2, runner, testLogger())
	pool.Start(ctx)
	cancel()

	// Workers drain the channel check before running; a job submitted after
	// cancellation must not execute.
	pool.Submit(engine.EnrichmentJob{VenueID: "venue-1", EnrichmentType: "address_normalize"})
	pool.Stop()

	if got := runner.count(); got != 0 {
		t.Errorf("expected 0 jobs after cancellation, got %d", got)
	}
}
