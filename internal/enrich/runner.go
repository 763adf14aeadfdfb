package enrich

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dStensland/LostCity-sub008/internal/domain"
	"github.com/dStensland/LostCity-sub008/internal/merge"
	"github.com/dStensland/LostCity-sub008/internal/quality"
)

type RunStatus string

const (
	StatusUpdated RunStatus = "updated"
	StatusSkipped RunStatus = "skipped"
	StatusFailed  RunStatus = "failed"
)

// RunResult reports what one enrichment run did (or would do, in dry-run).
type RunResult struct {
	VenueID       string    `json:"venue_id"`
	Type          string    `json:"type"`
	Status        RunStatus `json:"status"`
	AppliedFields []string  `json:"applied_fields,omitempty"`
	Reason        string    `json:"reason,omitempty"`
	DryRun        bool      `json:"dry_run,omitempty"`
	QualityScore  int       `json:"quality_score,omitempty"`
}

// RunOptions controls a single run.
type RunOptions struct {
	DryRun    bool
	Principal string
}

// VenueStore is the slice of the persistence layer the runner needs.
type VenueStore interface {
	GetVenue(ctx context.Context, id string) (*domain.Venue, error)
	UpdateVenueFields(ctx context.Context, id string, fields map[string]any) error
	SetVenueQuality(ctx context.Context, id string, score int) error
	ListVenuesBelowQuality(ctx context.Context, maxScore, limit int) ([]domain.Venue, error)
}

// AuditStore appends to the enrichment log.
type AuditStore interface {
	AppendEnrichmentLog(ctx context.Context, e *domain.EnrichmentLogEntry) error
}

// Locker serializes runs against one entity. Nil disables locking (tests,
// single-process tools where the caller already serializes).
type Locker interface {
	Acquire(ctx context.Context, entityID string) (token string, ok bool, err error)
	Release(ctx context.Context, entityID, token string) error
}

// Breaker short-circuits enrichment types that keep failing. Nil disables it.
type Breaker interface {
	AllowRequest(ctx context.Context, enrichmentType string) (state string, allowed bool)
	RecordSuccess(ctx context.Context, enrichmentType string)
	RecordFailure(ctx context.Context, enrichmentType string)
}

// Notifier receives completed real-apply runs, e.g. for a live ops feed.
type Notifier interface {
	EnrichmentRun(venueID, enrichmentType string, status string, fields []string)
}

// Runner executes enrichments under the per-entity contract: fetch, skip
// checks, invoke with containment, merge gate, audit, rescore. Per-entity
// problems become statuses; only infrastructure errors surface as errors.
type Runner struct {
	venues   VenueStore
	audit    AuditStore
	registry *Registry
	merger   *merge.Engine
	weights  quality.Weights
	locker   Locker
	breaker  Breaker
	notifier Notifier
	logger   *slog.Logger
}

func NewRunner(venues VenueStore, audit AuditStore, registry *Registry, merger *merge.Engine, logger *slog.Logger) *Runner {
	return &Runner{
		venues:   venues,
		audit:    audit,
		registry: registry,
		merger:   merger,
		weights:  quality.VenueWeights(),
		locker:   nil,
		breaker:  nil,
		notifier: nil,
		logger:   logger,
	}
}

// WithLocker sets the per-entity lock used for real applies.
func (r *Runner) WithLocker(l Locker) *Runner {
	r.locker = l
	return r
}

// WithBreaker sets the per-type circuit breaker.
func (r *Runner) WithBreaker(b Breaker) *Runner {
	r.breaker = b
	return r
}

// WithNotifier sets the live run feed.
func (r *Runner) WithNotifier(n Notifier) *Runner {
	r.notifier = n
	return r
}

// Run executes one enrichment against one venue.
func (r *Runner) Run(ctx context.Context, venueID string, e Enrichment, opts RunOptions) (RunResult, error) {
	result := RunResult{VenueID: venueID, Type: e.Type, DryRun: opts.DryRun}

	// Dry runs write nothing, so they need no mutual exclusion.
	if r.locker != nil && !opts.DryRun {
		token, ok, err := r.locker.Acquire(ctx, venueID)
		if err != nil {
			return result, err
		}
		if !ok {
			result.Status = StatusSkipped
			result.Reason = "entity locked by another run"
			return result, nil
		}
		defer func() {
			if err := r.locker.Release(ctx, venueID, token); err != nil {
				r.logger.Error("failed to release entity lock", "error", err, "venue_id", venueID)
			}
		}()
	}

	venue, err := r.venues.GetVenue(ctx, venueID)
	if err != nil {
		return result, err
	}
	if venue == nil {
		result.Status = StatusFailed
		result.Reason = "venue not found"
		r.appendLog(ctx, &domain.EnrichmentLogEntry{
			EntityType:     domain.EntityVenue,
			EntityID:       venueID,
			EnrichmentType: e.Type,
			Status:         domain.LogFailed,
			SourceTier:     e.Tier,
			ErrorMessage:   "venue not found",
			PerformedBy:    opts.Principal,
		})
		return result, nil
	}

	if allPresent(venue.Fields(), e.SkipIfPresent) {
		result.Status = StatusSkipped
		result.Reason = "required fields already populated"
		return result, nil
	}

	if r.breaker != nil {
		if state, allowed := r.breaker.AllowRequest(ctx, e.Type); !allowed {
			result.Status = StatusSkipped
			result.Reason = fmt.Sprintf("circuit %s for enrichment type", state)
			return result, nil
		}
	}

	updates, enrichErr := r.invoke(ctx, e, venue)
	if enrichErr != nil {
		if r.breaker != nil {
			r.breaker.RecordFailure(ctx, e.Type)
		}
		result.Status = StatusFailed
		result.Reason = enrichErr.Error()
		r.logger.Warn("enricher failed",
			"venue_id", venueID,
			"enrichment_type", e.Type,
			"error", enrichErr,
		)
		r.appendLog(ctx, &domain.EnrichmentLogEntry{
			EntityType:     domain.EntityVenue,
			EntityID:       venueID,
			EnrichmentType: e.Type,
			Status:         domain.LogFailed,
			SourceTier:     e.Tier,
			ErrorMessage:   enrichErr.Error(),
			PerformedBy:    opts.Principal,
		})
		return result, nil
	}
	if r.breaker != nil {
		r.breaker.RecordSuccess(ctx, e.Type)
	}

	if len(updates) == 0 {
		result.Status = StatusSkipped
		result.Reason = "enricher returned no updates"
		return result, nil
	}

	existing := venue.Fields()
	applied, err := r.merger.Merge(ctx, domain.EntityVenue, venueID, existing, updates, e.Tier)
	if err != nil {
		return result, err
	}
	if len(applied) == 0 {
		result.Status = StatusSkipped
		result.Reason = "all fields blocked or unchanged"
		return result, nil
	}

	fieldNames := make([]string, 0, len(applied))
	for name := range applied {
		fieldNames = append(fieldNames, name)
	}

	if opts.DryRun {
		result.Status = StatusUpdated
		result.AppliedFields = fieldNames
		result.QualityScore = scoreWith(existing, applied, r.weights)
		return result, nil
	}

	previous := make(map[string]any, len(applied))
	for name := range applied {
		previous[name] = existing[name]
	}

	if err := r.venues.UpdateVenueFields(ctx, venueID, applied); err != nil {
		return result, err
	}

	if err := r.audit.AppendEnrichmentLog(ctx, &domain.EnrichmentLogEntry{
		EntityType:     domain.EntityVenue,
		EntityID:       venueID,
		EnrichmentType: e.Type,
		Status:         domain.LogSuccess,
		SourceTier:     e.Tier,
		UpdatedFields:  fieldNames,
		PreviousValues: previous,
		PerformedBy:    opts.Principal,
	}); err != nil {
		return result, err
	}

	// Rescore synchronously from the values just committed, never a cache.
	score := scoreWith(existing, applied, r.weights)
	if err := r.venues.SetVenueQuality(ctx, venueID, score); err != nil {
		return result, err
	}

	r.logger.Info("enrichment applied",
		"venue_id", venueID,
		"enrichment_type", e.Type,
		"fields", fieldNames,
		"quality_score", score,
	)
	if r.notifier != nil {
		r.notifier.EnrichmentRun(venueID, e.Type, string(StatusUpdated), fieldNames)
	}

	result.Status = StatusUpdated
	result.AppliedFields = fieldNames
	result.QualityScore = score
	return result, nil
}

// invoke calls the enricher with panic containment and the configured
// timeout. A panicking enricher must not take a batch down with it.
func (r *Runner) invoke(ctx context.Context, e Enrichment, venue *domain.Venue) (updates map[string]any, err error) {
	if e.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}

	defer func() {
		if rec := recover(); rec != nil {
			updates = nil
			err = fmt.Errorf("enricher panicked: %v", rec)
		}
	}()

	return e.Fn(ctx, venue)
}

func (r *Runner) appendLog(ctx context.Context, entry *domain.EnrichmentLogEntry) {
	if err := r.audit.AppendEnrichmentLog(ctx, entry); err != nil {
		r.logger.Error("failed to append enrichment log entry",
			"error", err,
			"entity_id", entry.EntityID,
			"enrichment_type", entry.EnrichmentType,
		)
	}
}

func allPresent(fields map[string]any, names []string) bool {
	if len(names) == 0 {
		return false
	}
	for _, name := range names {
		if domain.IsEmptyField(fields[name]) {
			return false
		}
	}
	return true
}

// scoreWith computes the completeness score for existing overlaid with the
// applied values.
func scoreWith(existing, applied map[string]any, weights quality.Weights) int {
	merged := make(map[string]any, len(existing))
	for k, v := range existing {
		merged[k] = v
	}
	for k, v := range applied {
		merged[k] = v
	}
	return quality.Score(merged, weights)
}
