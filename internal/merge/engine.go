package merge

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"

	"github.com/dStensland/LostCity-sub008/internal/domain"
)

// ProvenanceReader answers "which tier most recently wrote field F on entity
// E". Backed by the append-only enrichment log in production.
type ProvenanceReader interface {
	LatestFieldTier(ctx context.Context, entityType, entityID, field string) (domain.Tier, bool, error)
}

// Engine reconciles field-level conflicts between an existing row and an
// incoming candidate. The trust ladder and strategy table are injected at
// construction; there is no hidden global priority state.
type Engine struct {
	ladder     domain.Ladder
	strategies map[string]Strategy
	provenance ProvenanceReader
	logger     *slog.Logger
}

func NewEngine(ladder domain.Ladder, strategies map[string]Strategy, provenance ProvenanceReader, logger *slog.Logger) *Engine {
	return &Engine{
		ladder:     ladder,
		strategies: strategies,
		provenance: provenance,
		logger:     logger,
	}
}

// Merge returns the subset of proposed fields that survive the priority gate
// and the per-field strategies, with the values to write. An empty result
// means the whole apply is a no-op for the caller — skipped, not failed.
//
// Per field: an empty proposal is dropped. If the field has recorded
// provenance, the tiers arbitrate alone: a strictly higher recorded tier
// blocks the write (a clobber, by contract not an error), an equal or lower
// one yields to the candidate. Only fields with no provenance yet fall
// through to the declarative strategy table. Values equal to what is already
// stored are dropped either way, which is what makes a re-apply idempotent.
func (e *Engine) Merge(ctx context.Context, entityType, entityID string, existing, proposed map[string]any, tier domain.Tier) (map[string]any, error) {
	applied := make(map[string]any)

	for field, value := range proposed {
		if domain.IsEmptyField(value) {
			continue
		}

		hasProvenance := false
		if entityID != "" && e.provenance != nil {
			recorded, found, err := e.provenance.LatestFieldTier(ctx, entityType, entityID, field)
			if err != nil {
				return nil, fmt.Errorf("reading provenance for %s.%s: %w", entityType, field, err)
			}
			if found && e.ladder.Outranks(recorded, tier) {
				e.logger.Debug("field blocked by higher-trust provenance",
					"entity_type", entityType,
					"entity_id", entityID,
					"field", field,
					"recorded_tier", recorded,
					"candidate_tier", tier,
				)
				continue
			}
			hasProvenance = found
		}

		var next any
		write := false
		if hasProvenance {
			// Candidate tier matches or beats the recorded writer.
			next, write = value, true
		} else {
			strategy, ok := e.strategies[field]
			if !ok {
				strategy = FillIfEmpty
			}
			next, write = apply(strategy, existing[field], value)
		}

		if !write {
			continue
		}
		if reflect.DeepEqual(next, existing[field]) {
			continue
		}
		applied[field] = next
	}

	return applied, nil
}
