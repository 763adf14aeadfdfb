// Package enrich is the safety harness around pluggable per-entity update
// functions: idempotency checks, priority-aware writes, audit logging, and
// completeness rescoring.
package enrich

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/dStensland/LostCity-sub008/internal/domain"
)

// Func proposes field updates for a venue snapshot. Returning an empty map
// (or nil) means the enricher has nothing to add for this entity.
type Func func(ctx context.Context, v *domain.Venue) (map[string]any, error)

// Enrichment is one registered capability: a typed entry in the startup
// table, not a string resolved ad hoc.
type Enrichment struct {
	// Type is the label operators and the audit log refer to.
	Type string
	// Tier is the trust level this enricher's writes carry.
	Tier domain.Tier
	// SkipIfPresent lists fields that, when all already non-empty, make a
	// run a safe no-op. Re-running a finished enrichment is always safe.
	SkipIfPresent []string
	// Timeout bounds one invocation. Enrichers that reach the network get a
	// deadline from the harness; a timeout is just another enricher error.
	Timeout time.Duration
	// Fn does the work.
	Fn Func
}

// Registry holds the enrichment table. It is built once at startup and
// read-only afterwards, so lookups need no locking.
type Registry struct {
	entries map[string]Enrichment
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Enrichment)}
}

func (r *Registry) Register(e Enrichment) error {
	if e.Type == "" {
		return fmt.Errorf("enrichment type is required")
	}
	if e.Fn == nil {
		return fmt.Errorf("enrichment %q has no function", e.Type)
	}
	if _, exists := r.entries[e.Type]; exists {
		return fmt.Errorf("enrichment %q already registered", e.Type)
	}
	r.entries[e.Type] = e
	return nil
}

func (r *Registry) Get(enrichmentType string) (Enrichment, bool) {
	e, ok := r.entries[enrichmentType]
	return e, ok
}

// Types returns the registered labels in stable order.
func (r *Registry) Types() []string {
	types := make([]string, 0, len(r.entries))
	for t := range r.entries {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
