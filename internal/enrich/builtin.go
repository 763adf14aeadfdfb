package enrich

import (
	"context"
	"strings"
	"time"

	"github.com/dStensland/LostCity-sub008/internal/domain"
)

// RegisterBuiltins installs the enrichments that ship with the catalog
// itself. Site adapters register their own entries next to these at startup.
func RegisterBuiltins(r *Registry) error {
	return r.Register(Enrichment{
		Type:    "address_normalize",
		Tier:    domain.TierScrapedHeuristics,
		Timeout: 5 * time.Second,
		Fn:      normalizeAddress,
	})
}

// normalizeAddress cleans up whitespace and stray punctuation in scraped
// addresses. Pure function of the snapshot; proposes nothing when the
// address is already clean.
func normalizeAddress(_ context.Context, v *domain.Venue) (map[string]any, error) {
	if v.Address == "" {
		return nil, nil
	}

	cleaned := strings.Join(strings.Fields(v.Address), " ")
	cleaned = strings.Trim(cleaned, " ,;")

	if cleaned == v.Address || cleaned == "" {
		return nil, nil
	}

	return map[string]any{"address": cleaned}, nil
}
