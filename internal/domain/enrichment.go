package domain

import "time"

// Entity types referenced by enrichment log rows.
const (
	EntityVenue = "venue"
	EntityEvent = "event"
)

// Enrichment log statuses.
const (
	LogSuccess = "success"
	LogSkipped = "skipped"
	LogFailed  = "failed"
)

// EnrichmentLogEntry is one append-only audit row. Rows are never mutated or
// deleted; the most recent success row listing a field defines that field's
// current provenance tier.
type EnrichmentLogEntry struct {
	ID             string         `json:"id"`
	EntityType     string         `json:"entity_type"`
	EntityID       string         `json:"entity_id"`
	EnrichmentType string         `json:"enrichment_type"`
	Status         string         `json:"status"`
	SourceTier     Tier           `json:"source_tier"`
	UpdatedFields  []string       `json:"updated_fields,omitempty"`
	PreviousValues map[string]any `json:"previous_values,omitempty"`
	ErrorMessage   string         `json:"error_message,omitempty"`
	PerformedBy    string         `json:"performed_by,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}
