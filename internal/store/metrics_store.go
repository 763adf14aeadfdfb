package store

import (
	"context"
	"fmt"
)

// CatalogMetrics holds aggregated catalog health statistics.
type CatalogMetrics struct {
	TotalEvents       int     `json:"total_events"`
	TotalVenues       int     `json:"total_venues"`
	AvgVenueQuality   float64 `json:"avg_venue_quality"`
	AvgEventQuality   float64 `json:"avg_event_quality"`
	EnrichmentSuccess int     `json:"enrichment_success"`
	EnrichmentFailed  int     `json:"enrichment_failed"`
	ActiveSources     int     `json:"active_sources"`
}

// GetCatalogMetrics returns aggregated catalog statistics from the database.
func (s *PostgresStore) GetCatalogMetrics(ctx context.Context) (*CatalogMetrics, error) {
	var m CatalogMetrics

	err := s.pool.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(AVG(quality_score), 0) FROM events
	`).Scan(&m.TotalEvents, &m.AvgEventQuality)
	if err != nil {
		return nil, fmt.Errorf("querying event metrics: %w", err)
	}

	err = s.pool.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(AVG(quality_score), 0) FROM venues
	`).Scan(&m.TotalVenues, &m.AvgVenueQuality)
	if err != nil {
		return nil, fmt.Errorf("querying venue metrics: %w", err)
	}

	err = s.pool.QueryRow(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE status = 'success'),
			COUNT(*) FILTER (WHERE status = 'failed')
		FROM enrichment_log
	`).Scan(&m.EnrichmentSuccess, &m.EnrichmentFailed)
	if err != nil {
		return nil, fmt.Errorf("querying enrichment metrics: %w", err)
	}

	err = s.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM sources WHERE is_active = true
	`).Scan(&m.ActiveSources)
	if err != nil {
		return nil, fmt.Errorf("querying active sources: %w", err)
	}

	return &m, nil
}
