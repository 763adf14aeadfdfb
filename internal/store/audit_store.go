package store

import (
	"context"
	"fmt"

	"github.com/dStensland/LostCity-sub008/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// AppendEnrichmentLog writes one append-only audit row. Entries are never
// updated or deleted; concurrent writers need no ordering.
func (s *PostgresStore) AppendEnrichmentLog(ctx context.Context, e *domain.EnrichmentLogEntry) error {
	var errMsg *string
	if e.ErrorMessage != "" {
		errMsg = &e.ErrorMessage
	}

	err := s.pool.QueryRow(ctx, `
		INSERT INTO enrichment_log (id, entity_type, entity_id, enrichment_type, status,
			source_tier, updated_fields, previous_values, error_message, performed_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at
	`, uuid.NewString(), e.EntityType, e.EntityID, e.EnrichmentType, e.Status,
		string(e.SourceTier), e.UpdatedFields, e.PreviousValues, errMsg, e.PerformedBy,
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting enrichment log entry: %w", err)
	}
	return nil
}

// LatestFieldTier returns the tier recorded on the most recent success entry
// that lists the field in its updated set — the field's current provenance.
func (s *PostgresStore) LatestFieldTier(ctx context.Context, entityType, entityID, field string) (domain.Tier, bool, error) {
	var tier string
	err := s.pool.QueryRow(ctx, `
		SELECT source_tier FROM enrichment_log
		WHERE entity_type = $1
		  AND entity_id = $2
		  AND status = 'success'
		  AND $3 = ANY(updated_fields)
		ORDER BY created_at DESC
		LIMIT 1
	`, entityType, entityID, field).Scan(&tier)
	if err != nil {
		if err == pgx.ErrNoRows {
			return "", false, nil
		}
		return "", false, fmt.Errorf("querying field provenance: %w", err)
	}
	return domain.Tier(tier), true, nil
}

// ListEnrichmentLog returns recent audit rows for one entity, newest first.
func (s *PostgresStore) ListEnrichmentLog(ctx context.Context, entityType, entityID string, limit int) ([]domain.EnrichmentLogEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, entity_type, entity_id, enrichment_type, status, source_tier,
			updated_fields, previous_values, COALESCE(error_message, ''), performed_by, created_at
		FROM enrichment_log
		WHERE entity_type = $1 AND entity_id = $2
		ORDER BY created_at DESC
		LIMIT $3
	`, entityType, entityID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying enrichment log: %w", err)
	}
	defer rows.Close()

	var entries []domain.EnrichmentLogEntry
	for rows.Next() {
		var e domain.EnrichmentLogEntry
		var tier string
		err := rows.Scan(
			&e.ID, &e.EntityType, &e.EntityID, &e.EnrichmentType, &e.Status, &tier,
			&e.UpdatedFields, &e.PreviousValues, &e.ErrorMessage, &e.PerformedBy, &e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning enrichment log entry: %w", err)
		}
		e.SourceTier = domain.Tier(tier)
		entries = append(entries, e)
	}

	if entries == nil {
		entries = []domain.EnrichmentLogEntry{}
	}

	return entries, nil
}
