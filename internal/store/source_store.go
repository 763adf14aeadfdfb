package store

import (
	"context"
	"fmt"

	"github.com/dStensland/LostCity-sub008/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// GetOrCreateSource registers an adapter's source on first contact.
// Idempotent by the unique slug, same discipline as venues.
func (s *PostgresStore) GetOrCreateSource(ctx context.Context, slug, name, kind string) (*domain.Source, error) {
	var src domain.Source
	err := s.pool.QueryRow(ctx, `
		INSERT INTO sources (id, slug, name, kind)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (slug) DO UPDATE SET slug = EXCLUDED.slug
		RETURNING id, slug, name, kind, is_active, rate_limit_per_second, created_at
	`, uuid.NewString(), slug, name, kind).Scan(
		&src.ID, &src.Slug, &src.Name, &src.Kind, &src.IsActive,
		&src.RateLimitPerSecond, &src.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("getting or creating source: %w", err)
	}
	return &src, nil
}

func (s *PostgresStore) GetSourceBySlug(ctx context.Context, slug string) (*domain.Source, error) {
	var src domain.Source
	err := s.pool.QueryRow(ctx, `
		SELECT id, slug, name, kind, is_active, rate_limit_per_second, created_at
		FROM sources WHERE slug = $1
	`, slug).Scan(
		&src.ID, &src.Slug, &src.Name, &src.Kind, &src.IsActive,
		&src.RateLimitPerSecond, &src.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("querying source: %w", err)
	}
	return &src, nil
}

func (s *PostgresStore) ListSources(ctx context.Context) ([]domain.Source, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, slug, name, kind, is_active, rate_limit_per_second, created_at
		FROM sources
		ORDER BY slug
	`)
	if err != nil {
		return nil, fmt.Errorf("querying sources: %w", err)
	}
	defer rows.Close()

	var sources []domain.Source
	for rows.Next() {
		var src domain.Source
		err := rows.Scan(
			&src.ID, &src.Slug, &src.Name, &src.Kind, &src.IsActive,
			&src.RateLimitPerSecond, &src.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning source: %w", err)
		}
		sources = append(sources, src)
	}

	if sources == nil {
		sources = []domain.Source{}
	}

	return sources, nil
}
