package store

import (
	"context"
	"fmt"

	"github.com/dStensland/LostCity-sub008/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const venueColumns = `id, name, slug, address, latitude, longitude, venue_type, website,
	description, image_url, quality_score, created_at, updated_at`

func scanVenue(row pgx.Row) (*domain.Venue, error) {
	var v domain.Venue
	err := row.Scan(
		&v.ID, &v.Name, &v.Slug, &v.Address, &v.Latitude, &v.Longitude,
		&v.VenueType, &v.Website, &v.Description, &v.ImageURL, &v.QualityScore,
		&v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// GetOrCreateVenue resolves a venue by slug, creating it on first reference.
// The ON CONFLICT no-op update makes the call idempotent under concurrency:
// repeated calls for the same slug always return the one canonical row. The
// second return reports whether this call created the row — (xmax = 0) holds
// only for a fresh insert, never for the conflict update.
func (s *PostgresStore) GetOrCreateVenue(ctx context.Context, req domain.CreateVenueRequest) (*domain.Venue, bool, error) {
	row := s.pool.QueryRow(ctx, fmt.Sprintf(`
		INSERT INTO venues (id, name, slug, address, latitude, longitude, venue_type, website)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (slug) DO UPDATE SET slug = EXCLUDED.slug
		RETURNING %s, (xmax = 0)
	`, venueColumns),
		uuid.NewString(), req.Name, req.Slug, req.Address, req.Latitude,
		req.Longitude, req.VenueType, req.Website,
	)

	var v domain.Venue
	var created bool
	err := row.Scan(
		&v.ID, &v.Name, &v.Slug, &v.Address, &v.Latitude, &v.Longitude,
		&v.VenueType, &v.Website, &v.Description, &v.ImageURL, &v.QualityScore,
		&v.CreatedAt, &v.UpdatedAt, &created,
	)
	if err != nil {
		return nil, false, fmt.Errorf("getting or creating venue: %w", err)
	}
	return &v, created, nil
}

func (s *PostgresStore) GetVenue(ctx context.Context, id string) (*domain.Venue, error) {
	row := s.pool.QueryRow(ctx, fmt.Sprintf(`SELECT %s FROM venues WHERE id = $1`, venueColumns), id)
	v, err := scanVenue(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("querying venue: %w", err)
	}
	return v, nil
}

func (s *PostgresStore) GetVenueBySlug(ctx context.Context, slug string) (*domain.Venue, error) {
	row := s.pool.QueryRow(ctx, fmt.Sprintf(`SELECT %s FROM venues WHERE slug = $1`, venueColumns), slug)
	v, err := scanVenue(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("querying venue by slug: %w", err)
	}
	return v, nil
}

func (s *PostgresStore) ListVenues(ctx context.Context, limit int) ([]domain.Venue, error) {
	query := fmt.Sprintf(`SELECT %s FROM venues ORDER BY name`, venueColumns)
	args := []interface{}{}

	if limit > 0 {
		query += " LIMIT $1"
		args = append(args, limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying venues: %w", err)
	}
	defer rows.Close()

	return collectVenues(rows)
}

// ListVenuesBelowQuality selects the batch-enrichment work set: the N
// lowest-scoring venues under the ceiling, weakest first. An interrupted
// batch needs no cleanup — the next invocation re-selects naturally.
func (s *PostgresStore) ListVenuesBelowQuality(ctx context.Context, maxScore, limit int) ([]domain.Venue, error) {
	rows, err := s.pool.Query(ctx, fmt.Sprintf(`
		SELECT %s FROM venues
		WHERE quality_score < $1
		ORDER BY quality_score ASC, created_at ASC
		LIMIT $2
	`, venueColumns), maxScore, limit)
	if err != nil {
		return nil, fmt.Errorf("querying low-quality venues: %w", err)
	}
	defer rows.Close()

	return collectVenues(rows)
}

func collectVenues(rows pgx.Rows) ([]domain.Venue, error) {
	var venues []domain.Venue
	for rows.Next() {
		v, err := scanVenue(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning venue: %w", err)
		}
		venues = append(venues, *v)
	}

	if venues == nil {
		venues = []domain.Venue{}
	}

	return venues, nil
}

// UpdateVenueFields applies an already-merged field set.
func (s *PostgresStore) UpdateVenueFields(ctx context.Context, id string, fields map[string]any) error {
	return s.updateFields(ctx, "venues", venueFieldColumns, id, fields)
}

// SetVenueQuality writes back a freshly computed completeness score.
func (s *PostgresStore) SetVenueQuality(ctx context.Context, id string, score int) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE venues SET quality_score = $1, updated_at = NOW() WHERE id = $2
	`, score, id)
	if err != nil {
		return fmt.Errorf("updating venue quality: %w", err)
	}
	return nil
}

var venueFieldColumns = map[string]struct{}{
	"name":        {},
	"address":     {},
	"latitude":    {},
	"longitude":   {},
	"venue_type":  {},
	"website":     {},
	"description": {},
	"image_url":   {},
}
