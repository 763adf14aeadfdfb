package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/dStensland/LostCity-sub008/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const eventColumns = `id, title, venue_id, event_date, start_time, end_time, category, tags,
	price_min, price_max, is_free, description, image_url, ticket_url, source_url,
	confidence, content_hash, is_recurring, recurrence_rule, source_slug, quality_score,
	created_at, updated_at`

// IsUniqueViolation reports whether err is a Postgres unique-constraint
// violation. Callers racing to insert the same content hash reinterpret this
// as "exists", never as a failure.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func scanEvent(row pgx.Row) (*domain.Event, error) {
	var e domain.Event
	err := row.Scan(
		&e.ID, &e.Title, &e.VenueID, &e.EventDate, &e.StartTime, &e.EndTime,
		&e.Category, &e.Tags, &e.PriceMin, &e.PriceMax, &e.IsFree, &e.Description,
		&e.ImageURL, &e.TicketURL, &e.SourceURL, &e.Confidence, &e.ContentHash,
		&e.IsRecurring, &e.RecurrenceRule, &e.SourceSlug, &e.QualityScore,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// InsertEvent creates the canonical row for a content hash. The unique
// constraint on content_hash serializes concurrent inserts of the same logical
// event; the caller checks IsUniqueViolation on the returned error.
func (s *PostgresStore) InsertEvent(ctx context.Context, e *domain.Event) (*domain.Event, error) {
	row := s.pool.QueryRow(ctx, fmt.Sprintf(`
		INSERT INTO events (id, title, venue_id, event_date, start_time, end_time, category, tags,
			price_min, price_max, is_free, description, image_url, ticket_url, source_url,
			confidence, content_hash, is_recurring, recurrence_rule, source_slug, quality_score)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
		RETURNING %s
	`, eventColumns),
		uuid.NewString(), e.Title, e.VenueID, e.EventDate, e.StartTime, e.EndTime,
		e.Category, e.Tags, e.PriceMin, e.PriceMax, e.IsFree, e.Description,
		e.ImageURL, e.TicketURL, e.SourceURL, e.Confidence, e.ContentHash,
		e.IsRecurring, e.RecurrenceRule, e.SourceSlug, e.QualityScore,
	)

	inserted, err := scanEvent(row)
	if err != nil {
		if IsUniqueViolation(err) {
			return nil, err
		}
		return nil, fmt.Errorf("inserting event: %w", err)
	}
	return inserted, nil
}

func (s *PostgresStore) GetEvent(ctx context.Context, id string) (*domain.Event, error) {
	row := s.pool.QueryRow(ctx, fmt.Sprintf(`SELECT %s FROM events WHERE id = $1`, eventColumns), id)
	e, err := scanEvent(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("querying event: %w", err)
	}
	return e, nil
}

func (s *PostgresStore) GetEventByHash(ctx context.Context, hash string) (*domain.Event, error) {
	row := s.pool.QueryRow(ctx, fmt.Sprintf(`SELECT %s FROM events WHERE content_hash = $1`, eventColumns), hash)
	e, err := scanEvent(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("querying event by hash: %w", err)
	}
	return e, nil
}

// ListEventsByVenueDate returns all rows sharing a venue and exact date, the
// scope of the fuzzy duplicate scan.
func (s *PostgresStore) ListEventsByVenueDate(ctx context.Context, venueID, eventDate string) ([]domain.Event, error) {
	rows, err := s.pool.Query(ctx, fmt.Sprintf(`
		SELECT %s FROM events
		WHERE venue_id = $1 AND event_date = $2
		ORDER BY created_at
	`, eventColumns), venueID, eventDate)
	if err != nil {
		return nil, fmt.Errorf("querying venue/date events: %w", err)
	}
	defer rows.Close()

	return collectEvents(rows)
}

func (s *PostgresStore) ListEvents(ctx context.Context, venueID string, limit int) ([]domain.Event, error) {
	query := fmt.Sprintf(`SELECT %s FROM events`, eventColumns)
	args := []interface{}{}
	argIdx := 1

	if venueID != "" {
		query += fmt.Sprintf(" WHERE venue_id = $%d", argIdx)
		args = append(args, venueID)
		argIdx++
	}

	query += " ORDER BY event_date DESC, created_at DESC"

	if limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIdx)
		args = append(args, limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying events: %w", err)
	}
	defer rows.Close()

	return collectEvents(rows)
}

func collectEvents(rows pgx.Rows) ([]domain.Event, error) {
	var events []domain.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		events = append(events, *e)
	}

	if events == nil {
		events = []domain.Event{}
	}

	return events, nil
}

// UpdateEventFields applies an already-merged field set. Keys are column
// names; anything outside the merge vocabulary is rejected.
func (s *PostgresStore) UpdateEventFields(ctx context.Context, id string, fields map[string]any) error {
	return s.updateFields(ctx, "events", eventFieldColumns, id, fields)
}

// SetEventQuality writes back a freshly computed completeness score.
func (s *PostgresStore) SetEventQuality(ctx context.Context, id string, score int) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE events SET quality_score = $1, updated_at = NOW() WHERE id = $2
	`, score, id)
	if err != nil {
		return fmt.Errorf("updating event quality: %w", err)
	}
	return nil
}

var eventFieldColumns = map[string]struct{}{
	"title":       {},
	"start_time":  {},
	"end_time":    {},
	"category":    {},
	"tags":        {},
	"price_min":   {},
	"price_max":   {},
	"is_free":     {},
	"description": {},
	"image_url":   {},
	"ticket_url":  {},
	"source_url":  {},
	"confidence":  {},
}
