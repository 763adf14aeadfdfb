package dedup

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dStensland/LostCity-sub008/internal/domain"
)

type VerdictKind string

const (
	VerdictNew       VerdictKind = "new"
	VerdictExists    VerdictKind = "exists"
	VerdictDuplicate VerdictKind = "duplicate_of"
)

// Verdict is the resolver's answer for one candidate. EventID is set for
// exists and duplicate_of; Score is only meaningful for duplicate_of.
type Verdict struct {
	Kind    VerdictKind `json:"kind"`
	EventID string      `json:"event_id,omitempty"`
	Score   float64     `json:"score,omitempty"`
}

// EventFinder is the slice of the store the resolver needs.
type EventFinder interface {
	GetEventByHash(ctx context.Context, hash string) (*domain.Event, error)
	ListEventsByVenueDate(ctx context.Context, venueID, eventDate string) ([]domain.Event, error)
}

// ResolveOptions controls one resolution pass.
type ResolveOptions struct {
	// Fuzzy enables the scoped similarity scan after an exact-hash miss.
	Fuzzy bool
	// CanonicalVenueName is the stored venue's name, used for the venue
	// component of the similarity score. Defaults to the draft's venue name.
	CanonicalVenueName string
}

// Resolver decides whether a candidate is new, an exact duplicate, or a near
// duplicate of an already-stored event. Lookup errors propagate so a caller
// retries instead of risking a double insert under ambiguity.
type Resolver struct {
	finder EventFinder
	scorer *Scorer
	logger *slog.Logger
}

func NewResolver(finder EventFinder, scorer *Scorer, logger *slog.Logger) *Resolver {
	return &Resolver{finder: finder, scorer: scorer, logger: logger}
}

// Resolve runs the exact-hash lookup, then the optional fuzzy pass over rows
// sharing the draft's venue and date.
func (r *Resolver) Resolve(ctx context.Context, draft *domain.EventDraft, opts ResolveOptions) (Verdict, error) {
	if err := draft.Validate(); err != nil {
		return Verdict{}, err
	}

	hash := DraftFingerprint(draft)

	existing, err := r.finder.GetEventByHash(ctx, hash)
	if err != nil {
		return Verdict{}, fmt.Errorf("looking up content hash: %w", err)
	}
	if existing != nil {
		return Verdict{Kind: VerdictExists, EventID: existing.ID}, nil
	}

	if !opts.Fuzzy || draft.VenueID == "" {
		return Verdict{Kind: VerdictNew}, nil
	}

	rows, err := r.finder.ListEventsByVenueDate(ctx, draft.VenueID, draft.EventDate)
	if err != nil {
		return Verdict{}, fmt.Errorf("listing venue/date candidates: %w", err)
	}

	venueName := opts.CanonicalVenueName
	if venueName == "" {
		venueName = draft.VenueName
	}

	var best *domain.Event
	bestScore := 0.0
	for i := range rows {
		row := &rows[i]
		score := r.scorer.Score(draft.Title, draft.VenueName, draft.EventDate,
			row.Title, venueName, row.EventDate)
		if score > bestScore {
			bestScore = score
			best = row
		}
	}

	if best != nil && r.scorer.NearDuplicate(bestScore) {
		r.logger.Info("fuzzy duplicate detected",
			"event_id", best.ID,
			"score", bestScore,
			"title", draft.Title,
		)
		return Verdict{Kind: VerdictDuplicate, EventID: best.ID, Score: bestScore}, nil
	}

	return Verdict{Kind: VerdictNew}, nil
}
