package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strconv"

	"github.com/dStensland/LostCity-sub008/internal/dedup"
	"github.com/dStensland/LostCity-sub008/internal/domain"
	"github.com/dStensland/LostCity-sub008/internal/engine"
	"github.com/dStensland/LostCity-sub008/internal/merge"
	"github.com/dStensland/LostCity-sub008/internal/quality"
	"github.com/dStensland/LostCity-sub008/internal/store"
	"github.com/go-chi/chi/v5"
)

// EventHandler ingests candidate records from adapters and answers catalog
// queries. One ingest runs the whole reconciliation path: validate, resolve,
// then insert or merge.
type EventHandler struct {
	store     *store.PostgresStore
	resolver  *dedup.Resolver
	merger    *merge.Engine
	limiter   *engine.RateLimiter
	scheduler *engine.Scheduler
	types     []string
}

func NewEventHandler(s *store.PostgresStore, resolver *dedup.Resolver, merger *merge.Engine,
	limiter *engine.RateLimiter, scheduler *engine.Scheduler, enrichmentTypes []string) *EventHandler {
	return &EventHandler{
		store:     s,
		resolver:  resolver,
		merger:    merger,
		limiter:   limiter,
		scheduler: scheduler,
		types:     enrichmentTypes,
	}
}

type ingestResponse struct {
	Verdict       dedup.Verdict `json:"verdict"`
	EventID       string        `json:"event_id"`
	AppliedFields []string      `json:"applied_fields"`
	QualityScore  int           `json:"quality_score"`
}

// Ingest accepts a draft from an adapter and reconciles it into the catalog.
func (h *EventHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var draft domain.EventDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := draft.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if draft.SourceSlug != "" {
		src, err := h.store.GetSourceBySlug(ctx, draft.SourceSlug)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "failed to look up source")
			return
		}
		if src != nil {
			if !src.IsActive {
				respondError(w, http.StatusForbidden, "source is disabled")
				return
			}
			if !h.limiter.Allow(ctx, src.Slug, src.RateLimitPerSecond) {
				respondError(w, http.StatusTooManyRequests, "source rate limit exceeded")
				return
			}
			if draft.SourceTier == "" {
				draft.SourceTier = src.DefaultTier()
			}
		}
	}
	if draft.SourceTier == "" {
		draft.SourceTier = domain.TierAutomatedCrawl
	}

	venue, venueCreated, err := h.resolveVenue(r, &draft)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to resolve venue")
		return
	}
	draft.VenueID = venue.ID

	verdict, err := h.resolver.Resolve(ctx, &draft, dedup.ResolveOptions{
		Fuzzy:              true,
		CanonicalVenueName: venue.Name,
	})
	if err != nil {
		var vErr *domain.ValidationError
		if errors.As(err, &vErr) {
			respondError(w, http.StatusBadRequest, vErr.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to resolve candidate")
		return
	}

	switch verdict.Kind {
	case dedup.VerdictNew:
		h.insertNew(w, r, &draft, venue, venueCreated, verdict)
	default:
		h.mergeExisting(w, r, &draft, verdict)
	}
}

// resolveVenue gets or lazily creates the draft's venue. Creation is
// idempotent on slug, so racing adapters converge on one row.
func (h *EventHandler) resolveVenue(r *http.Request, draft *domain.EventDraft) (*domain.Venue, bool, error) {
	slug := draft.VenueSlug
	if slug == "" {
		slug = dedup.Slugify(draft.VenueName)
	}

	return h.store.GetOrCreateVenue(r.Context(), domain.CreateVenueRequest{
		Name: draft.VenueName,
		Slug: slug,
	})
}

// initialProvenance builds the audit entry that marks which tier wrote a
// freshly created row's populated fields. Without it, the first writer's tier
// is forgotten and any later candidate would face the strategy table instead
// of tier arbitration. Returns nil when nothing was populated.
func initialProvenance(entityType, entityID string, tier domain.Tier, performedBy string, fields map[string]any) *domain.EnrichmentLogEntry {
	names := make([]string, 0, len(fields))
	for name, value := range fields {
		if domain.IsEmptyField(value) {
			continue
		}
		names = append(names, name)
	}
	if len(names) == 0 {
		return nil
	}
	sort.Strings(names)

	return &domain.EnrichmentLogEntry{
		EntityType:     entityType,
		EntityID:       entityID,
		EnrichmentType: "initial_ingest",
		Status:         domain.LogSuccess,
		SourceTier:     tier,
		UpdatedFields:  names,
		PerformedBy:    performedBy,
	}
}

func (h *EventHandler) seedProvenance(ctx context.Context, entityType, entityID string, draft *domain.EventDraft, fields map[string]any) error {
	entry := initialProvenance(entityType, entityID, draft.SourceTier, draft.SourceSlug, fields)
	if entry == nil {
		return nil
	}
	return h.store.AppendEnrichmentLog(ctx, entry)
}

func (h *EventHandler) insertNew(w http.ResponseWriter, r *http.Request, draft *domain.EventDraft, venue *domain.Venue, venueCreated bool, verdict dedup.Verdict) {
	ctx := r.Context()

	event := draft.ToEvent(dedup.DraftFingerprint(draft))
	event.QualityScore = quality.Score(event.Fields(), quality.EventWeights())

	inserted, err := h.store.InsertEvent(ctx, event)
	if err != nil {
		if store.IsUniqueViolation(err) {
			// Lost the insert race: the hash now exists, so this is a
			// duplicate delivery, not a failure.
			existing, lookupErr := h.store.GetEventByHash(ctx, event.ContentHash)
			if lookupErr != nil || existing == nil {
				respondError(w, http.StatusInternalServerError, "failed to resolve insert conflict")
				return
			}
			h.mergeExisting(w, r, draft, dedup.Verdict{Kind: dedup.VerdictExists, EventID: existing.ID})
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to insert event")
		return
	}

	// Record who wrote the initial fields so later lower-tier candidates are
	// arbitrated by tier, not by the strategy table.
	if err := h.seedProvenance(ctx, domain.EntityEvent, inserted.ID, draft, inserted.Fields()); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to record provenance")
		return
	}
	if venueCreated {
		if err := h.seedProvenance(ctx, domain.EntityVenue, venue.ID, draft, venue.Fields()); err != nil {
			respondError(w, http.StatusInternalServerError, "failed to record provenance")
			return
		}
	}

	// New content for a sparse venue means enrichment may have something to do.
	if h.scheduler != nil {
		if _, err := h.scheduler.ScheduleVenue(ctx, venue, h.types); err != nil {
			// Scheduling is best effort; the batch path re-selects anyway.
			respondJSON(w, http.StatusCreated, ingestResponse{
				Verdict:       verdict,
				EventID:       inserted.ID,
				AppliedFields: []string{},
				QualityScore:  inserted.QualityScore,
			})
			return
		}
	}

	respondJSON(w, http.StatusCreated, ingestResponse{
		Verdict:       verdict,
		EventID:       inserted.ID,
		AppliedFields: []string{},
		QualityScore:  inserted.QualityScore,
	})
}

// mergeExisting runs the field merge engine against an already-stored row and
// applies whatever survives the priority gate and strategies.
func (h *EventHandler) mergeExisting(w http.ResponseWriter, r *http.Request, draft *domain.EventDraft, verdict dedup.Verdict) {
	ctx := r.Context()

	existing, err := h.store.GetEvent(ctx, verdict.EventID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load existing event")
		return
	}
	if existing == nil {
		respondError(w, http.StatusNotFound, "event vanished during merge")
		return
	}

	existingFields := existing.Fields()
	applied, err := h.merger.Merge(ctx, domain.EntityEvent, existing.ID, existingFields, draft.Fields(), draft.SourceTier)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to merge candidate")
		return
	}

	score := existing.QualityScore
	fieldNames := []string{}

	if len(applied) > 0 {
		previous := make(map[string]any, len(applied))
		for name := range applied {
			fieldNames = append(fieldNames, name)
			previous[name] = existingFields[name]
		}

		if err := h.store.UpdateEventFields(ctx, existing.ID, applied); err != nil {
			respondError(w, http.StatusInternalServerError, "failed to apply merge")
			return
		}

		if err := h.store.AppendEnrichmentLog(ctx, &domain.EnrichmentLogEntry{
			EntityType:     domain.EntityEvent,
			EntityID:       existing.ID,
			EnrichmentType: "adapter_merge",
			Status:         domain.LogSuccess,
			SourceTier:     draft.SourceTier,
			UpdatedFields:  fieldNames,
			PreviousValues: previous,
			PerformedBy:    draft.SourceSlug,
		}); err != nil {
			respondError(w, http.StatusInternalServerError, "failed to record merge")
			return
		}

		merged := make(map[string]any, len(existingFields))
		for k, v := range existingFields {
			merged[k] = v
		}
		for k, v := range applied {
			merged[k] = v
		}
		score = quality.Score(merged, quality.EventWeights())
		if err := h.store.SetEventQuality(ctx, existing.ID, score); err != nil {
			respondError(w, http.StatusInternalServerError, "failed to rescore event")
			return
		}
	}

	respondJSON(w, http.StatusOK, ingestResponse{
		Verdict:       verdict,
		EventID:       existing.ID,
		AppliedFields: fieldNames,
		QualityScore:  score,
	})
}

// Resolve answers with a verdict only, performing no write. Adapters use it
// to check before committing an expensive extraction.
func (h *EventHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var draft domain.EventDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := draft.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	opts := dedup.ResolveOptions{Fuzzy: true}
	slug := draft.VenueSlug
	if slug == "" {
		slug = dedup.Slugify(draft.VenueName)
	}
	venue, err := h.store.GetVenueBySlug(ctx, slug)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to look up venue")
		return
	}
	if venue != nil {
		draft.VenueID = venue.ID
		opts.CanonicalVenueName = venue.Name
	}

	verdict, err := h.resolver.Resolve(ctx, &draft, opts)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to resolve candidate")
		return
	}

	respondJSON(w, http.StatusOK, verdict)
}

func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	venueID := r.URL.Query().Get("venue_id")
	limitStr := r.URL.Query().Get("limit")

	limit := 50
	if limitStr != "" {
		if n, err := strconv.Atoi(limitStr); err == nil && n > 0 {
			limit = n
		}
	}

	events, err := h.store.ListEvents(r.Context(), venueID, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list events")
		return
	}

	respondJSON(w, http.StatusOK, events)
}

func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	event, err := h.store.GetEvent(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to get event")
		return
	}
	if event == nil {
		respondError(w, http.StatusNotFound, "event not found")
		return
	}

	respondJSON(w, http.StatusOK, event)
}
