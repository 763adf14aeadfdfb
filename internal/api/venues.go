package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/dStensland/LostCity-sub008/internal/dedup"
	"github.com/dStensland/LostCity-sub008/internal/domain"
	"github.com/dStensland/LostCity-sub008/internal/merge"
	"github.com/dStensland/LostCity-sub008/internal/store"
	"github.com/go-chi/chi/v5"
)

type VenueHandler struct {
	store      *store.PostgresStore
	provenance merge.ProvenanceReader
}

func NewVenueHandler(s *store.PostgresStore, provenance merge.ProvenanceReader) *VenueHandler {
	return &VenueHandler{store: s, provenance: provenance}
}

// Create is get-or-create by slug: repeated calls for the same slug always
// return the one canonical row.
func (h *VenueHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateVenueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.Slug == "" {
		req.Slug = dedup.Slugify(req.Name)
	}

	venue, created, err := h.store.GetOrCreateVenue(r.Context(), req)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to create venue")
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	respondJSON(w, status, venue)
}

func (h *VenueHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if n, err := strconv.Atoi(limitStr); err == nil && n > 0 {
			limit = n
		}
	}

	venues, err := h.store.ListVenues(r.Context(), limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list venues")
		return
	}

	respondJSON(w, http.StatusOK, venues)
}

func (h *VenueHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	venue, err := h.store.GetVenue(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to get venue")
		return
	}
	if venue == nil {
		respondError(w, http.StatusNotFound, "venue not found")
		return
	}

	respondJSON(w, http.StatusOK, venue)
}

type provenanceResponse struct {
	Field string      `json:"field"`
	Tier  domain.Tier `json:"tier,omitempty"`
	Found bool        `json:"found"`
}

// Provenance answers "which tier most recently wrote field F on this venue",
// the same lookup the merge engine's priority gate uses.
func (h *VenueHandler) Provenance(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	field := r.URL.Query().Get("field")
	if field == "" {
		respondError(w, http.StatusBadRequest, "field query parameter is required")
		return
	}

	tier, found, err := h.provenance.LatestFieldTier(r.Context(), domain.EntityVenue, id, field)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to query provenance")
		return
	}

	respondJSON(w, http.StatusOK, provenanceResponse{Field: field, Tier: tier, Found: found})
}
