package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/dStensland/LostCity-sub008/internal/enrich"
	"github.com/dStensland/LostCity-sub008/internal/store"
)

type EnrichmentHandler struct {
	store  *store.PostgresStore
	runner *enrich.Runner
}

func NewEnrichmentHandler(s *store.PostgresStore, runner *enrich.Runner) *EnrichmentHandler {
	return &EnrichmentHandler{store: s, runner: runner}
}

// RunBatch triggers one operator-driven batch over the lowest-quality venues.
func (h *EnrichmentHandler) RunBatch(w http.ResponseWriter, r *http.Request) {
	var opts enrich.BatchOptions
	if err := json.NewDecoder(r.Body).Decode(&opts); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if opts.Type == "" {
		respondError(w, http.StatusBadRequest, "type is required")
		return
	}
	if opts.Principal == "" {
		opts.Principal = "api"
	}

	result, err := h.runner.RunBatch(r.Context(), opts)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Log lists recent audit rows for one entity, newest first.
func (h *EnrichmentHandler) Log(w http.ResponseWriter, r *http.Request) {
	entityType := r.URL.Query().Get("entity_type")
	entityID := r.URL.Query().Get("entity_id")
	if entityType == "" || entityID == "" {
		respondError(w, http.StatusBadRequest, "entity_type and entity_id are required")
		return
	}

	limit := 50
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if n, err := strconv.Atoi(limitStr); err == nil && n > 0 {
			limit = n
		}
	}

	entries, err := h.store.ListEnrichmentLog(r.Context(), entityType, entityID, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list enrichment log")
		return
	}

	respondJSON(w, http.StatusOK, entries)
}
