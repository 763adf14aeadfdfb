package api

import (
	"encoding/json"
	"net/http"

	"github.com/dStensland/LostCity-sub008/internal/store"
)

type SourceHandler struct {
	store *store.PostgresStore
}

func NewSourceHandler(s *store.PostgresStore) *SourceHandler {
	return &SourceHandler{store: s}
}

type registerSourceRequest struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
	Kind string `json:"kind"`
}

// Register is get-or-create by slug, called by adapters on startup.
func (h *SourceHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerSourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Slug == "" {
		respondError(w, http.StatusBadRequest, "slug is required")
		return
	}
	if req.Kind == "" {
		req.Kind = "crawler"
	}

	src, err := h.store.GetOrCreateSource(r.Context(), req.Slug, req.Name, req.Kind)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to register source")
		return
	}

	respondJSON(w, http.StatusCreated, src)
}

func (h *SourceHandler) List(w http.ResponseWriter, r *http.Request) {
	sources, err := h.store.ListSources(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list sources")
		return
	}

	respondJSON(w, http.StatusOK, sources)
}
