package api

import (
	"net/http"

	"github.com/dStensland/LostCity-sub008/internal/engine"
	"github.com/dStensland/LostCity-sub008/internal/store"
	ws "github.com/dStensland/LostCity-sub008/internal/websocket"
)

type MetricsHandler struct {
	store     *store.PostgresStore
	scheduler *engine.Scheduler
	hub       *ws.Hub
}

func NewMetricsHandler(s *store.PostgresStore, scheduler *engine.Scheduler, hub *ws.Hub) *MetricsHandler {
	return &MetricsHandler{store: s, scheduler: scheduler, hub: hub}
}

// Metrics returns aggregated catalog health statistics.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	metrics, err := h.store.GetCatalogMetrics(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to get metrics")
		return
	}

	queueDepth, err := h.scheduler.QueueDepth(r.Context())
	if err != nil {
		queueDepth = 0
	}

	type metricsResponse struct {
		store.CatalogMetrics
		QueueDepth       int64 `json:"queue_depth"`
		WebSocketClients int   `json:"websocket_clients"`
	}

	respondJSON(w, http.StatusOK, metricsResponse{
		CatalogMetrics:   *metrics,
		QueueDepth:       queueDepth,
		WebSocketClients: h.hub.ClientCount(),
	})
}
