package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"pulseboard/internal/domain"
	"pulseboard/internal/service/metrics"
)

type metricSummary struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Unit        string `json:"unit"`
}

type metricListResponse struct {
	Metrics []metricSummary `json:"metrics"`
}

func (h *Handler) listMetrics(w http.ResponseWriter, r *http.Request) {
	names := h.app.Metrics.Names()
	out := make([]metricSummary, 0, len(names))
	for _, name := range names {
		m, err := h.app.Metrics.Get(name)
		if err != nil {
			writeError(w, err)
			return
		}
		out = append(out, metricSummary{Name: m.Name, Description: m.Description, Unit: m.Unit})
	}
	writeJSON(w, http.StatusOK, metricListResponse{Metrics: out})
}

type metricResponse struct {
	metrics.Metric
	Table *domain.TableData `json:"table,omitempty"`
}

// getMetric returns one catalog metric. With ?format=table the series is
// also rendered in the tabular shape query results use.
func (h *Handler) getMetric(w http.ResponseWriter, r *http.Request) {
	m, err := h.app.Metrics.Get(chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, err)
		return
	}

	resp := metricResponse{Metric: m}
	if r.URL.Query().Get("format") == "table" {
		table := m.Table()
		resp.Table = &table
	}
	writeJSON(w, http.StatusOK, resp)
}
