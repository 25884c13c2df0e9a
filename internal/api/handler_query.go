package api

import (
	"net/http"
)

type queryRequest struct {
	DashboardID string `json:"dashboardId"`
	Query       string `json:"query"`
}

// executeQuery runs a dashboard query and returns the result envelope. The
// same envelope is broadcast to the dashboard's subscribers, so a client
// holding both this response and a stream subscription can deduplicate by
// queryId.
func (h *Handler) executeQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := readJSON(r, w, &req); err != nil {
		writeError(w, err)
		return
	}

	env, err := h.app.Queries.Execute(r.Context(), mustPrincipal(r), req.DashboardID, req.Query)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, env)
}
