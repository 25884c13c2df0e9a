package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"pulseboard/internal/domain"
)

type queryRecordResponse struct {
	ID          int64           `json:"id"`
	DashboardID string          `json:"dashboardId"`
	PrincipalID int64           `json:"principalId"`
	Query       string          `json:"query"`
	Result      json.RawMessage `json:"result"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type historyListResponse struct {
	Records       []queryRecordResponse `json:"records"`
	TotalCount    int64                 `json:"totalCount"`
	NextPageToken string                `json:"nextPageToken,omitempty"`
}

// listHistory returns a dashboard's query log, newest first. The stored
// result JSON is embedded raw rather than re-encoded.
func (h *Handler) listHistory(w http.ResponseWriter, r *http.Request) {
	id, err := dashboardIDParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	dashboardID := strconv.FormatInt(id, 10)

	page := pageFromQuery(r)
	records, total, err := h.app.History.ListByDashboard(r.Context(), dashboardID, page)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]queryRecordResponse, len(records))
	for i, rec := range records {
		result := json.RawMessage(rec.Result)
		if !json.Valid(result) {
			result = json.RawMessage("null")
		}
		out[i] = queryRecordResponse{
			ID:          rec.ID,
			DashboardID: rec.DashboardID,
			PrincipalID: rec.PrincipalID,
			Query:       rec.Query,
			Result:      result,
			CreatedAt:   rec.CreatedAt,
		}
	}

	writeJSON(w, http.StatusOK, historyListResponse{
		Records:       out,
		TotalCount:    total,
		NextPageToken: domain.NextPageToken(page.Offset(), page.Limit(), total),
	})
}
