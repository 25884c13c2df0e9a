package api

import (
	"net/http"
	"time"

	"pulseboard/internal/domain"
)

type createDashboardRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type dashboardResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	OwnerID     int64     `json:"ownerId"`
	CreatedAt   time.Time `json:"createdAt"`
}

func dashboardToAPI(d domain.Dashboard) dashboardResponse {
	return dashboardResponse{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		OwnerID:     d.OwnerID,
		CreatedAt:   d.CreatedAt,
	}
}

func (h *Handler) createDashboard(w http.ResponseWriter, r *http.Request) {
	var req createDashboardRequest
	if err := readJSON(r, w, &req); err != nil {
		writeError(w, err)
		return
	}

	created, err := h.app.Dashboards.Create(r.Context(), mustPrincipal(r), req.Name, req.Description)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dashboardToAPI(*created))
}

type dashboardListResponse struct {
	Dashboards    []dashboardResponse `json:"dashboards"`
	TotalCount    int64               `json:"totalCount"`
	NextPageToken string              `json:"nextPageToken,omitempty"`
}

func (h *Handler) listDashboards(w http.ResponseWriter, r *http.Request) {
	page := pageFromQuery(r)
	dashboards, total, err := h.app.Dashboards.List(r.Context(), page)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]dashboardResponse, len(dashboards))
	for i, d := range dashboards {
		out[i] = dashboardToAPI(d)
	}

	writeJSON(w, http.StatusOK, dashboardListResponse{
		Dashboards:    out,
		TotalCount:    total,
		NextPageToken: domain.NextPageToken(page.Offset(), page.Limit(), total),
	})
}

func (h *Handler) getDashboard(w http.ResponseWriter, r *http.Request) {
	id, err := dashboardIDParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	d, err := h.app.Dashboards.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dashboardToAPI(*d))
}

func (h *Handler) deleteDashboard(w http.ResponseWriter, r *http.Request) {
	id, err := dashboardIDParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.app.Dashboards.Delete(r.Context(), mustPrincipal(r), id); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
