package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"pulseboard/internal/domain"
)

// pageFromQuery extracts a PageRequest from max_results/page_token query
// parameters. Absent or unparsable max_results falls back to the default.
func pageFromQuery(r *http.Request) domain.PageRequest {
	p := domain.PageRequest{PageToken: r.URL.Query().Get("page_token")}
	if raw := r.URL.Query().Get("max_results"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			p.MaxResults = n
		}
	}
	return p
}

// dashboardIDParam parses the {dashboardID} route parameter.
func dashboardIDParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "dashboardID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, domain.ErrValidation("invalid dashboard id %q", raw)
	}
	return id, nil
}

// mustPrincipal returns the authenticated principal. The auth middleware
// guarantees one on every route this is called from.
func mustPrincipal(r *http.Request) domain.Principal {
	p, _ := domain.PrincipalFromContext(r.Context())
	return p
}
