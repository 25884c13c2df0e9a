// Package api provides the HTTP and WebSocket handlers for the Pulseboard
// REST API.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"pulseboard/internal/app"
	"pulseboard/internal/config"
	"pulseboard/internal/middleware"
)

// Handler carries the services behind the HTTP surface.
type Handler struct {
	app    *app.App
	cfg    *config.Config
	logger *slog.Logger
}

// NewHandler creates a Handler over the wired application.
func NewHandler(a *app.App, cfg *config.Config, logger *slog.Logger) *Handler {
	return &Handler{app: a, cfg: cfg, logger: logger.With("component", "api")}
}

// Router builds the chi router with the full middleware chain and all
// routes. Registration, login, and health are public; everything else
// requires a verified bearer token.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   h.cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(middleware.RateLimiter(middleware.RateLimitConfig{
		RequestsPerSecond: h.cfg.RateLimitRPS,
		Burst:             h.cfg.RateLimitBurst,
	}))

	r.Get("/healthz", h.health)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/auth/register", h.register)
		r.Post("/auth/login", h.login)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(h.app.Verifier))

			r.Post("/query", h.executeQuery)
			r.Get("/stream", h.stream)

			r.Route("/dashboards", func(r chi.Router) {
				r.Get("/", h.listDashboards)
				r.Post("/", h.createDashboard)
				r.Get("/{dashboardID}", h.getDashboard)
				r.Delete("/{dashboardID}", h.deleteDashboard)
				r.Get("/{dashboardID}/history", h.listHistory)
			})

			r.Get("/metrics", h.listMetrics)
			r.Get("/metrics/{name}", h.getMetric)
		})
	})

	return r
}

type healthResponse struct {
	Status   string `json:"status"`
	Cache    string `json:"cache"`
	Executor string `json:"executor"`
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok", Cache: "disabled", Executor: "unconfigured"}
	if h.app.Cache.Enabled() {
		resp.Cache = "enabled"
	}
	if h.cfg.Executor.URL != "" {
		resp.Executor = "configured"
	}
	writeJSON(w, http.StatusOK, resp)
}
