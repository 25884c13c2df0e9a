// Package app wires repositories, services, and the subscription registry
// into the application the API handler and CLI serve.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"pulseboard/internal/auth"
	"pulseboard/internal/config"
	"pulseboard/internal/db/repository"
	"pulseboard/internal/domain"
	"pulseboard/internal/executor"
	"pulseboard/internal/pubsub"
	"pulseboard/internal/service/account"
	"pulseboard/internal/service/dashboard"
	"pulseboard/internal/service/history"
	"pulseboard/internal/service/metrics"
	"pulseboard/internal/service/query"
)

// Deps holds the external dependencies that main() must provide: database
// handles, config, the result cache, and the logger. Executor may be left
// nil to build the HTTP executor from config; tests inject fakes here.
type Deps struct {
	Cfg      *config.Config
	WriteDB  *sql.DB
	ReadDB   *sql.DB
	Cache    domain.ResultCache
	Executor domain.QueryExecutor
	Logger   *slog.Logger
}

// App holds the fully-wired application.
type App struct {
	Accounts   *account.AccountService
	Dashboards *dashboard.DashboardService
	Queries    *query.QueryService
	History    *history.HistoryService
	Metrics    *metrics.Catalog
	Registry   *pubsub.Registry
	Verifier   auth.TokenVerifier
	Issuer     *auth.Issuer
	Sweeper    *history.Sweeper
	Cache      domain.ResultCache
}

// New wires all repositories and services from the provided deps.
func New(ctx context.Context, deps Deps) (*App, error) {
	cfg := deps.Cfg

	// === Repositories ===
	userRepo := repository.NewUserRepo(deps.WriteDB)
	dashboardRepo := repository.NewDashboardRepo(deps.WriteDB)
	historyRepo := repository.NewQueryHistoryRepo(deps.WriteDB, deps.ReadDB)

	// === Credential verification ===
	// OIDC when an issuer is configured, shared-secret HS256 otherwise.
	// Tokens minted at login are always HS256.
	var verifier auth.TokenVerifier
	if cfg.Auth.OIDCEnabled() {
		oidcVerifier, err := auth.NewOIDCVerifier(ctx, cfg.Auth.IssuerURL, cfg.Auth.Audience)
		if err != nil {
			return nil, fmt.Errorf("oidc verifier: %w", err)
		}
		verifier = oidcVerifier
		deps.Logger.Info("token verification via OIDC", "issuer", cfg.Auth.IssuerURL)
	} else {
		verifier = auth.NewHS256Verifier(cfg.Auth.JWTSecret)
	}
	issuer := auth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	// === Query execution ===
	exec := deps.Executor
	if exec == nil {
		exec = executor.NewHTTPExecutor(
			cfg.Executor.URL, cfg.Executor.Token, cfg.Executor.Timeout,
			deps.Logger.With("component", "executor"),
		)
	}

	// === Metric catalog ===
	catalog, err := metrics.Load()
	if err != nil {
		return nil, fmt.Errorf("metric catalog: %w", err)
	}

	// === Services ===
	registry := pubsub.NewRegistry()
	querySvc := query.NewQueryService(
		exec, deps.Cache, historyRepo, registry, cfg.Cache.TTL,
		deps.Logger.With("component", "query"),
	)
	accountSvc := account.NewAccountService(userRepo, issuer, deps.Logger.With("component", "account"))
	dashboardSvc := dashboard.NewDashboardService(dashboardRepo, deps.Logger.With("component", "dashboard"))
	historySvc := history.NewHistoryService(historyRepo, deps.Logger.With("component", "history"))
	sweeper := history.NewSweeper(historyRepo, cfg.HistoryRetention, deps.Logger.With("component", "history-sweeper"))

	return &App{
		Accounts:   accountSvc,
		Dashboards: dashboardSvc,
		Queries:    querySvc,
		History:    historySvc,
		Metrics:    catalog,
		Registry:   registry,
		Verifier:   verifier,
		Issuer:     issuer,
		Sweeper:    sweeper,
		Cache:      deps.Cache,
	}, nil
}
