// Package query orchestrates dashboard query execution: validation, result
// caching, history capture, and fan-out to live subscribers.
package query

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"pulseboard/internal/cache"
	"pulseboard/internal/domain"
	"pulseboard/internal/pubsub"
)

// MaxQueryLength is the longest accepted query text in bytes.
const MaxQueryLength = 500

// QueryService runs the execute pipeline for dashboard queries.
//
//nolint:revive // Name chosen for clarity across package boundaries
type QueryService struct {
	executor domain.QueryExecutor
	cache    domain.ResultCache
	history  domain.QueryHistoryRepository
	bus      domain.Broadcaster
	ttl      time.Duration
	logger   *slog.Logger
}

// NewQueryService creates a new QueryService. ttl controls how long results
// stay cached; non-positive values fall back to the cache default.
func NewQueryService(executor domain.QueryExecutor, resultCache domain.ResultCache, history domain.QueryHistoryRepository, bus domain.Broadcaster, ttl time.Duration, logger *slog.Logger) *QueryService {
	return &QueryService{
		executor: executor,
		cache:    resultCache,
		history:  history,
		bus:      bus,
		ttl:      ttl,
		logger:   logger,
	}
}

// Execute runs a query for the given principal and dashboard.
//
// Results are served from cache when an equivalent query was executed
// recently; otherwise the executor runs it and the result is cached and
// recorded in history. Either way the envelope is broadcast to the
// dashboard's topic so every connected viewer converges on the same data.
// Envelopes carry a unique queryId so consumers receiving an envelope both
// as a direct reply and via the topic can deduplicate.
func (s *QueryService) Execute(ctx context.Context, principal domain.Principal, dashboardID, text string) (*domain.ResultEnvelope, error) {
	if dashboardID == "" {
		return nil, domain.ErrValidation("dashboard id is required")
	}
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, domain.ErrValidation("query text is required")
	}
	if len(trimmed) > MaxQueryLength {
		return nil, domain.ErrValidation("query text exceeds %d bytes", MaxQueryLength)
	}

	key := cache.Key(dashboardID, trimmed)

	if data, ok := s.cache.Get(ctx, key); ok {
		env := newEnvelope(dashboardID, data, true)
		s.bus.Publish(pubsub.Topic(dashboardID), env)
		s.logger.Debug("query served from cache", "dashboard", dashboardID, "query_id", env.QueryID)
		return env, nil
	}

	start := time.Now()
	data, err := s.executor.Execute(ctx, dashboardID, trimmed)
	if err != nil {
		s.logger.Warn("query execution failed", "dashboard", dashboardID, "error", err)
		return nil, err
	}

	s.cache.Set(ctx, key, data, s.ttl)
	s.appendHistory(ctx, principal, dashboardID, trimmed, data)

	env := newEnvelope(dashboardID, data, false)
	s.bus.Publish(pubsub.Topic(dashboardID), env)

	s.logger.Info("query executed",
		"dashboard", dashboardID,
		"query_id", env.QueryID,
		"duration_ms", time.Since(start).Milliseconds(),
		"rows", len(data.Rows),
	)
	return env, nil
}

// appendHistory records the executed query. Best-effort: a history failure
// must not fail a query that already produced results.
func (s *QueryService) appendHistory(ctx context.Context, principal domain.Principal, dashboardID, query string, data domain.TableData) {
	payload, err := json.Marshal(data)
	if err != nil {
		s.logger.Warn("encode history payload", "dashboard", dashboardID, "error", err)
		return
	}
	rec := &domain.QueryRecord{
		DashboardID: dashboardID,
		PrincipalID: principal.ID,
		Query:       query,
		Result:      string(payload),
	}
	if err := s.history.Insert(ctx, rec); err != nil {
		s.logger.Warn("append query history", "dashboard", dashboardID, "error", err)
	}
}

func newEnvelope(dashboardID string, data domain.TableData, fromCache bool) *domain.ResultEnvelope {
	return &domain.ResultEnvelope{
		QueryID:     uuid.NewString(),
		DashboardID: dashboardID,
		Data:        data,
		Timestamp:   time.Now().UnixMilli(),
		FromCache:   fromCache,
	}
}
