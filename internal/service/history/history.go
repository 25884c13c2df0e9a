// Package history exposes the per-dashboard query log and its retention
// sweeper.
package history

import (
	"context"
	"log/slog"

	"pulseboard/internal/domain"
)

// HistoryService reads the per-dashboard query log.
//
//nolint:revive // Name chosen for clarity across package boundaries
type HistoryService struct {
	repo   domain.QueryHistoryRepository
	logger *slog.Logger
}

// NewHistoryService creates a new HistoryService.
func NewHistoryService(repo domain.QueryHistoryRepository, logger *slog.Logger) *HistoryService {
	return &HistoryService{repo: repo, logger: logger}
}

// ListByDashboard returns a page of a dashboard's query log, newest first.
func (s *HistoryService) ListByDashboard(ctx context.Context, dashboardID string, page domain.PageRequest) ([]domain.QueryRecord, int64, error) {
	if dashboardID == "" {
		return nil, 0, domain.ErrValidation("dashboard id is required")
	}
	return s.repo.ListByDashboard(ctx, dashboardID, page)
}
