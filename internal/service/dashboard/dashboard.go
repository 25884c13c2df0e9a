// Package dashboard manages dashboard lifecycle and ownership.
package dashboard

import (
	"context"
	"log/slog"
	"strings"

	"pulseboard/internal/domain"
)

// MaxNameLength is the longest accepted dashboard name.
const MaxNameLength = 128

// DashboardService implements dashboard CRUD on top of the repository.
//
//nolint:revive // Name chosen for clarity across package boundaries
type DashboardService struct {
	repo   domain.DashboardRepository
	logger *slog.Logger
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(repo domain.DashboardRepository, logger *slog.Logger) *DashboardService {
	return &DashboardService{repo: repo, logger: logger}
}

// Create stores a new dashboard owned by the given principal.
func (s *DashboardService) Create(ctx context.Context, principal domain.Principal, name, description string) (*domain.Dashboard, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrValidation("dashboard name is required")
	}
	if len(name) > MaxNameLength {
		return nil, domain.ErrValidation("dashboard name exceeds %d characters", MaxNameLength)
	}

	created, err := s.repo.Create(ctx, &domain.Dashboard{
		Name:        name,
		Description: strings.TrimSpace(description),
		OwnerID:     principal.ID,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("dashboard created", "dashboard", created.ID, "owner", principal.ID)
	return created, nil
}

// Get returns a dashboard by id.
func (s *DashboardService) Get(ctx context.Context, id int64) (*domain.Dashboard, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns a page of dashboards with the total count.
func (s *DashboardService) List(ctx context.Context, page domain.PageRequest) ([]domain.Dashboard, int64, error) {
	return s.repo.List(ctx, page)
}

// Delete removes a dashboard. Only the owner may delete.
func (s *DashboardService) Delete(ctx context.Context, principal domain.Principal, id int64) error {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if d.OwnerID != principal.ID {
		return domain.ErrAccessDenied("only the owner can delete dashboard %d", id)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("dashboard deleted", "dashboard", id, "owner", principal.ID)
	return nil
}
