package domain

import (
	"context"
	"time"
)

// UserRepository persists registered accounts.
type UserRepository interface {
	Create(ctx context.Context, email, passwordHash string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
}

// DashboardRepository persists dashboards.
type DashboardRepository interface {
	Create(ctx context.Context, d *Dashboard) (*Dashboard, error)
	GetByID(ctx context.Context, id int64) (*Dashboard, error)
	List(ctx context.Context, page PageRequest) ([]Dashboard, int64, error)
	Delete(ctx context.Context, id int64) error
}

// QueryHistoryRepository persists one record per fresh query execution.
type QueryHistoryRepository interface {
	Insert(ctx context.Context, rec *QueryRecord) error
	ListByDashboard(ctx context.Context, dashboardID string, page PageRequest) ([]QueryRecord, int64, error)
	// PurgeOlderThan removes records created before cutoff and returns how
	// many were deleted.
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
