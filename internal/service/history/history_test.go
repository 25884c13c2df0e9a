package history

import (
	"context"
	"log/slog"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internaldb "pulseboard/internal/db"
	"pulseboard/internal/db/repository"
	"pulseboard/internal/domain"
	"pulseboard/internal/testutil"
)

func setupService(t *testing.T) (*HistoryService, *repository.QueryHistoryRepo) {
	t.Helper()
	writeDB, readDB := internaldb.OpenTestSQLite(t)
	repo := repository.NewQueryHistoryRepo(writeDB, readDB)
	return NewHistoryService(repo, slog.New(slog.DiscardHandler)), repo
}

func TestListByDashboard(t *testing.T) {
	svc, repo := setupService(t)
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, &domain.QueryRecord{
		DashboardID: "42",
		PrincipalID: 1,
		Query:       "revenue by month",
		Result:      `{"columns":[],"rows":[]}`,
	}))

	records, total, err := svc.ListByDashboard(ctx, "42", domain.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, records, 1)
	assert.Equal(t, "revenue by month", records[0].Query)
}

func TestListByDashboard_RequiresID(t *testing.T) {
	svc, _ := setupService(t)

	var vErr *domain.ValidationError
	_, _, err := svc.ListByDashboard(context.Background(), "", domain.PageRequest{})
	require.ErrorAs(t, err, &vErr)
}

func TestSweep(t *testing.T) {
	var gotCutoff time.Time
	repo := &testutil.MockHistoryRepo{
		PurgeFn: func(ctx context.Context, cutoff time.Time) (int64, error) {
			gotCutoff = cutoff
			return 3, nil
		},
	}

	sweeper := NewSweeper(repo, 24*time.Hour, slog.New(slog.DiscardHandler))
	sweeper.sweep()

	expected := time.Now().Add(-24 * time.Hour)
	assert.WithinDuration(t, expected, gotCutoff, 5*time.Second)
}

func TestSweeper_DisabledRetention(t *testing.T) {
	// PurgeFn unset: any sweep would panic, so Start must not schedule one.
	repo := &testutil.MockHistoryRepo{}

	sweeper := NewSweeper(repo, 0, slog.New(slog.DiscardHandler))
	require.NoError(t, sweeper.Start())
	sweeper.Stop()
}

func TestSweeper_StartAndStop(t *testing.T) {
	repo := &testutil.MockHistoryRepo{
		PurgeFn: func(ctx context.Context, cutoff time.Time) (int64, error) { return 0, nil },
	}

	sweeper := NewSweeper(repo, time.Hour, slog.New(slog.DiscardHandler))
	require.NoError(t, sweeper.Start())
	sweeper.Stop()
}
