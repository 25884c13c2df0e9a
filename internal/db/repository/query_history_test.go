package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internaldb "pulseboard/internal/db"
	"pulseboard/internal/domain"
)

func setupHistoryRepo(t *testing.T) *QueryHistoryRepo {
	t.Helper()
	writeDB, readDB := internaldb.OpenTestSQLite(t)
	return NewQueryHistoryRepo(writeDB, readDB)
}

func makeRecord(dashboardID string, createdAt time.Time) *domain.QueryRecord {
	return &domain.QueryRecord{
		DashboardID: dashboardID,
		PrincipalID: 1,
		Query:       "revenue by month",
		Result:      `{"columns":["month"],"rows":[]}`,
		CreatedAt:   createdAt,
	}
}

func TestQueryHistoryRepo_InsertAndList(t *testing.T) {
	repo := setupHistoryRepo(t)
	ctx := context.Background()

	rec := makeRecord("42", time.Time{})
	require.NoError(t, repo.Insert(ctx, rec))
	assert.NotZero(t, rec.ID)
	assert.False(t, rec.CreatedAt.IsZero())

	records, total, err := repo.ListByDashboard(ctx, "42", domain.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, records, 1)
	assert.Equal(t, "revenue by month", records[0].Query)
	assert.Equal(t, `{"columns":["month"],"rows":[]}`, records[0].Result)
}

func TestQueryHistoryRepo_ListIsNewestFirst(t *testing.T) {
	repo := setupHistoryRepo(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		rec := makeRecord("42", base.Add(time.Duration(i)*time.Minute))
		rec.Query = fmt.Sprintf("query-%d", i)
		require.NoError(t, repo.Insert(ctx, rec))
	}

	records, _, err := repo.ListByDashboard(ctx, "42", domain.PageRequest{})
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "query-2", records[0].Query)
	assert.Equal(t, "query-0", records[2].Query)
}

func TestQueryHistoryRepo_ListScopedToDashboard(t *testing.T) {
	repo := setupHistoryRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, makeRecord("42", time.Time{})))
	require.NoError(t, repo.Insert(ctx, makeRecord("43", time.Time{})))

	records, total, err := repo.ListByDashboard(ctx, "42", domain.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, records, 1)
	assert.Equal(t, "42", records[0].DashboardID)
}

func TestQueryHistoryRepo_PurgeOlderThan(t *testing.T) {
	repo := setupHistoryRepo(t)
	ctx := context.Background()

	now := time.Now().UTC()
	require.NoError(t, repo.Insert(ctx, makeRecord("42", now.Add(-48*time.Hour))))
	require.NoError(t, repo.Insert(ctx, makeRecord("42", now.Add(-36*time.Hour))))
	require.NoError(t, repo.Insert(ctx, makeRecord("42", now)))

	purged, err := repo.PurgeOlderThan(ctx, now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(2), purged)

	_, total, err := repo.ListByDashboard(ctx, "42", domain.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}
