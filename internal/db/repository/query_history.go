package repository

import (
	"context"
	"database/sql"
	"time"

	"pulseboard/internal/domain"
)

// QueryHistoryRepo splits traffic across the connection pair: inserts and
// purges go through the single-writer handle, listing reads from the pool.
type QueryHistoryRepo struct {
	writeDB *sql.DB
	readDB  *sql.DB
}

func NewQueryHistoryRepo(writeDB, readDB *sql.DB) *QueryHistoryRepo {
	return &QueryHistoryRepo{writeDB: writeDB, readDB: readDB}
}

func (r *QueryHistoryRepo) Insert(ctx context.Context, rec *domain.QueryRecord) error {
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	res, err := r.writeDB.ExecContext(ctx,
		`INSERT INTO query_history (dashboard_id, principal_id, query_text, result_json, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		rec.DashboardID, rec.PrincipalID, rec.Query, rec.Result, createdAt.Format("2006-01-02 15:04:05"),
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rec.ID = id
	rec.CreatedAt = createdAt
	return nil
}

func (r *QueryHistoryRepo) ListByDashboard(ctx context.Context, dashboardID string, page domain.PageRequest) ([]domain.QueryRecord, int64, error) {
	var total int64
	err := r.readDB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM query_history WHERE dashboard_id = ?`, dashboardID,
	).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.readDB.QueryContext(ctx,
		`SELECT id, dashboard_id, principal_id, query_text, result_json, created_at
		 FROM query_history WHERE dashboard_id = ?
		 ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		dashboardID, page.Limit(), page.Offset(),
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close() //nolint:errcheck

	var out []domain.QueryRecord
	for rows.Next() {
		var rec domain.QueryRecord
		if err := rows.Scan(&rec.ID, &rec.DashboardID, &rec.PrincipalID, &rec.Query, &rec.Result, &rec.CreatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, rec)
	}
	return out, total, rows.Err()
}

func (r *QueryHistoryRepo) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.writeDB.ExecContext(ctx,
		`DELETE FROM query_history WHERE created_at < ?`,
		cutoff.UTC().Format("2006-01-02 15:04:05"),
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

var _ domain.QueryHistoryRepository = (*QueryHistoryRepo)(nil)
