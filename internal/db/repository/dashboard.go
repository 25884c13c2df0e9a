package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"pulseboard/internal/domain"
)

type DashboardRepo struct {
	db *sql.DB
}

func NewDashboardRepo(db *sql.DB) *DashboardRepo {
	return &DashboardRepo{db: db}
}

func (r *DashboardRepo) Create(ctx context.Context, d *domain.Dashboard) (*domain.Dashboard, error) {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO dashboards (name, description, owner_id, created_at) VALUES (?, ?, ?, ?)`,
		d.Name, d.Description, d.OwnerID, now.Format("2006-01-02 15:04:05"),
	)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	created := *d
	created.ID = id
	created.CreatedAt = now
	return &created, nil
}

func (r *DashboardRepo) GetByID(ctx context.Context, id int64) (*domain.Dashboard, error) {
	var d domain.Dashboard
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, description, owner_id, created_at FROM dashboards WHERE id = ?`, id,
	).Scan(&d.ID, &d.Name, &d.Description, &d.OwnerID, &d.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound("dashboard %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *DashboardRepo) List(ctx context.Context, page domain.PageRequest) ([]domain.Dashboard, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM dashboards`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, description, owner_id, created_at
		 FROM dashboards ORDER BY id LIMIT ? OFFSET ?`,
		page.Limit(), page.Offset(),
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close() //nolint:errcheck

	var out []domain.Dashboard
	for rows.Next() {
		var d domain.Dashboard
		if err := rows.Scan(&d.ID, &d.Name, &d.Description, &d.OwnerID, &d.CreatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, d)
	}
	return out, total, rows.Err()
}

func (r *DashboardRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM dashboards WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound("dashboard %d not found", id)
	}
	return nil
}

var _ domain.DashboardRepository = (*DashboardRepo)(nil)
