package postgres

import (
	"context"
	"database/sql"
	"time"

	domain "github.com/bryanwahyu/wireframe-extract/internal/domain/runerrors"
	"github.com/bryanwahyu/wireframe-extract/internal/infra/db"
)

type RunErrorRepository struct {
	db *sql.DB
}

var _ domain.Repository = (*RunErrorRepository)(nil)

func NewRunErrorRepository(conn *sql.DB) *RunErrorRepository { return &RunErrorRepository{db: conn} }

// Save inserts the error and fills in its generated ID
func (r *RunErrorRepository) Save(ctx context.Context, e *domain.RunError) error {
	const q = `
INSERT INTO wireframe_run_errors
  (tenant_id, run_id, mode, stage, message, details_json, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7)
RETURNING id;`
	created := e.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	return r.db.QueryRowContext(ctx, q, db.StringOrDash(e.TenantID), db.StringOrDash(e.RunID), db.StringOrDash(e.Mode),
		db.StringOrDash(e.Stage), db.StringOrDash(e.Message), db.NormalizeDetails(e.DetailsJSON), created).Scan(&e.ID)
}

func (r *RunErrorRepository) ListByRun(ctx context.Context, tenant string, runID string, limit int) ([]*domain.RunError, error) {
	if limit <= 0 {
		limit = 20
	}
	const q = `
SELECT id, tenant_id, run_id, mode, stage, message, details_json, created_at
FROM wireframe_run_errors
WHERE tenant_id = $1 AND run_id = $2
ORDER BY created_at DESC, id DESC
LIMIT $3;`
	rows, err := r.db.QueryContext(ctx, q, db.StringOrDash(tenant), runID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.RunError
	for rows.Next() {
		var e domain.RunError
		if err := rows.Scan(&e.ID, &e.TenantID, &e.RunID, &e.Mode, &e.Stage, &e.Message, &e.DetailsJSON, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}
