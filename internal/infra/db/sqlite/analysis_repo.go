package sqlite

import (
	"context"
	"database/sql"

	domain "github.com/bryanwahyu/wireframe-extract/internal/domain/analysis"
	"github.com/bryanwahyu/wireframe-extract/internal/infra/db"
)

type AnalysisRepository struct {
	db *sql.DB
}

var _ domain.Repository = (*AnalysisRepository)(nil)

func NewAnalysisRepository(conn *sql.DB) *AnalysisRepository {
	return &AnalysisRepository{db: conn}
}

// Save inserts or replaces an analysis record
func (r *AnalysisRepository) Save(ctx context.Context, tenant string, res *domain.Result) error {
	const q = `
INSERT INTO wireframe_analyses
  (id, tenant_id, mode, subject_name, folder_path, images_json, analysis_text, provider, model_used, metadata_json, created_at)
VALUES (?,?,?,?,?,?,?,?,?,?,?)
ON CONFLICT(id) DO UPDATE SET
  tenant_id=excluded.tenant_id, mode=excluded.mode, subject_name=excluded.subject_name,
  folder_path=excluded.folder_path, images_json=excluded.images_json, analysis_text=excluded.analysis_text,
  provider=excluded.provider, model_used=excluded.model_used, metadata_json=excluded.metadata_json;
`
	row, err := db.EncodeResult(tenant, res)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, q, row.ID, row.TenantID, row.Mode, row.SubjectName, row.FolderPath,
		row.ImagesJSON, row.AnalysisText, row.Provider, row.ModelUsed, row.MetadataJSON, row.CreatedAt)
	return err
}

// Get returns one analysis, or nil when it does not exist
func (r *AnalysisRepository) Get(ctx context.Context, tenant, id string) (*domain.Result, error) {
	const q = `
SELECT id, tenant_id, mode, subject_name, folder_path, images_json, analysis_text, provider, model_used, metadata_json, created_at
FROM wireframe_analyses
WHERE tenant_id=? AND id=?;`
	rows, err := r.db.QueryContext(ctx, q, db.StringOrDash(tenant), id)
	if err != nil {
		return nil, err
	}
	list, err := scanResults(rows)
	if err != nil || len(list) == 0 {
		return nil, err
	}
	return list[0], nil
}

// Paginate returns a page of analyses ordered by created_at desc
func (r *AnalysisRepository) Paginate(ctx context.Context, tenant string, page, pageSize int) ([]*domain.Result, error) {
	_, pageSize, offset := db.Page(page, pageSize)
	const q = `
SELECT id, tenant_id, mode, subject_name, folder_path, images_json, analysis_text, provider, model_used, metadata_json, created_at
FROM wireframe_analyses
WHERE tenant_id=?
ORDER BY created_at DESC, id DESC
LIMIT ? OFFSET ?;`
	rows, err := r.db.QueryContext(ctx, q, db.StringOrDash(tenant), pageSize, offset)
	if err != nil {
		return nil, err
	}
	return scanResults(rows)
}

func scanResults(rows *sql.Rows) ([]*domain.Result, error) {
	defer rows.Close()
	var out []*domain.Result
	for rows.Next() {
		var row db.ResultRow
		if err := rows.Scan(&row.ID, &row.TenantID, &row.Mode, &row.SubjectName, &row.FolderPath,
			&row.ImagesJSON, &row.AnalysisText, &row.Provider, &row.ModelUsed, &row.MetadataJSON, &row.CreatedAt); err != nil {
			return nil, err
		}
		res, err := row.Decode()
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}
