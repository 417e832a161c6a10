package mysql

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

// Save inserts an analysis record
func (r *AnalysisRepository) Save(ctx context.Context, tenant string, res *domain.Result) error {
	const q = `
INSERT INTO wireframe_analyses
  (id, tenant_id, mode, subject_name, folder_path, images_json, analysis_text, provider, model_used, metadata_json, created_at)
VALUES (?,?,?,?,?,?,?,?,?,?,?)
ON DUPLICATE KEY UPDATE
  tenant_id=VALUES(tenant_id), mode=VALUES(mode), subject_name=VALUES(subject_name),
  folder_path=VALUES(folder_path), images_json=VALUES(images_json), analysis_text=VALUES(analysis_text),
  provider=VALUES(provider), model_used=VALUES(model_used), metadata_json=VALUES(metadata_json);
`
	row, err := db.EncodeResult(tenant, res)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, q, row.ID, row.TenantID, row.Mode, row.SubjectName, row.FolderPath,
		row.ImagesJSON, row.AnalysisText, row.Provider, row.ModelUsed, row.MetadataJSON, row.CreatedAt)
	return err
}

// Get by ID + Tenant, nil when missing
func (r *AnalysisRepository) Get(ctx context.Context, tenant, id string) (*domain.Result, error) {
	const q = `
SELECT id, tenant_id, mode, subject_name, folder_path, images_json, analysis_text, provider, model_used, metadata_json, created_at
FROM wireframe_analyses
WHERE tenant_id=? AND id=?
LIMIT 1;`
	var row db.ResultRow
	err := r.db.QueryRowContext(ctx, q, db.StringOrDash(tenant), id).Scan(&row.ID, &row.TenantID, &row.Mode,
		&row.SubjectName, &row.FolderPath, &row.ImagesJSON, &row.AnalysisText, &row.Provider, &row.ModelUsed,
		&row.MetadataJSON, &row.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return row.Decode()
}

// Paginate returns a page of analysis records ordered by created_at desc
func (r *AnalysisRepository) Paginate(ctx context.Context, tenant string, page, pageSize int) ([]*domain.Result, error) {
	_, pageSize, offset := db.Page(page, pageSize)

	const q = `
SELECT id, tenant_id, mode, subject_name, folder_path, images_json, analysis_text, provider, model_used, metadata_json, created_at
FROM wireframe_analyses
WHERE tenant_id=?
ORDER BY created_at DESC, id DESC
LIMIT ? OFFSET ?;
`
	rows, err := r.db.QueryContext(ctx, q, db.StringOrDash(tenant), pageSize, offset)
	if err != nil {
		return nil, err
	}
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
