// Package db holds the row encoding shared by the sqlite, mysql and postgres repositories.
package db

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	domain "github.com/bryanwahyu/wireframe-extract/internal/domain/analysis"
)

// ResultRow is the column form of an analysis result
type ResultRow struct {
	ID           string
	TenantID     string
	Mode         string
	SubjectName  string
	FolderPath   string
	ImagesJSON   string
	AnalysisText string
	Provider     string
	ModelUsed    string
	MetadataJSON string
	CreatedAt    time.Time
}

// EncodeResult flattens r into a row for tenant
func EncodeResult(tenant string, r *domain.Result) (ResultRow, error) {
	images, err := json.Marshal(r.ImagesAnalyzed)
	if err != nil {
		return ResultRow{}, fmt.Errorf("encode images: %w", err)
	}
	meta, err := json.Marshal(r.Metadata)
	if err != nil {
		return ResultRow{}, fmt.Errorf("encode metadata: %w", err)
	}
	created := r.GeneratedAt
	if created.IsZero() {
		created = time.Now()
	}
	return ResultRow{
		ID:           r.ID,
		TenantID:     StringOrDash(tenant),
		Mode:         StringOrDash(string(r.Metadata.AnalysisType)),
		SubjectName:  StringOrDash(r.SubjectName),
		FolderPath:   StringOrDash(r.FolderPath),
		ImagesJSON:   string(images),
		AnalysisText: r.AnalysisText,
		Provider:     StringOrDash(r.Provider),
		ModelUsed:    StringOrDash(r.ModelUsed),
		MetadataJSON: string(meta),
		CreatedAt:    created.UTC(),
	}, nil
}

// Decode rebuilds the domain result
func (row ResultRow) Decode() (*domain.Result, error) {
	r := &domain.Result{
		ID:           row.ID,
		SubjectName:  row.SubjectName,
		FolderPath:   row.FolderPath,
		AnalysisText: row.AnalysisText,
		Provider:     row.Provider,
		ModelUsed:    row.ModelUsed,
		GeneratedAt:  row.CreatedAt.UTC(),
	}
	if err := json.Unmarshal([]byte(row.ImagesJSON), &r.ImagesAnalyzed); err != nil {
		return nil, fmt.Errorf("decode images of %s: %w", row.ID, err)
	}
	if err := json.Unmarshal([]byte(row.MetadataJSON), &r.Metadata); err != nil {
		return nil, fmt.Errorf("decode metadata of %s: %w", row.ID, err)
	}
	return r, nil
}

// StringOrDash returns "-" when the input is empty/whitespace
func StringOrDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// NormalizeDetails makes sure details is valid JSON; invalid input is wrapped as {"raw": ...}
func NormalizeDetails(details string) string {
	if strings.TrimSpace(details) == "" {
		return "{}"
	}
	var js any
	if json.Unmarshal([]byte(details), &js) != nil {
		b, _ := json.Marshal(map[string]string{"raw": details})
		return string(b)
	}
	return details
}

// Page clamps page/pageSize and returns the row offset
func Page(page, pageSize int) (int, int, int) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	return page, pageSize, (page - 1) * pageSize
}
