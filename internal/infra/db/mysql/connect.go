package mysql

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

func Connect(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	// test ping
	ctx2, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx2); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Migrate creates the wireframe tables when missing
func Migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{`
CREATE TABLE IF NOT EXISTS wireframe_analyses (
  id VARCHAR(64) PRIMARY KEY,
  tenant_id VARCHAR(64) NOT NULL,
  mode VARCHAR(16) NOT NULL,
  subject_name VARCHAR(255) NOT NULL,
  folder_path VARCHAR(1024) NOT NULL,
  images_json JSON NOT NULL,
  analysis_text LONGTEXT NOT NULL,
  provider VARCHAR(32) NOT NULL,
  model_used VARCHAR(128) NOT NULL,
  metadata_json JSON NOT NULL,
  created_at DATETIME(6) NOT NULL,
  INDEX idx_wireframe_analyses_tenant (tenant_id, created_at)
)`, `
CREATE TABLE IF NOT EXISTS wireframe_run_errors (
  id BIGINT AUTO_INCREMENT PRIMARY KEY,
  tenant_id VARCHAR(64) NOT NULL,
  run_id VARCHAR(64) NOT NULL,
  mode VARCHAR(16) NOT NULL,
  stage VARCHAR(32) NOT NULL,
  message TEXT NOT NULL,
  details_json JSON NOT NULL,
  created_at DATETIME(6) NOT NULL,
  INDEX idx_wireframe_run_errors_run (tenant_id, run_id)
)`}
	for _, q := range stmts {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return err
		}
	}
	return nil
}
