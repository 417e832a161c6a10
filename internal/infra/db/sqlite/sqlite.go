package sqlite

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// Open opens (or creates) the SQLite database at path and applies the schema.
// A "file:" URI is passed through untouched.
func Open(path string) (*sql.DB, error) {
	dsn := path + "?_journal_mode=WAL&_busy_timeout=5000"
	switch {
	case path == ":memory:":
		dsn = "file::memory:?cache=shared"
	case strings.HasPrefix(path, "file:"):
		dsn = path
	}
	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(0)

	if err := Migrate(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return conn, nil
}

// Migrate creates the tables if they don't exist
func Migrate(db *sql.DB) error {
	const schema = `
CREATE TABLE IF NOT EXISTS wireframe_analyses (
	id TEXT PRIMARY KEY,
	tenant_id TEXT NOT NULL,
	mode TEXT NOT NULL,
	subject_name TEXT NOT NULL,
	folder_path TEXT NOT NULL,
	images_json TEXT NOT NULL,
	analysis_text TEXT NOT NULL,
	provider TEXT NOT NULL,
	model_used TEXT NOT NULL,
	metadata_json TEXT NOT NULL,
	created_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_wireframe_analyses_tenant ON wireframe_analyses(tenant_id, created_at);

CREATE TABLE IF NOT EXISTS wireframe_run_errors (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	tenant_id TEXT NOT NULL,
	run_id TEXT NOT NULL,
	mode TEXT NOT NULL,
	stage TEXT NOT NULL,
	message TEXT NOT NULL,
	details_json TEXT NOT NULL,
	created_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_wireframe_run_errors_run ON wireframe_run_errors(tenant_id, run_id);
`
	_, err := db.Exec(schema)
	return err
}
