// Package bootstrap wires config into a ready analysis service; shared by the CLI and the API server.
package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/spf13/afero"

	"github.com/bryanwahyu/wireframe-extract/internal/application"
	appanalysis "github.com/bryanwahyu/wireframe-extract/internal/application/analysis"
	"github.com/bryanwahyu/wireframe-extract/internal/config"
	domain "github.com/bryanwahyu/wireframe-extract/internal/domain/analysis"
	"github.com/bryanwahyu/wireframe-extract/internal/domain/runerrors"
	"github.com/bryanwahyu/wireframe-extract/internal/infra/ai/openai"
	"github.com/bryanwahyu/wireframe-extract/internal/infra/ai/prompt"
	mysqlp "github.com/bryanwahyu/wireframe-extract/internal/infra/db/mysql"
	postgresp "github.com/bryanwahyu/wireframe-extract/internal/infra/db/postgres"
	"github.com/bryanwahyu/wireframe-extract/internal/infra/db/sqlite"
	"github.com/bryanwahyu/wireframe-extract/internal/infra/fs"
	"github.com/bryanwahyu/wireframe-extract/internal/infra/output"
	minioStore "github.com/bryanwahyu/wireframe-extract/internal/infra/storage"
	"github.com/bryanwahyu/wireframe-extract/internal/middleware"
)

type App struct {
	Config   *config.Config
	FS       afero.Fs
	DB       *sql.DB // nil when database.driver is none
	Service  *appanalysis.Service
	Checkers map[string]middleware.HealthChecker
}

// New builds the App. fsys is where screenshots are read and results written.
func New(ctx context.Context, cfg *config.Config, fsys afero.Fs) (*App, error) {
	ps := cfg.ProviderSettings()
	client, err := openai.NewClient(fsys, openai.Options{
		Provider: cfg.Provider,
		APIKey:   cfg.APIKey(),
		BaseURL:  ps.BaseURL,
		Timeout:  cfg.Timeout(),
		Referer:  ps.Referer,
		Title:    ps.Title,
	})
	if err != nil {
		return nil, fmt.Errorf("ai client: %w", err)
	}

	loc := fs.NewLocator(fsys, cfg.Scan.Extensions)
	svc := &appanalysis.Service{
		Locator:        loc,
		ProjectLocator: loc.WithRecursive(),
		Client:         client,
		Prompts:        prompt.Builder{},
		Writer:         output.NewWriter(fsys),
		Clock:          application.SystemClock{},
		Params:         cfg.Params(),
		Pricing:        cfg.PricingTable(),
	}
	app := &App{
		Config:  cfg,
		FS:      fsys,
		Service: svc,
		Checkers: map[string]middleware.HealthChecker{
			"input_dir": &middleware.DirHealthChecker{FS: fsys, Path: cfg.Paths.InputDir},
		},
	}

	conn, repo, errs, err := OpenDB(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if conn != nil {
		app.DB = conn
		svc.Repo, svc.Errors = repo, errs
		app.Checkers["database"] = &middleware.DatabaseHealthChecker{DB: conn}
	}

	if cfg.Minio.Enabled {
		store, err := minioStore.New(ctx,
			cfg.Minio.Endpoint,
			cfg.Minio.Region,
			cfg.Minio.BucketName,
			cfg.Minio.AccessKey,
			cfg.Minio.SecretKey,
			cfg.Minio.UseSSL,
		)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("minio init: %w", err)
		}
		svc.Artifacts = store
	}

	log.Printf("provider=%s model=%s database=%s minio=%t", client.Provider(), cfg.Model, driverName(cfg), cfg.Minio.Enabled)
	return app, nil
}

// OpenDB connects the configured driver and returns its repositories.
// Driver "none" returns all nils.
func OpenDB(ctx context.Context, cfg *config.Config) (*sql.DB, domain.Repository, runerrors.Repository, error) {
	switch driverName(cfg) {
	case "none":
		return nil, nil, nil, nil
	case "sqlite":
		conn, err := sqlite.Open(cfg.Database.Path)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("sqlite: %w", err)
		}
		return conn, sqlite.NewAnalysisRepository(conn), sqlite.NewRunErrorRepository(conn), nil
	case "mysql":
		conn, err := mysqlp.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			return nil, nil, nil, fmt.Errorf("mysql connect: %w", err)
		}
		if err := mysqlp.Migrate(ctx, conn); err != nil {
			conn.Close()
			return nil, nil, nil, fmt.Errorf("mysql migrate: %w", err)
		}
		return conn, mysqlp.NewAnalysisRepository(conn), mysqlp.NewRunErrorRepository(conn), nil
	case "postgres":
		conn, err := postgresp.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			return nil, nil, nil, fmt.Errorf("postgres connect: %w", err)
		}
		if err := postgresp.Migrate(ctx, conn); err != nil {
			conn.Close()
			return nil, nil, nil, fmt.Errorf("postgres migrate: %w", err)
		}
		return conn, postgresp.NewAnalysisRepository(conn), postgresp.NewRunErrorRepository(conn), nil
	default:
		return nil, nil, nil, fmt.Errorf("unsupported database driver: %s", cfg.Database.Driver)
	}
}

func driverName(cfg *config.Config) string {
	d := strings.ToLower(strings.TrimSpace(cfg.Database.Driver))
	if d == "" {
		return "none"
	}
	return d
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
