package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/bryanwahyu/wireframe-extract/internal/domain/analysis"
)

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "openai", cfg.Provider)
	assert.Equal(t, "gpt-4o", cfg.Model)
	assert.Equal(t, 4000, cfg.MaxTokens)
	assert.Equal(t, "input", cfg.Paths.InputDir)
	assert.Empty(t, cfg.Database.Driver)
	assert.Equal(t, 120*time.Second, cfg.Timeout())
	assert.Equal(t, domain.DefaultPricing(), cfg.PricingTable())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
provider: openrouter
model: anthropic/claude-3.5-sonnet
max_tokens: 2000
providers:
  openrouter:
    referer: https://example.com
paths:
  output_dir: /tmp/out
pricing:
  anthropic/claude-3.5-sonnet:
    input_per_1k: 0.003
    output_per_1k: 0.015
database:
  driver: mysql
  host: db
  port: 3306
  user: u
  password: p
  name: wf
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "openrouter", cfg.Provider)
	assert.Equal(t, 2000, cfg.MaxTokens)
	assert.Equal(t, "input", cfg.Paths.InputDir)
	assert.Equal(t, "/tmp/out", cfg.Paths.OutputDir)

	p := cfg.ProviderSettings()
	assert.Equal(t, "https://openrouter.ai/api/v1", p.BaseURL)
	assert.Equal(t, "OPENROUTER_API_KEY", p.APIKeyEnv)
	assert.Equal(t, "https://example.com", p.Referer)

	price := cfg.PricingTable()["anthropic/claude-3.5-sonnet"]
	assert.Equal(t, 0.003, price.InputPer1K)
	_, ok := cfg.PricingTable()["gpt-4o"]
	assert.False(t, ok)

	assert.Equal(t, "u:p@tcp(db:3306)/wf?parseTime=true&charset=utf8mb4&loc=UTC", cfg.MySQLDSN())
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("provider: [unclosed"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("WIREFRAME_PROVIDER", "openrouter")
	t.Setenv("WIREFRAME_MODEL", "openai/gpt-4o-mini")
	t.Setenv("OPENROUTER_API_KEY", "sk-or-test")

	cfg := Default()
	cfg.ApplyEnv()
	assert.Equal(t, "openrouter", cfg.Provider)
	assert.Equal(t, "openai/gpt-4o-mini", cfg.Model)
	assert.Equal(t, "sk-or-test", cfg.APIKey())
	assert.Equal(t, "openai/gpt-4o-mini", cfg.Params().Model)
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("WIREFRAME_TEST_KEY=from-dotenv\n"), 0o644))
	t.Setenv("WIREFRAME_TEST_KEY", "")
	os.Unsetenv("WIREFRAME_TEST_KEY")

	require.NoError(t, LoadEnvFile(path))
	assert.Equal(t, "from-dotenv", os.Getenv("WIREFRAME_TEST_KEY"))

	assert.NoError(t, LoadEnvFile(filepath.Join(dir, "missing.env")))
	assert.NoError(t, LoadEnvFile(""))
}

func TestPostgresDSN(t *testing.T) {
	cfg := Default()
	cfg.Database.DSN = "postgres://u:p@db/wf"
	assert.Equal(t, "postgres://u:p@db/wf", cfg.PostgresDSN())
}

func TestDefaultDriverOnlyFillsEmpty(t *testing.T) {
	cfg := Default()
	cfg.DefaultDriver("sqlite")
	assert.Equal(t, "sqlite", cfg.Database.Driver)

	cfg.Database.Driver = "postgres"
	cfg.DefaultDriver("sqlite")
	assert.Equal(t, "postgres", cfg.Database.Driver)
}
