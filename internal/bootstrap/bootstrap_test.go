package bootstrap

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/wireframe-extract/internal/config"
)

func TestNewWithSQLite(t *testing.T) {
	cfg := config.Default()
	cfg.Provider = "local"
	cfg.Database.Driver = "sqlite"
	cfg.Database.Path = "file:bootstrap_test?mode=memory&cache=shared"

	app, err := New(context.Background(), cfg, afero.NewMemMapFs())
	require.NoError(t, err)
	defer app.Close()

	require.NotNil(t, app.DB)
	assert.NotNil(t, app.Service.Repo)
	assert.NotNil(t, app.Service.Errors)
	assert.Nil(t, app.Service.Artifacts)
	assert.Equal(t, "local", app.Service.Client.Provider())
	assert.Equal(t, "gpt-4o", app.Service.Params.Model)
	assert.Contains(t, app.Checkers, "database")
	assert.Contains(t, app.Checkers, "input_dir")
}

func TestNewWithoutDatabase(t *testing.T) {
	cfg := config.Default()
	cfg.Provider = "local"
	cfg.Database.Driver = "none"

	app, err := New(context.Background(), cfg, afero.NewMemMapFs())
	require.NoError(t, err)
	assert.Nil(t, app.DB)
	assert.Nil(t, app.Service.Repo)
	assert.NotContains(t, app.Checkers, "database")
	assert.NoError(t, app.Close())
}

func TestNewErrors(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	cfg := config.Default()
	_, err := New(context.Background(), cfg, afero.NewMemMapFs())
	assert.ErrorContains(t, err, "API key")

	cfg = config.Default()
	cfg.Provider = "local"
	cfg.Database.Driver = "oracle"
	_, err = New(context.Background(), cfg, afero.NewMemMapFs())
	assert.ErrorContains(t, err, "unsupported database driver")
}
