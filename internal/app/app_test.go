package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nurye/shop/internal/cart"
	"github.com/nurye/shop/internal/catalog"
	"github.com/nurye/shop/internal/config"
	"github.com/nurye/shop/internal/localstore"
)

const fixtureYAML = `
products:
  - id: p1
    title: Coffee Beans
    slug: coffee-beans
    price: 450
  - id: p2
    title: Coffee Mug
    price: 120
`

func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv(config.EnvAPIBase, "")
	t.Setenv(config.EnvStorage, "")
	t.Setenv(config.EnvCatalogFile, "")
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestOpen_FixtureAndFileStorage(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	fixture := writeFile(t, dir, "catalog.yaml", fixtureYAML)
	cfgPath := writeFile(t, dir, "config.toml",
		"catalog_file = \""+fixture+"\"\ndata_dir = \""+dir+"\"\n")

	env, err := Open(Options{
		ConfigPath: cfgPath,
		PrefsPath:  filepath.Join(dir, "prefs.toml"),
		Logger:     zap.NewNop(),
	})
	require.NoError(t, err)

	require.NotNil(t, env.Fixture)
	assert.Equal(t, fixture, env.Fixture.Path())
	assert.Equal(t, "Light", env.Prefs.Theme)

	got, err := env.Catalog.Search(context.Background(), "Coffee")
	require.NoError(t, err)
	assert.Len(t, got, 2)

	env.Cart.Add(cart.Item{ID: "p1", Title: "Coffee Beans", Price: 450}, 2)
	require.NoError(t, env.Close())

	// A second session sees the persisted cart.
	again, err := Open(Options{ConfigPath: cfgPath, Logger: zap.NewNop()})
	require.NoError(t, err)
	defer again.Close()
	assert.Equal(t, 2, again.Cart.Count())
	_, err = os.Stat(filepath.Join(dir, cart.StorageKey+".json"))
	assert.NoError(t, err)
}

func TestOpen_MemoryStorageAndHTTPCatalog(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "config.toml",
		"storage = \"memory\"\napi_base = \"http://shop.test:8080\"\ndata_dir = \""+dir+"\"\n")

	env, err := Open(Options{ConfigPath: cfgPath, Logger: zap.NewNop()})
	require.NoError(t, err)
	defer env.Close()

	assert.Nil(t, env.Fixture)
	assert.IsType(t, &catalog.Cached{}, env.Catalog)
	assert.IsType(t, &localstore.Memory{}, env.Storage)
	assert.Equal(t, "http://shop.test:8080", catalogSourceName(env))
}

func TestOpen_EnvOverridesStorage(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "config.toml", "data_dir = \""+dir+"\"\n")
	t.Setenv(config.EnvStorage, "sqlite")

	env, err := Open(Options{ConfigPath: cfgPath, Logger: zap.NewNop()})
	require.NoError(t, err)
	defer env.Close()

	assert.IsType(t, &localstore.SQLite{}, env.Storage)
}

func TestOpen_Errors(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	badStorage := writeFile(t, dir, "bad.toml", "storage = \"floppy\"\n")
	_, err := Open(Options{ConfigPath: badStorage, Logger: zap.NewNop()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid storage")

	missingFixture := writeFile(t, dir, "missing.toml",
		"storage = \"memory\"\ncatalog_file = \""+filepath.Join(dir, "nope.yaml")+"\"\n")
	_, err = Open(Options{ConfigPath: missingFixture, Logger: zap.NewNop()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "catalog fixture")
}

func TestOpen_BuildsFileLogger(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	logPath := filepath.Join(dir, "logs", "nurye.log")
	cfgPath := writeFile(t, dir, "config.toml",
		"storage = \"memory\"\nlog_file = \""+logPath+"\"\n")

	env, err := Open(Options{ConfigPath: cfgPath, Verbose: true})
	require.NoError(t, err)
	env.Logger.Info("hello")
	require.NoError(t, env.Close())

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
}
