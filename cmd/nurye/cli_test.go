package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurye/shop/internal/config"
)

const testFixture = `
products:
  - id: p1
    title: Coffee Beans
    slug: coffee-beans
    price: 450
  - id: p2
    title: Coffee Mug
    price: 120
`

// setupWorkspace points the global flags at a temporary config that serves
// the catalog from a fixture and keeps the cart under t.TempDir.
func setupWorkspace(t *testing.T) string {
	t.Helper()
	t.Setenv(config.EnvAPIBase, "")
	t.Setenv(config.EnvStorage, "")
	t.Setenv(config.EnvCatalogFile, "")

	dir := t.TempDir()
	fixture := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(fixture, []byte(testFixture), 0o644))

	cfg := "catalog_file = \"" + fixture + "\"\n" +
		"data_dir = \"" + dir + "\"\n" +
		"log_file = \"" + filepath.Join(dir, "nurye.log") + "\"\n"
	cfgFile := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(cfgFile, []byte(cfg), 0o644))

	configPath = cfgFile
	prefsPath = filepath.Join(dir, "prefs.toml")
	cartQty = 1
	t.Cleanup(func() {
		configPath = ""
		prefsPath = ""
		cartQty = 1
	})
	return dir
}

func newTestCmd() (*cobra.Command, *bytes.Buffer) {
	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	return cmd, &out
}

func TestCartCommands(t *testing.T) {
	setupWorkspace(t)

	cmd, out := newTestCmd()
	cartQty = 2
	require.NoError(t, runCartAdd(cmd, []string{"coffee-beans"}))
	assert.Contains(t, out.String(), "Coffee Beans x2 (2 in cart)")

	cmd, out = newTestCmd()
	cartQty = 1
	require.NoError(t, runCartAdd(cmd, []string{"p2"}))
	assert.Contains(t, out.String(), "(3 in cart)")

	cmd, out = newTestCmd()
	require.NoError(t, runCartList(cmd, nil))
	listing := out.String()
	assert.Contains(t, listing, "Coffee Beans")
	assert.Contains(t, listing, "ETB 900.00")
	assert.Contains(t, listing, "3 items, subtotal ETB 1,020.00")

	cmd, out = newTestCmd()
	require.NoError(t, runCartQty(cmd, []string{"p1", "-5"}))
	assert.Contains(t, out.String(), "Coffee Beans x1")

	cmd, _ = newTestCmd()
	require.NoError(t, runCartRemove(cmd, []string{"p2"}))

	cmd, out = newTestCmd()
	require.NoError(t, runCartList(cmd, nil))
	assert.Contains(t, out.String(), "1 items, subtotal ETB 450.00")
	assert.NotContains(t, out.String(), "Coffee Mug")

	cmd, _ = newTestCmd()
	require.NoError(t, runCartClear(cmd, nil))
	cmd, out = newTestCmd()
	require.NoError(t, runCartList(cmd, nil))
	assert.Equal(t, "cart is empty\n", out.String())
}

func TestCartCommandErrors(t *testing.T) {
	setupWorkspace(t)

	cmd, _ := newTestCmd()
	err := runCartAdd(cmd, []string{"nope"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `no product "nope"`)

	err = runCartRemove(cmd, []string{"p1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not in the cart")

	err = runCartQty(cmd, []string{"p1", "lots"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid delta")
}

func TestSearchCommand(t *testing.T) {
	setupWorkspace(t)

	cmd, out := newTestCmd()
	require.NoError(t, runSearch(cmd, []string{"Coffee"}))
	got := out.String()
	assert.Contains(t, got, "1. ")
	assert.Contains(t, got, "/products/coffee-beans")
	assert.Contains(t, got, "ETB 120.00")

	cmd, out = newTestCmd()
	require.NoError(t, runSearch(cmd, []string{"zzzz"}))
	assert.Equal(t, "No results\n", out.String())

	cmd, _ = newTestCmd()
	err := runSearch(cmd, []string{" C "})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 2 characters")
}

func TestLogsCommand(t *testing.T) {
	setupWorkspace(t)
	logNoColor = true
	logLevel = "info"
	logLines = 50
	t.Cleanup(func() { logNoColor = false })

	cmd, out := newTestCmd()
	require.NoError(t, runLogs(cmd, nil))
	assert.Contains(t, out.String(), "no log entries")

	cmd, _ = newTestCmd()
	require.NoError(t, runCartAdd(cmd, []string{"coffee-beans"}))

	cmd, out = newTestCmd()
	require.NoError(t, runLogs(cmd, nil))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.NotEmpty(t, lines)
	assert.Contains(t, lines[len(lines)-1], "INFO")
	assert.Contains(t, lines[len(lines)-1], "cart add")
	assert.Contains(t, lines[len(lines)-1], "id=p1")

	logLevel = "loud"
	t.Cleanup(func() { logLevel = "info" })
	require.Error(t, runLogs(cmd, nil))
}
