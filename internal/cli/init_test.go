package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"booklog/internal/config"
	"booklog/internal/core"
	"booklog/internal/log"
)

const booksJSON = `[
  {"ID": "b1", "Title": "First", "Writer": "Writer One", "Date": "2024-03-05"},
  {"ID": "b2", "Title": "Undated", "Writer": "Nobody", "Date": ""}
]`

func TestLoadAndValidateConfig(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DATA_BACKEND", "json")

	cfg, err := LoadAndValidateConfig()
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "http://localhost:9000", cfg.BaseURL)
}

func TestLoadAndValidateConfigInvalid(t *testing.T) {
	t.Setenv("PORT", "not-a-port")
	t.Setenv("DATA_BACKEND", "carrier-pigeon")

	_, err := LoadAndValidateConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid port")
	assert.Contains(t, err.Error(), "invalid data backend")
}

func TestOpenCatalog(t *testing.T) {
	file := filepath.Join(t.TempDir(), "books.json")
	require.NoError(t, os.WriteFile(file, []byte(booksJSON), 0o644))

	cfg := &config.Config{DataBackend: config.BackendJSON, BooksFile: file}
	cat, res, err := OpenCatalog(context.Background(), cfg, log.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = res.Close() })

	assert.Equal(t, file, res.WatchPath)
	snap, err := cat.Snapshot()
	require.NoError(t, err)
	assert.Len(t, snap.Books, 2)
	assert.Equal(t, 1, snap.Undated)
	assert.Len(t, snap.Month(core.MonthScope{Year: 2024, Month: 3}), 1)
}

func TestOpenCatalogMissingFile(t *testing.T) {
	cfg := &config.Config{DataBackend: config.BackendJSON, BooksFile: filepath.Join(t.TempDir(), "missing.json")}

	_, _, err := OpenCatalog(context.Background(), cfg, log.Discard())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "initial catalog load")
}

func TestInitSQLite(t *testing.T) {
	repo, err := InitSQLite(filepath.Join(t.TempDir(), "booklog.db"), log.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	n, err := repo.UpsertBooks(context.Background(), []core.RawBook{{ID: "b1", Title: "First", Date: "2024-03-05"}})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSetupLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := SetupLogger("warn", &buf)

	logger.Info("hidden")
	logger.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestSignalContextCancel(t *testing.T) {
	ctx, cancel := SignalContext(context.Background(), log.Discard())
	cancel()
	<-ctx.Done()
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
}
