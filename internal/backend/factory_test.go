package backend

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"booklog/internal/config"
)

func TestFromAppConfig(t *testing.T) {
	cfg := &config.Config{
		DataBackend:  "sqlite",
		BooksFile:    "data/books.json",
		SQLiteDBPath: "db.sqlite",
	}
	bc, err := FromAppConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, SQLiteBackend, bc.Type)
	assert.Equal(t, "db.sqlite", bc.SQLiteDBPath)

	_, err = FromAppConfig(&config.Config{DataBackend: "postgres"})
	assert.Error(t, err)

	_, err = FromAppConfig(nil)
	assert.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"json ok", Config{Type: JSONBackend, BooksFile: "books.json"}, false},
		{"json missing file", Config{Type: JSONBackend}, true},
		{"sqlite missing path", Config{Type: SQLiteBackend}, true},
		{"sheets missing id", Config{Type: SheetsBackend}, true},
		{"memory", Config{Type: MemoryBackend}, false},
		{"unknown", Config{Type: "csv"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCreateJSONBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "books.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"ID":"1","Title":"A","Writer":"W","Date":"2024-03-05"}]`), 0o644))

	res, err := NewFactory(nil).CreateBackend(context.Background(), Config{Type: JSONBackend, BooksFile: path})
	require.NoError(t, err)
	defer res.Close()

	assert.Equal(t, "json", res.Source.Name())
	assert.Equal(t, path, res.WatchPath)
	assert.Nil(t, res.Writer)

	books, err := res.Source.LoadBooks(context.Background())
	require.NoError(t, err)
	assert.Len(t, books, 1)
}

func TestCreateSQLiteBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "booklog.db")

	res, err := NewFactory(nil).CreateBackend(context.Background(), Config{Type: SQLiteBackend, SQLiteDBPath: path})
	require.NoError(t, err)
	defer res.Close()

	assert.Equal(t, "sqlite", res.Source.Name())
	require.NotNil(t, res.Writer)
	assert.Empty(t, res.WatchPath)
}

func TestCreateMemoryBackend(t *testing.T) {
	res, err := NewFactory(nil).CreateBackend(context.Background(), Config{Type: MemoryBackend})
	require.NoError(t, err)
	assert.NoError(t, res.Close())
	assert.Equal(t, "memory", res.Source.Name())
}

func TestGetBackendTypeStrings(t *testing.T) {
	assert.Equal(t, []string{"json", "sqlite", "sheets", "memory"}, GetBackendTypeStrings())
}
