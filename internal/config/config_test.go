package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 512, cfg.Ingestion.ChunkSize)
	assert.Equal(t, 50, cfg.Ingestion.ChunkOverlap)
	assert.Equal(t, 100, cfg.Store.FetchLimit)
	assert.Equal(t, 0.75, cfg.Store.HybridAlpha)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:3001"}, cfg.CORS.AllowedOrigins)
	assert.Empty(t, cfg.LLM.Token)
}

func TestLoadYAMLAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dataroom.yaml")
	yamlBody := `
server:
  port: 9100
store:
  driver: sqlite
  sqlite:
    path: /tmp/from-yaml.db
ingestion:
  chunk_size: 256
  chunk_overlap: 32
`
	require.NoError(t, os.WriteFile(path, []byte(yamlBody), 0o644))

	t.Setenv("FRIENDLI_TOKEN", "tok-123")
	t.Setenv("DATABASE_URL", "postgres://user:pw@localhost:5432/dataroom?sslmode=disable")
	t.Setenv("REDIS_URL", "redis://cache:6379")
	t.Setenv("PDF_BACKEND", "native")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, 256, cfg.Ingestion.ChunkSize)
	assert.Equal(t, 32, cfg.Ingestion.ChunkOverlap)
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "postgres://user:pw@localhost:5432/dataroom?sslmode=disable", cfg.Store.Postgres.DSN)
	assert.Equal(t, "redis", cfg.Cache.Driver)
	assert.Equal(t, "cache:6379", cfg.Cache.Redis.Addr)
	assert.Equal(t, "native", cfg.Ingestion.PDFBackend)
	assert.Equal(t, "tok-123", cfg.LLM.Token)
}

func TestLoadSQLiteURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "sqlite:/var/lib/dataroom.db")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "/var/lib/dataroom.db", cfg.Store.SQLite.Path)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config file")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "invalid server port"},
		{"bad store driver", func(c *Config) { c.Store.Driver = "weaviate" }, "invalid store driver"},
		{"bad cache driver", func(c *Config) { c.Cache.Driver = "memcached" }, "invalid cache driver"},
		{"overlap too large", func(c *Config) { c.Ingestion.ChunkOverlap = 512 }, "chunk_overlap"},
		{"alpha out of range", func(c *Config) { c.Store.HybridAlpha = 1.5 }, "hybrid_alpha"},
		{"bad pdf backend", func(c *Config) { c.Ingestion.PDFBackend = "pypdf" }, "invalid pdf backend"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
