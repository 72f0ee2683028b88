package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/koustreak/colmeta/internal/database"
	"github.com/koustreak/colmeta/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "colmeta.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, database.DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, int32(5), cfg.Database.MaxConns)
	assert.Equal(t, 30*time.Second, cfg.Database.QueryTimeout)
	assert.Equal(t, DefaultSystemFields, cfg.Catalog.SystemFields)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "json", cfg.Export.Format)
	assert.Equal(t, "colmeta", cfg.Export.Bucket)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
database:
  driver: mysql
  dsn: "lab:secret@tcp(localhost:3306)/lab"
  query_timeout: 5s
catalog:
  schema: lab
  system_fields: [globalid, warnings]
  unchanging_fields: [stationid]
log:
  level: debug
  format: console
export:
  endpoint: localhost:9000
  bucket: metadata
  format: yaml
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, database.DriverMySQL, cfg.Database.Driver)
	assert.Equal(t, 5*time.Second, cfg.Database.QueryTimeout)
	assert.Equal(t, int32(5), cfg.Database.MaxConns)
	assert.Equal(t, "lab", cfg.Catalog.Schema)
	assert.Equal(t, []string{"globalid", "warnings"}, cfg.Catalog.SystemFields)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "localhost:9000", cfg.Export.Endpoint)
	assert.Equal(t, "metadata", cfg.Export.Bucket)
	assert.Equal(t, "yaml", cfg.Export.Format)

	assert.True(t, cfg.SystemFieldSet().Has("warnings"))
	assert.False(t, cfg.SystemFieldSet().Has("stationid"))
	assert.Equal(t, []string{"globalid", "stationid", "warnings"}, cfg.ImmutableFields().Names())
	assert.NotContains(t, cfg.String(), "secret")
}

func TestLoad_EnvOverride(t *testing.T) {
	path := writeConfig(t, "database:\n  driver: postgres\n")
	t.Setenv("COLMETA_DATABASE_DSN", "postgres://localhost/lab")
	t.Setenv("COLMETA_CATALOG_SCHEMA", "sde")
	t.Setenv("COLMETA_SERVER_ADDR", ":9090")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres://localhost/lab", cfg.Database.DSN)
	assert.Equal(t, "sde", cfg.Catalog.Schema)
	assert.Equal(t, ":9090", cfg.Server.Addr)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, errs.IsInvalidInput(err))
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown driver", "database:\n  driver: oracle\n"},
		{"unknown log level", "log:\n  level: loud\n"},
		{"unknown log format", "log:\n  format: xml\n"},
		{"unknown export format", "export:\n  format: csv\n"},
		{"empty system field", "catalog:\n  system_fields: [globalid, \"\"]\n"},
		{"malformed yaml", "database: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.True(t, errs.IsInvalidInput(err))
		})
	}
}
