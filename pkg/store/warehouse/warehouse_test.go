package warehouse

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProfile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeProfile(t, `driver: snowflake
snowflake:
  account: acme-xy12345
  user: reporter
  password: secret
  database: ANALYTICS
  warehouse: REPORTING_WH
  role: REPORTER
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "snowflake", cfg.Driver)
	assert.Equal(t, "acme-xy12345", cfg.Snowflake.Account)
	assert.Equal(t, "REPORTING_WH", cfg.Snowflake.Warehouse)
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	path := writeProfile(t, "driver: oracle\n")

	_, err := Open(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported warehouse driver")
}

func TestOpen_Databricks(t *testing.T) {
	path := writeProfile(t, `driver: databricks
databricks:
  host: dbc-1234.cloud.databricks.com
  http_path: sql/1.0/endpoints/abc
  access_token: dapi-token
`)

	db, err := Open(path)
	require.NoError(t, err)
	defer db.Close()
	assert.NotNil(t, db)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
