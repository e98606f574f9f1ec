package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleetledger-backend/internal/config"
)

const validYAML = `
server:
  host: "127.0.0.1"
  port: 8080
database:
  host: "localhost"
  port: 5432
  user: "fleetledger"
  password: "pw"
  database: "fleetledger_test"
  ssl_mode: "disable"
jwt:
  secret: "0123456789abcdef0123456789abcdef"
log:
  level: "debug"
  format: "text"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := config.Load(writeConfig(t, validYAML))
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8080", cfg.GetServerAddress())
	assert.Equal(t, "postgres://fleetledger:pw@localhost:5432/fleetledger_test?sslmode=disable", cfg.GetDatabaseConnectionString())
	// Scheduler falls back to the nightly default.
	assert.Equal(t, "0 0 2 * * *", cfg.Scheduler.ExpireAssignmentRequests)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("SERVER_PORT", "9090")

	cfg, err := config.Load(writeConfig(t, validYAML))
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 9090, cfg.Server.Port)
}

func TestLoad_RejectsShortJWTSecret(t *testing.T) {
	yaml := `
server:
  port: 8080
database:
  host: "localhost"
  user: "u"
  database: "d"
jwt:
  secret: "too-short"
`
	_, err := config.Load(writeConfig(t, yaml))
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load("/nonexistent/config.yaml")
	assert.Error(t, err)
}
