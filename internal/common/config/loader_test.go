package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const minimalConfig = `
france_travail:
  auth_url: "https://auth.example.test/token"
  search_url: "https://api.example.test/search"
  client_id: "id-from-yaml"
  client_secret: "secret-from-yaml"
  scope: "api_offresdemploiv2"
`

// ==========================
// Config Loading Tests
// ==========================

func TestLoadFromFile_DefaultsApplied(t *testing.T) {
	cfg, err := LoadFromFile(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, ":8000", cfg.Server.Addr())
	assert.Equal(t, 100, cfg.FranceTravail.PageSize)
	assert.Equal(t, 250, cfg.FranceTravail.PerDepartmentCap)
	assert.Equal(t, 800, cfg.FranceTravail.GlobalCap)
	assert.Equal(t, 200, cfg.FranceTravail.PageDelay)
	assert.Equal(t, 30000, cfg.FranceTravail.TokenMargin)
	assert.Equal(t, "JobMapBot/1.0", cfg.FranceTravail.UserAgent)
	assert.Equal(t, "data/departements.geojson", cfg.Geo.DatasetPath)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Cache.Enabled)
}

func TestLoadFromFile_SecretsFromEnv(t *testing.T) {
	t.Setenv("FRANCE_TRAVAIL_CLIENT_ID", "id-from-env")
	t.Setenv("FRANCE_TRAVAIL_CLIENT_SECRET", "secret-from-env")
	t.Setenv("FRANCE_TRAVAIL_SCOPE", "scope-from-env")

	cfg, err := LoadFromFile(writeConfig(t, `
france_travail:
  auth_url: "https://auth.example.test/token"
  search_url: "https://api.example.test/search"
  client_id: "${FRANCE_TRAVAIL_CLIENT_ID}"
  client_secret: "${FRANCE_TRAVAIL_CLIENT_SECRET}"
  scope: "${FRANCE_TRAVAIL_SCOPE}"
`))
	require.NoError(t, err)

	assert.Equal(t, "id-from-env", cfg.FranceTravail.ClientID)
	assert.Equal(t, "secret-from-env", cfg.FranceTravail.ClientSecret)
	assert.Equal(t, "scope-from-env", cfg.FranceTravail.Scope)
}

func TestLoadFromFile_MissingCredentialsRejected(t *testing.T) {
	t.Setenv("FRANCE_TRAVAIL_CLIENT_ID", "")
	t.Setenv("FRANCE_TRAVAIL_CLIENT_SECRET", "")
	t.Setenv("FRANCE_TRAVAIL_SCOPE", "")

	_, err := LoadFromFile(writeConfig(t, `
france_travail:
  auth_url: "https://auth.example.test/token"
  search_url: "https://api.example.test/search"
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "client_id")
}

func TestLoadFromFile_CacheRequiresRedisAddress(t *testing.T) {
	_, err := LoadFromFile(writeConfig(t, minimalConfig+`
cache:
  enabled: true
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis.address")
}

func TestGetDuration(t *testing.T) {
	assert.Equal(t, 200*time.Millisecond, GetDuration(200))
	assert.Equal(t, time.Duration(0), GetDuration(0))
}
