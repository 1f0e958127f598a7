package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, "env: production\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 2333, cfg.Port)
	assert.False(t, cfg.IsDev())
	assert.Equal(t, 30, cfg.Simulation.CallTimeoutSeconds)
	assert.Contains(t, cfg.DSN, "market_research")
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, `
port: 8080
env: development
jwt_secret: "  s3cret  "
operator_key: op-key
allowed_origins:
  - https://app.example.com
  - "  "
database:
  host: db.internal
  port: 3307
  user: research
  password: pw
  name: research_db
  parse_time: true
redis:
  host: cache.internal
  port: 6380
  db: 2
simulation:
  call_timeout_seconds: 10
ai:
  providers:
    - id: main
      name: Main
      type: OpenAI
      api_key: "sk-test "
      default_model: gpt-4o-mini
      enabled: true
  simulation_model:
    provider_id: main
    model: gpt-4o
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.True(t, cfg.IsDev())
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, []string{"https://app.example.com"}, cfg.AllowedOrigins, "blank origins dropped")
	assert.Contains(t, cfg.DSN, "research:pw@tcp(db.internal:3307)/research_db")
	assert.Equal(t, "redis://cache.internal:6380/2", cfg.RedisURL)
	assert.Equal(t, 10, cfg.Simulation.CallTimeoutSeconds)

	require.Len(t, cfg.AI.Providers, 1)
	assert.Equal(t, "sk-test", cfg.AI.Providers[0].APIKey, "api key trimmed")
	require.NotNil(t, cfg.AI.SimulationModel)
	assert.Equal(t, "gpt-4o", cfg.AI.SimulationModel.Model)
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	path := writeConfig(t, "prot: 8080\n")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsInvalidPort(t *testing.T) {
	path := writeConfig(t, "port: 70000\n")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsInvalidTimeout(t *testing.T) {
	path := writeConfig(t, "simulation:\n  call_timeout_seconds: 0\n")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}

func TestRedisURLPassThrough(t *testing.T) {
	c := RedisRuntimeConfig{URL: "rediss://user:pw@cache:6380/1"}
	assert.Equal(t, "rediss://user:pw@cache:6380/1", c.URLValue())

	c = RedisRuntimeConfig{URL: "cache:6379"}
	assert.Equal(t, "redis://cache:6379", c.URLValue(), "scheme added when missing")
}
