// internal/common/config/loader_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFromFile_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
app:
  name: docgen-service
auth:
  token: test-token
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "http://localhost:3000", cfg.Server.BaseURL)
	assert.Equal(t, 500, cfg.Server.RateLimit.Requests)
	assert.Equal(t, 15, cfg.Server.RateLimit.WindowMinutes)
	assert.Equal(t, "./templates", cfg.Templates.Dir)
	assert.Equal(t, 8000, cfg.Renderer.Timeout)
	assert.Equal(t, 1200, cfg.Renderer.Viewport.Width)
	assert.Equal(t, 1600, cfg.Renderer.Viewport.Height)
	assert.Equal(t, 1.5, cfg.Renderer.Viewport.Scale)
	assert.Equal(t, "filesystem", cfg.Store.Backend)
	assert.Equal(t, filepath.Join("./templates", "documents"), cfg.Store.Dir)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFromFile_InvalidStoreBackend(t *testing.T) {
	path := writeConfig(t, `
store:
  backend: s3
`)

	_, err := LoadFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store.backend")
}

func TestLoadFromFile_RedisBackendRequiresAddress(t *testing.T) {
	path := writeConfig(t, `
store:
  backend: redis
database:
  redis:
    address: ""
`)

	_, err := LoadFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis.address")
}

func TestLoadFromFile_SessionsRequirePostgres(t *testing.T) {
	path := writeConfig(t, `
sessions:
  enabled: true
`)

	_, err := LoadFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "postgres")
}

func TestAddr(t *testing.T) {
	cfg := ServerConfig{Host: "0.0.0.0", Port: 3000}
	assert.Equal(t, "0.0.0.0:3000", cfg.Addr())
}

func TestGetDuration(t *testing.T) {
	assert.Equal(t, 8*time.Second, GetDuration(8000))
	assert.Equal(t, time.Duration(0), GetDuration(0))
}
