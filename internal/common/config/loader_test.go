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

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfigFile(t, `
app:
  name: seoul-estate-search
  environment: test

server:
  address: ":9090"

seoul:
  api_key: "yaml-key"
  timeout: 5000
  chunk_size: 500
  max_records: 5000

cache:
  backend: memory
  ttl_seconds: 600
  capacity: 32

logging:
  level: debug
  format: console
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "test", cfg.App.Environment)
	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.Equal(t, "yaml-key", cfg.Seoul.APIKey)
	assert.Equal(t, 5000, cfg.Seoul.Timeout)
	assert.Equal(t, 500, cfg.Seoul.ChunkSize)
	assert.Equal(t, "memory", cfg.Cache.Backend)
	assert.Equal(t, 10*time.Minute, cfg.Cache.CacheTTL())
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadFromFile_AppliesDefaults(t *testing.T) {
	path := writeConfigFile(t, `
seoul:
  api_key: "k"
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, "http://openapi.seoul.go.kr:8088", cfg.Seoul.BaseURL)
	assert.Equal(t, 10000, cfg.Seoul.Timeout)
	assert.Equal(t, 1000, cfg.Seoul.ChunkSize)
	assert.Equal(t, 10000, cfg.Seoul.MaxRecords)
	assert.Equal(t, 10, cfg.Seoul.MaxParallel)
	assert.Equal(t, "memory", cfg.Cache.Backend)
	assert.Equal(t, 30*time.Minute, cfg.Cache.CacheTTL())
	assert.Equal(t, 256, cfg.Cache.Capacity)
}

func TestLoadFromFile_MissingAPIKeyIsNotAStartupError(t *testing.T) {
	path := writeConfigFile(t, `
seoul:
  base_url: "http://openapi.seoul.go.kr:8088"
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Empty(t, cfg.Seoul.APIKey)
}

func TestLoadFromFile_SecretFilledFromEnvironment(t *testing.T) {
	t.Setenv("SEOUL_API_KEY", "env-key")

	path := writeConfigFile(t, `
seoul:
  api_key: ""
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "env-key", cfg.Seoul.APIKey)
}

func TestLoadFromFile_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name: "unknown cache backend",
			content: `
cache:
  backend: memcached
`,
		},
		{
			name: "redis backend without address",
			content: `
cache:
  backend: redis
`,
		},
		{
			name: "max_records below chunk_size",
			content: `
seoul:
  chunk_size: 1000
  max_records: 100
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfigFile(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestGetDuration(t *testing.T) {
	assert.Equal(t, 10*time.Second, GetDuration(10000))
	assert.Equal(t, time.Duration(0), GetDuration(0))
}
