package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.True(t, cfg.Server.CSRF)
	assert.Equal(t, "http://localhost:5000/predict", cfg.Predict.URL)
	assert.Equal(t, 15*time.Second, cfg.Predict.Timeout)
	assert.Equal(t, CacheMemory, cfg.Cache.Driver)
	assert.Equal(t, 10, cfg.RateLimit.Capacity)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
	assert.Equal(t, "info", cfg.Log.Level)
	require.NoError(t, cfg.Validate())
}

func TestLoadFileAndEnvPrecedence(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "formwizard.yml", `
server:
  addr: ":9090"
predict:
  url: "http://predict.internal/predict"
  timeout: 3s
cache:
  driver: none
log:
  level: debug
  format: console
`)
	t.Setenv("FORMWIZARD_SERVER_ADDR", ":7070")
	t.Setenv("FORMWIZARD_SERVER_CSRF", "false")

	cfg, err := Load(Options{File: file, EnvFile: filepath.Join(dir, "missing.env")})
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.Server.Addr)
	assert.False(t, cfg.Server.CSRF)
	assert.Equal(t, "http://predict.internal/predict", cfg.Predict.URL)
	assert.Equal(t, 3*time.Second, cfg.Predict.Timeout)
	assert.Equal(t, CacheNone, cfg.Cache.Driver)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := writeFile(t, dir, "test.env", "FORMWIZARD_THEME_VARIANT=dark\nFORMWIZARD_RATELIMIT_CAPACITY=3\n")
	t.Cleanup(func() {
		os.Unsetenv("FORMWIZARD_THEME_VARIANT")
		os.Unsetenv("FORMWIZARD_RATELIMIT_CAPACITY")
	})

	cfg, err := Load(Options{EnvFile: envFile})
	require.NoError(t, err)

	assert.Equal(t, "dark", cfg.Theme.Variant)
	assert.Equal(t, 3, cfg.RateLimit.Capacity)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	dir := t.TempDir()

	cases := map[string]string{
		"unknown cache driver":   "cache:\n  driver: memcached\n",
		"bad log level":          "log:\n  level: loud\n",
		"bad predict url":        "predict:\n  url: not a url\n",
		"redis without addr":     "cache:\n  driver: redis\nredis:\n  addr: \"\"\n",
		"limiter without window": "ratelimit:\n  capacity: 5\n  window: 0s\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			file := writeFile(t, dir, "formwizard.yml", body)
			_, err := Load(Options{File: file, EnvFile: filepath.Join(dir, "missing.env")})
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(Options{File: filepath.Join(t.TempDir(), "nope.yml")})
	assert.Error(t, err)
}
