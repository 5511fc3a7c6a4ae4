// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// chdirTemp isolates Load from any .env file in the package directory.
func chdirTemp(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	t.Chdir(dir)

	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8000", cfg.Server.Addr)
	assert.Equal(t, "gemini-2.5-flash", cfg.Gemini.Model)
	assert.Equal(t, 90*time.Second, cfg.Gemini.Timeout)
	assert.Equal(t, 10*time.Second, cfg.Maps.Timeout)
	assert.Equal(t, 0, cfg.Enrich.MaxProcs)
	assert.Equal(t, time.Duration(0), cfg.Enrich.LookupTimeout)
	assert.Equal(t, 3, cfg.Enrich.H3Resolution)
	assert.Equal(t, "static", cfg.Static.Dir)
	assert.Equal(t, []string{"http://localhost:5173", "http://127.0.0.1:5173"}, cfg.CORS.Origins())
	assert.True(t, cfg.CORS.AllowCredentials)
}

func TestLoadEnvOverrides(t *testing.T) {
	chdirTemp(t)
	t.Setenv("SERVER_ADDR", "127.0.0.1:9090")
	t.Setenv("GEMINI_API_KEY", "gemini-key")
	t.Setenv("MAPS_API_KEY", "maps-key")
	t.Setenv("ENRICH_MAX_PROCS", "4")
	t.Setenv("ENRICH_LOOKUP_TIMEOUT", "3s")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9090", cfg.Server.Addr)
	assert.Equal(t, "gemini-key", cfg.Gemini.APIKey)
	assert.Equal(t, "maps-key", cfg.Maps.APIKey)
	assert.Equal(t, 4, cfg.Enrich.MaxProcs)
	assert.Equal(t, 3*time.Second, cfg.Enrich.LookupTimeout)
}

func TestLoadDotEnv(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("GEMINI_MODEL=gemini-test\n"), 0o600))

	t.Cleanup(func() { os.Unsetenv("GEMINI_MODEL") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "gemini-test", cfg.Gemini.Model)
}

func TestLoadYAML(t *testing.T) {
	dir := chdirTemp(t)
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: ":7070"
enrich:
  max_procs: 8
  h3_resolution: 5
static:
  dir: "/srv/app"
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.Server.Addr)
	assert.Equal(t, 8, cfg.Enrich.MaxProcs)
	assert.Equal(t, 5, cfg.Enrich.H3Resolution)
	assert.Equal(t, "/srv/app", cfg.Static.Dir)
}

func TestLoadMissingFile(t *testing.T) {
	chdirTemp(t)

	_, err := Load("does-not-exist.yaml")
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Server: ServerConfig{Addr: ":8000"},
			Gemini: GeminiConfig{Model: "m", Timeout: time.Second},
			Maps:   MapsConfig{Timeout: time.Second},
			Enrich: EnrichConfig{H3Resolution: 3},
			Static: StaticConfig{Dir: "static"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"empty addr", func(c *Config) { c.Server.Addr = " " }, true},
		{"empty model", func(c *Config) { c.Gemini.Model = "" }, true},
		{"zero gemini timeout", func(c *Config) { c.Gemini.Timeout = 0 }, true},
		{"zero maps timeout", func(c *Config) { c.Maps.Timeout = 0 }, true},
		{"negative max procs", func(c *Config) { c.Enrich.MaxProcs = -1 }, true},
		{"negative lookup timeout", func(c *Config) { c.Enrich.LookupTimeout = -time.Second }, true},
		{"h3 resolution too fine", func(c *Config) { c.Enrich.H3Resolution = 16 }, true},
		{"empty static dir", func(c *Config) { c.Static.Dir = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestOrigins(t *testing.T) {
	c := CORSConfig{AllowedOrigins: " https://a.example , ,https://b.example"}
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, c.Origins())
	assert.Nil(t, CORSConfig{}.Origins())
}

func TestResolveMapsKeyConfigured(t *testing.T) {
	key, err := ResolveMapsKey(context.Background(), MapsConfig{APIKey: "k"}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "k", key)
}
