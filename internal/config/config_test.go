package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/compass-agent/internal/config"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	chdirTemp(t)
	t.Setenv("COMPASS_CONFIG", "")
	t.Setenv("GEMINI_API_KEY", "")

	cfg, err := config.Load()
	require.NoError(t, err)
	require.NoError(t, config.Validate(cfg))

	assert.Equal(t, config.ModeLocal, cfg.Mode)
	assert.Equal(t, "8080", cfg.HTTP.Port)
	assert.Equal(t, 10*time.Second, cfg.HTTP.ShutdownTimeout)
	assert.Equal(t, "mock", cfg.LLM.Provider)
	assert.Equal(t, []string{"gemini-3-flash-preview", "gemini-2.5-flash"}, cfg.LLM.PlanModels)
	assert.Equal(t, "memory", cfg.Storage.Backend)
	assert.Equal(t, 700*time.Millisecond, cfg.Client.Debounce)
}

func TestLoad_EnvOverrides(t *testing.T) {
	chdirTemp(t)
	t.Setenv("COMPASS_CONFIG", "")
	t.Setenv("COMPASS_LLM_PROVIDER", "gemini")
	t.Setenv("GEMINI_API_KEY", "secret")
	t.Setenv("COMPASS_LLM_CHAT_MODELS", "gemini-2.5-flash,gemini-2.5-flash-lite")
	t.Setenv("COMPASS_STORAGE_BACKEND", "sqlite")
	t.Setenv("COMPASS_CLIENT_DEBOUNCE", "50ms")

	cfg, err := config.Load()
	require.NoError(t, err)
	require.NoError(t, config.Validate(cfg))

	assert.Equal(t, "secret", cfg.LLM.APIKey)
	assert.Equal(t, []string{"gemini-2.5-flash", "gemini-2.5-flash-lite"}, cfg.LLM.ChatModels)
	assert.Equal(t, "sqlite", cfg.Storage.Backend)
	assert.Equal(t, 50*time.Millisecond, cfg.Client.Debounce)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := chdirTemp(t)
	t.Setenv("COMPASS_CONFIG", "")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "compass.yaml"), []byte(`
mode: gcp
gcp:
  project: my-project
storage:
  backend: firestore
auth:
  tokens: "t1=alice, t2=bob"
`), 0o600))

	cfg, err := config.Load()
	require.NoError(t, err)
	require.NoError(t, config.Validate(cfg))

	assert.Equal(t, config.ModeGCP, cfg.Mode)
	table, err := cfg.Auth.TokenTable()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"t1": "alice", "t2": "bob"}, table)
}

func TestValidate(t *testing.T) {
	base := func(t *testing.T) *config.Config {
		t.Helper()
		chdirTemp(t)
		t.Setenv("COMPASS_CONFIG", "")
		cfg, err := config.Load()
		require.NoError(t, err)
		return cfg
	}

	cases := []struct {
		name   string
		mutate func(*config.Config)
		want   error
	}{
		{"bad mode", func(c *config.Config) { c.Mode = "cloud" }, config.ErrInvalidMode},
		{"gemini without key", func(c *config.Config) { c.LLM.Provider = "gemini"; c.LLM.APIKey = "" }, config.ErrInvalidLLM},
		{"vertex without project", func(c *config.Config) {
			c.LLM.Provider = "gemini"
			c.LLM.Backend = "vertex"
			c.GCP.Project = ""
		}, config.ErrInvalidLLM},
		{"no models", func(c *config.Config) { c.LLM.PlanModels = nil }, config.ErrInvalidLLM},
		{"unknown storage", func(c *config.Config) { c.Storage.Backend = "mongo" }, config.ErrInvalidStorage},
		{"firestore without project", func(c *config.Config) { c.Storage.Backend = "firestore"; c.GCP.Project = "" }, config.ErrInvalidStorage},
		{"malformed tokens", func(c *config.Config) { c.Auth.Tokens = "t1" }, config.ErrInvalidAuth},
		{"header trust outside local", func(c *config.Config) {
			c.Mode = config.ModeGCP
			c.Auth.TrustUserHeader = true
		}, config.ErrInvalidAuth},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base(t)
			tc.mutate(cfg)
			require.ErrorIs(t, config.Validate(cfg), tc.want)
		})
	}
}
