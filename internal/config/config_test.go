package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("GITHUB_TOKEN", "")
	t.Setenv("AUTOFIX_GITHUB_TOKEN", "")
	return home
}

func TestLoad_Defaults(t *testing.T) {
	home := isolateHome(t)

	cfg, err := Load(New(), "")
	require.NoError(t, err)

	assert.Equal(t, 100, cfg.Scan.MaxFiles)
	assert.Equal(t, int64(102400), cfg.Scan.MaxFileSize)
	assert.Equal(t, 50, cfg.Scan.MaxContentFetches)
	assert.Equal(t, 10*time.Second, cfg.Scan.ReadTimeout)
	assert.True(t, cfg.Scan.RespectGitignore)
	assert.Equal(t, "https://api.github.com", cfg.GitHub.APIURL)
	assert.Equal(t, "qwen3:8b", cfg.LLM.Model)
	assert.Equal(t, 5*time.Minute, cfg.LLM.Timeout)
	assert.Equal(t, filepath.Join(home, ".autofix", "reports.db"), cfg.Store.Path)
	assert.Equal(t, filepath.Join(home, ".autofix", "autofix.log"), cfg.Log.File)
}

func TestLoad_File(t *testing.T) {
	isolateHome(t)
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
scan:
  max_files: 10
  read_timeout: 2s
llm:
  model: llama3.2
log:
  level: debug
`), 0o644))

	cfg, err := Load(New(), path)
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Scan.MaxFiles)
	assert.Equal(t, 2*time.Second, cfg.Scan.ReadTimeout)
	assert.Equal(t, "llama3.2", cfg.LLM.Model)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 50, cfg.Scan.MaxContentFetches)
}

func TestLoad_HomeConfigFile(t *testing.T) {
	home := isolateHome(t)
	dir := filepath.Join(home, ".config", "autofix")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("scan:\n  max_files: 7\n"), 0o644))

	cfg, err := Load(New(), "")
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Scan.MaxFiles)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	isolateHome(t)
	_, err := Load(New(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_Env(t *testing.T) {
	isolateHome(t)
	t.Setenv("AUTOFIX_SCAN_MAX_FILE_SIZE", "2048")
	t.Setenv("AUTOFIX_LLM_URL", "http://gpu:11434")
	t.Setenv("GITHUB_TOKEN", "ghp_fallback")

	cfg, err := Load(New(), "")
	require.NoError(t, err)
	assert.Equal(t, int64(2048), cfg.Scan.MaxFileSize)
	assert.Equal(t, "http://gpu:11434", cfg.LLM.URL)
	assert.Equal(t, "ghp_fallback", cfg.GitHub.Token)

	t.Setenv("AUTOFIX_GITHUB_TOKEN", "ghp_preferred")
	cfg, err = Load(New(), "")
	require.NoError(t, err)
	assert.Equal(t, "ghp_preferred", cfg.GitHub.Token)
}

func TestLoad_OverridesViaViper(t *testing.T) {
	isolateHome(t)
	v := New()
	v.Set("scan.respect_gitignore", false)

	cfg, err := Load(v, "")
	require.NoError(t, err)
	assert.False(t, cfg.Scan.RespectGitignore)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero max files", func(c *Config) { c.Scan.MaxFiles = 0 }},
		{"zero max size", func(c *Config) { c.Scan.MaxFileSize = 0 }},
		{"negative fetches", func(c *Config) { c.Scan.MaxContentFetches = -1 }},
		{"zero fetches", func(c *Config) { c.Scan.MaxContentFetches = 0 }},
		{"no llm url", func(c *Config) { c.LLM.URL = "" }},
		{"no model", func(c *Config) { c.LLM.Model = "" }},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }},
	}
	require.NoError(t, DefaultConfig().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestScannerConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Scan.MaxFiles = 3
	sc := cfg.ScannerConfig(nil)
	assert.Equal(t, 3, sc.Limits.MaxFiles)
	assert.Equal(t, int64(102400), sc.Limits.MaxFileSize)
	assert.NotNil(t, sc.Tables)

	opts := cfg.GitHubOptions()
	assert.Equal(t, 30*time.Second, opts.Timeout)
}
