// Package config loads autofix settings from defaults, an optional YAML file,
// .env and AUTOFIX_* environment variables, and bound command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/yuvraj20122008-del/autofix-my-code/internal/classify"
	"github.com/yuvraj20122008-del/autofix-my-code/internal/github"
	"github.com/yuvraj20122008-del/autofix-my-code/internal/scan"
)

// Config holds the complete application configuration.
type Config struct {
	Scan   ScanConfig   `mapstructure:"scan"`
	GitHub GitHubConfig `mapstructure:"github"`
	LLM    LLMConfig    `mapstructure:"llm"`
	Store  StoreConfig  `mapstructure:"store"`
	Log    LogConfig    `mapstructure:"log"`
}

// ScanConfig holds scanner caps.
type ScanConfig struct {
	MaxFiles          int           `mapstructure:"max_files"`
	MaxFileSize       int64         `mapstructure:"max_file_size"`
	MaxContentFetches int           `mapstructure:"max_content_fetches"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	RespectGitignore  bool          `mapstructure:"respect_gitignore"`
}

// GitHubConfig holds GitHub endpoints and credentials.
type GitHubConfig struct {
	APIURL  string        `mapstructure:"api_url"`
	RawURL  string        `mapstructure:"raw_url"`
	Token   string        `mapstructure:"token"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// LLMConfig holds the chat model endpoint.
type LLMConfig struct {
	URL             string        `mapstructure:"url"`
	Model           string        `mapstructure:"model"`
	Timeout         time.Duration `mapstructure:"timeout"`
	MaxContentChars int           `mapstructure:"max_content_chars"`
}

// StoreConfig holds the report database location.
type StoreConfig struct {
	Path string `mapstructure:"path"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// DefaultConfig returns a new configuration with default values.
func DefaultConfig() *Config {
	limits := scan.DefaultLimits()
	return &Config{
		Scan: ScanConfig{
			MaxFiles:          limits.MaxFiles,
			MaxFileSize:       limits.MaxFileSize,
			MaxContentFetches: limits.MaxContentFetches,
			ReadTimeout:       10 * time.Second,
			RespectGitignore:  true,
		},
		GitHub: GitHubConfig{
			APIURL:  github.DefaultAPIURL,
			RawURL:  github.DefaultRawURL,
			Timeout: 30 * time.Second,
		},
		LLM: LLMConfig{
			URL:             "http://localhost:11434",
			Model:           "qwen3:8b",
			Timeout:         5 * time.Minute,
			MaxContentChars: 4000,
		},
		Store: StoreConfig{
			Path: "~/.autofix/reports.db",
		},
		Log: LogConfig{
			Level: "info",
			File:  "~/.autofix/autofix.log",
		},
	}
}

// New returns a viper instance with defaults and environment bindings set.
// Callers may bind flags to it before calling Load.
func New() *viper.Viper {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("AUTOFIX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("github.token", "AUTOFIX_GITHUB_TOKEN", "GITHUB_TOKEN")

	return v
}

// Load reads .env, the config file and the environment into a Config.
// An empty configPath searches ./autofix.yaml and ~/.config/autofix/config.yaml.
func Load(v *viper.Viper, configPath string) (*Config, error) {
	// Missing .env is fine.
	_ = godotenv.Load()

	if configPath == "" {
		configPath = findConfigFile()
	}
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.Store.Path = expandHome(cfg.Store.Path)
	cfg.Log.File = expandHome(cfg.Log.File)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Scan.MaxFiles <= 0 {
		return fmt.Errorf("scan.max_files must be positive, got %d", c.Scan.MaxFiles)
	}
	if c.Scan.MaxFileSize <= 0 {
		return fmt.Errorf("scan.max_file_size must be positive, got %d", c.Scan.MaxFileSize)
	}
	if c.Scan.MaxContentFetches <= 0 {
		return fmt.Errorf("scan.max_content_fetches must be positive, got %d", c.Scan.MaxContentFetches)
	}
	if c.LLM.URL == "" {
		return errors.New("llm.url is required")
	}
	if c.LLM.Model == "" {
		return errors.New("llm.model is required")
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log.level %q", c.Log.Level)
	}
	return nil
}

// ScannerConfig converts the scan settings into a scanner configuration.
func (c *Config) ScannerConfig(logger *zerolog.Logger) scan.Config {
	return scan.Config{
		Limits: scan.Limits{
			MaxFiles:          c.Scan.MaxFiles,
			MaxFileSize:       c.Scan.MaxFileSize,
			MaxContentFetches: c.Scan.MaxContentFetches,
		},
		Tables:      classify.Default(),
		ReadTimeout: c.Scan.ReadTimeout,
		Logger:      logger,
	}
}

// GitHubOptions converts the GitHub settings into client options.
func (c *Config) GitHubOptions() github.Options {
	return github.Options{
		APIURL:  c.GitHub.APIURL,
		RawURL:  c.GitHub.RawURL,
		Token:   c.GitHub.Token,
		Timeout: c.GitHub.Timeout,
	}
}

func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("scan.max_files", d.Scan.MaxFiles)
	v.SetDefault("scan.max_file_size", d.Scan.MaxFileSize)
	v.SetDefault("scan.max_content_fetches", d.Scan.MaxContentFetches)
	v.SetDefault("scan.read_timeout", d.Scan.ReadTimeout)
	v.SetDefault("scan.respect_gitignore", d.Scan.RespectGitignore)
	v.SetDefault("github.api_url", d.GitHub.APIURL)
	v.SetDefault("github.raw_url", d.GitHub.RawURL)
	v.SetDefault("github.token", d.GitHub.Token)
	v.SetDefault("github.timeout", d.GitHub.Timeout)
	v.SetDefault("llm.url", d.LLM.URL)
	v.SetDefault("llm.model", d.LLM.Model)
	v.SetDefault("llm.timeout", d.LLM.Timeout)
	v.SetDefault("llm.max_content_chars", d.LLM.MaxContentChars)
	v.SetDefault("store.path", d.Store.Path)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)
}

// findConfigFile returns the first default config file that exists, or "".
func findConfigFile() string {
	candidates := []string{"autofix.yaml"}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".config", "autofix", "config.yaml"))
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return os.ExpandEnv(p)
}
