package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/yndnr/falcon-speak/internal/core/domain"
	"github.com/yndnr/falcon-speak/internal/falcon"
	"github.com/yndnr/falcon-speak/internal/storage"
	"github.com/yndnr/falcon-speak/internal/telemetry/logger"
)

// CLIConfig is the configuration for falcon-speak.
type CLIConfig struct {
	API     APIConfig     `koanf:"api" yaml:"api"`
	Token   TokenConfig   `koanf:"token" yaml:"token"`
	Query   QueryConfig   `koanf:"query" yaml:"query"`
	Output  OutputConfig  `koanf:"output" yaml:"output"`
	Log     LogConfig     `koanf:"log" yaml:"log"`
	Metrics MetricsConfig `koanf:"metrics" yaml:"metrics"`
}

// APIConfig holds the Falcon API connection settings.
type APIConfig struct {
	BaseURL      string        `koanf:"base_url" yaml:"base_url"`
	ClientID     string        `koanf:"client_id" yaml:"client_id,omitempty"`
	ClientSecret string        `koanf:"client_secret" yaml:"client_secret,omitempty"`
	Timeout      time.Duration `koanf:"timeout" yaml:"timeout"`
	UserAgent    string        `koanf:"user_agent" yaml:"user_agent,omitempty"`
	CAFile       string        `koanf:"ca_file" yaml:"ca_file,omitempty"`
}

// TokenConfig selects where the bearer token is cached.
type TokenConfig struct {
	Store         string `koanf:"store" yaml:"store"` // file, memory, badger
	Path          string `koanf:"path" yaml:"path"`
	BadgerDir     string `koanf:"badger_dir" yaml:"badger_dir,omitempty"`
	EncryptionKey string `koanf:"encryption_key" yaml:"encryption_key,omitempty"`
}

// QueryConfig is the default page window.
type QueryConfig struct {
	Offset int `koanf:"offset" yaml:"offset"`
	Limit  int `koanf:"limit" yaml:"limit"`
}

// OutputConfig controls rendering.
type OutputConfig struct {
	Format string `koanf:"format" yaml:"format"` // table, json, yaml
	Wide   bool   `koanf:"wide" yaml:"wide"`
}

// LogConfig controls diagnostics on stderr.
type LogConfig struct {
	Level   string `koanf:"level" yaml:"level"`
	Format  string `koanf:"format" yaml:"format"`
	Backend string `koanf:"backend" yaml:"backend"`
}

// MetricsConfig controls the Prometheus textfile export.
type MetricsConfig struct {
	Textfile string `koanf:"textfile" yaml:"textfile,omitempty"`
}

// DefaultDir returns the per-user state directory.
func DefaultDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".falcon-speak"
	}
	return filepath.Join(homeDir, ".falcon-speak")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	return filepath.Join(DefaultDir(), "config.yaml")
}

// DefaultTokenPath returns the default token file path.
func DefaultTokenPath() string {
	return filepath.Join(DefaultDir(), "token")
}

// Default returns the default configuration.
func Default() *CLIConfig {
	lc := logger.DefaultConfig()
	return &CLIConfig{
		API: APIConfig{
			BaseURL: falcon.DefaultBaseURL,
			Timeout: 30 * time.Second,
		},
		Token: TokenConfig{
			Store: storage.KindFile,
			Path:  DefaultTokenPath(),
		},
		Query: QueryConfig{
			Offset: domain.DefaultOffset,
			Limit:  domain.DefaultLimit,
		},
		Output: OutputConfig{
			Format: "table",
		},
		Log: LogConfig{
			Level:   lc.Level,
			Format:  lc.Format,
			Backend: lc.Backend,
		},
	}
}

// Page returns the configured page window.
func (c *CLIConfig) Page() domain.Page {
	return domain.Page{Offset: c.Query.Offset, Limit: c.Query.Limit}
}

// StorageConfig maps the token section onto the storage layer.
func (c *CLIConfig) StorageConfig() storage.Config {
	return storage.Config{
		Kind:          c.Token.Store,
		Path:          c.Token.Path,
		BadgerDir:     c.Token.BadgerDir,
		EncryptionKey: c.Token.EncryptionKey,
	}
}

// LoggerConfig maps the log section onto the logger.
func (c *CLIConfig) LoggerConfig() logger.Config {
	lc := logger.DefaultConfig()
	lc.Level = c.Log.Level
	lc.Format = c.Log.Format
	lc.Backend = c.Log.Backend
	return lc
}

// Redacted returns a copy with secrets masked, for display.
func (c *CLIConfig) Redacted() *CLIConfig {
	cp := *c
	cp.API.ClientSecret = maskSecret(cp.API.ClientSecret)
	cp.Token.EncryptionKey = maskSecret(cp.Token.EncryptionKey)
	return &cp
}

func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	return "***REDACTED***"
}
