package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/yndnr/falcon-speak/internal/core/domain"
)

// isolate points HOME at a temp dir so the user's real config is never read.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.API.BaseURL != "https://api.crowdstrike.com" {
		t.Errorf("BaseURL = %q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", cfg.API.Timeout)
	}
	if cfg.Token.Store != "file" {
		t.Errorf("Token.Store = %q, want file", cfg.Token.Store)
	}
	if cfg.Query.Offset != 0 || cfg.Query.Limit != 10 {
		t.Errorf("Query = %+v, want offset 0 limit 10", cfg.Query)
	}
	if cfg.Output.Format != "table" {
		t.Errorf("Output.Format = %q, want table", cfg.Output.Format)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %q, want warn", cfg.Log.Level)
	}
}

func TestDefaultPaths(t *testing.T) {
	home := isolate(t)

	if got, want := DefaultConfigPath(), filepath.Join(home, ".falcon-speak", "config.yaml"); got != want {
		t.Errorf("DefaultConfigPath() = %q, want %q", got, want)
	}
	if got, want := DefaultTokenPath(), filepath.Join(home, ".falcon-speak", "token"); got != want {
		t.Errorf("DefaultTokenPath() = %q, want %q", got, want)
	}
}

func TestLoad_NoFile(t *testing.T) {
	isolate(t)

	cfg, err := Load(LoadOptions{})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Query.Limit != 10 {
		t.Errorf("Limit = %d, want default 10", cfg.Query.Limit)
	}
}

func TestLoad_ExplicitFileMissing(t *testing.T) {
	isolate(t)

	_, err := Load(LoadOptions{Path: filepath.Join(t.TempDir(), "nope.yaml")})
	if err == nil {
		t.Error("Load() should fail for a missing explicit config file")
	}
}

func TestLoad_ExplicitFileAllowMissing(t *testing.T) {
	isolate(t)

	cfg, err := Load(LoadOptions{Path: filepath.Join(t.TempDir(), "new.yaml"), AllowMissing: true})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Output.Format != "table" {
		t.Errorf("Output.Format = %q, want default table", cfg.Output.Format)
	}
}

func TestLoad_Layers(t *testing.T) {
	isolate(t)
	dir := t.TempDir()

	cfgPath := filepath.Join(dir, "config.yaml")
	content := `
api:
  base_url: https://api.eu-1.crowdstrike.com
  client_id: file-id
  timeout: 5s
query:
  limit: 50
output:
  format: json
`
	if err := os.WriteFile(cfgPath, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	envPath := filepath.Join(dir, ".env")
	if err := os.WriteFile(envPath, []byte("FALCON_API_CLIENT_SECRET=dotenv-secret\n"), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("FALCON_API_CLIENT_SECRET", "")
	os.Unsetenv("FALCON_API_CLIENT_SECRET")
	t.Setenv("FALCON_QUERY_LIMIT", "75")

	cfg, err := Load(LoadOptions{
		Path:      cfgPath,
		DotEnv:    []string{envPath},
		Overrides: map[string]any{"output.format": "yaml"},
	})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.API.BaseURL != "https://api.eu-1.crowdstrike.com" {
		t.Errorf("BaseURL = %q", cfg.API.BaseURL)
	}
	if cfg.API.ClientID != "file-id" {
		t.Errorf("ClientID = %q, want file-id", cfg.API.ClientID)
	}
	if cfg.API.ClientSecret != "dotenv-secret" {
		t.Errorf("ClientSecret = %q, want dotenv-secret", cfg.API.ClientSecret)
	}
	if cfg.API.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", cfg.API.Timeout)
	}
	if cfg.Query.Limit != 75 {
		t.Errorf("Limit = %d, want 75 (env over file)", cfg.Query.Limit)
	}
	if cfg.Output.Format != "yaml" {
		t.Errorf("Format = %q, want yaml (flag over file)", cfg.Output.Format)
	}
	if cfg.Token.Store != "file" {
		t.Errorf("Token.Store = %q, want default file", cfg.Token.Store)
	}
}

func TestLoad_ReportsUnknownKeys(t *testing.T) {
	isolate(t)
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	content := "api:\n  client_id: id\n  clientsecret: typo\noutput:\n  wide: true\n"
	if err := os.WriteFile(cfgPath, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	var unknown []string
	cfg, err := Load(LoadOptions{
		Path:         cfgPath,
		Overrides:    map[string]any{"api.timeout": "5s"},
		OnUnknownKey: func(k string) { unknown = append(unknown, k) },
	})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.API.ClientID != "id" || !cfg.Output.Wide {
		t.Errorf("known keys not applied: %+v", cfg)
	}

	found := false
	for _, k := range unknown {
		switch k {
		case "api.clientsecret":
			found = true
		case "api.client_id", "output.wide", "api.timeout", "token.path", "query.limit":
			t.Errorf("known key %q reported as unknown", k)
		}
	}
	if !found {
		t.Errorf("unknown keys = %v, want api.clientsecret", unknown)
	}
}

func TestSave_RoundTrip(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")

	cfg := Default()
	cfg.API.ClientID = "id"
	cfg.API.ClientSecret = "secret"
	cfg.Token.EncryptionKey = "a passphrase that is long enough"
	cfg.Query.Limit = 42

	if err := Save(cfg, path, false); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("mode = %o, want 600", perm)
	}

	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "secret") || strings.Contains(string(data), "passphrase") {
		t.Errorf("secrets leaked into saved config:\n%s", data)
	}

	loaded, err := Load(LoadOptions{Path: path})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.API.ClientID != "id" {
		t.Errorf("ClientID = %q, want id", loaded.API.ClientID)
	}
	if loaded.API.ClientSecret != "" {
		t.Errorf("ClientSecret = %q, want empty", loaded.API.ClientSecret)
	}
	if loaded.Query.Limit != 42 {
		t.Errorf("Limit = %d, want 42", loaded.Query.Limit)
	}
	if loaded.API.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", loaded.API.Timeout)
	}
}

func TestSave_WithSecrets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := Default()
	cfg.API.ClientSecret = "keep-me"
	if err := Save(cfg, path, true); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "keep-me") {
		t.Errorf("secret should be saved when requested:\n%s", data)
	}
}

func TestRedacted(t *testing.T) {
	cfg := Default()
	cfg.API.ClientSecret = "secret"
	cfg.Token.EncryptionKey = "key"

	r := cfg.Redacted()
	if r.API.ClientSecret == "secret" || r.Token.EncryptionKey == "key" {
		t.Error("Redacted() should mask secrets")
	}
	if cfg.API.ClientSecret != "secret" {
		t.Error("Redacted() must not modify the original")
	}
	if Default().Redacted().API.ClientSecret != "" {
		t.Error("empty secrets should stay empty")
	}
}

func TestVerify(t *testing.T) {
	valid := func() *CLIConfig {
		cfg := Default()
		cfg.API.ClientID = "id"
		cfg.API.ClientSecret = "secret"
		return cfg
	}

	tests := []struct {
		name        string
		mutate      func(*CLIConfig)
		needCreds   bool
		wantErr     bool
		wantErrIs   error
		errContains string
	}{
		{name: "valid", mutate: func(*CLIConfig) {}, needCreds: true},
		{name: "host without scheme", mutate: func(c *CLIConfig) { c.API.BaseURL = "api.us-2.crowdstrike.com" }},
		{name: "empty base url", mutate: func(c *CLIConfig) { c.API.BaseURL = "" }, wantErr: true, errContains: "base_url"},
		{name: "ftp base url", mutate: func(c *CLIConfig) { c.API.BaseURL = "ftp://x" }, wantErr: true, errContains: "scheme"},
		{
			name:      "missing credentials",
			mutate:    func(c *CLIConfig) { c.API.ClientSecret = "" },
			needCreds: true,
			wantErr:   true,
			wantErrIs: domain.ErrMissingCredentials,
		},
		{name: "credentials optional", mutate: func(c *CLIConfig) { c.API.ClientID = "" }},
		{name: "unknown store", mutate: func(c *CLIConfig) { c.Token.Store = "vault" }, wantErr: true, errContains: "token.store"},
		{name: "file store without path", mutate: func(c *CLIConfig) { c.Token.Path = "" }, wantErr: true, errContains: "token.path"},
		{name: "memory store", mutate: func(c *CLIConfig) { c.Token.Store = "memory"; c.Token.Path = "" }},
		{name: "weak key", mutate: func(c *CLIConfig) { c.Token.EncryptionKey = "short" }, wantErr: true, errContains: "encryption_key"},
		{name: "limit too high", mutate: func(c *CLIConfig) { c.Query.Limit = 10000 }, wantErr: true, wantErrIs: domain.ErrInvalidArgument},
		{name: "bad output", mutate: func(c *CLIConfig) { c.Output.Format = "xml" }, wantErr: true, errContains: "output.format"},
		{name: "bad backend", mutate: func(c *CLIConfig) { c.Log.Backend = "logrus" }, wantErr: true, errContains: "log.backend"},
		{name: "bad level", mutate: func(c *CLIConfig) { c.Log.Level = "loud" }, wantErr: true, errContains: "log.level"},
		{name: "bad log format", mutate: func(c *CLIConfig) { c.Log.Format = "xml" }, wantErr: true, errContains: "log.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := Verify(cfg, tt.needCreds)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Verify() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErrIs != nil && !errors.Is(err, tt.wantErrIs) {
				t.Errorf("Verify() error = %v, want errors.Is %v", err, tt.wantErrIs)
			}
			if tt.errContains != "" && !strings.Contains(err.Error(), tt.errContains) {
				t.Errorf("Verify() error = %q, want it to mention %q", err, tt.errContains)
			}
		})
	}
}

func TestVerify_CollectsAllErrors(t *testing.T) {
	cfg := Default()
	cfg.Output.Format = "xml"
	cfg.Token.Store = "vault"

	err := Verify(cfg, false)
	if err == nil {
		t.Fatal("Verify() should fail")
	}
	for _, want := range []string{"output.format", "token.store"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q should mention %q", err, want)
		}
	}
}

func TestStorageAndLoggerConfig(t *testing.T) {
	cfg := Default()
	cfg.Token.Store = "badger"
	cfg.Token.BadgerDir = "/tmp/b"
	cfg.Log.Backend = "zap"

	sc := cfg.StorageConfig()
	if sc.Kind != "badger" || sc.BadgerDir != "/tmp/b" {
		t.Errorf("StorageConfig() = %+v", sc)
	}
	lc := cfg.LoggerConfig()
	if lc.Backend != "zap" || lc.Level != "warn" {
		t.Errorf("LoggerConfig() = %+v", lc)
	}
	if p := cfg.Page(); p != domain.DefaultPage() {
		t.Errorf("Page() = %+v, want default", p)
	}
}
