package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/yndnr/falcon-speak/internal/infra/confloader"
)

// LoadOptions controls where configuration is read from.
type LoadOptions struct {
	// Path is an explicit config file. It must exist. When empty the
	// default path is used if present.
	Path string
	// AllowMissing tolerates a missing Path, for commands that create it.
	AllowMissing bool
	// DotEnv lists .env files loaded into the environment first.
	DotEnv []string
	// Overrides holds flag values keyed by dotted config key.
	Overrides map[string]any
	// OnUnknownKey, when set, is called for each loaded key CLIConfig has
	// no field for.
	OnUnknownKey func(key string)
}

// Load builds the effective configuration.
// Priority: flags > environment > .env > file > defaults.
func Load(opts LoadOptions) (*CLIConfig, error) {
	cfg := Default()

	loaderOpts := []confloader.Option{
		confloader.WithEnvPrefix(confloader.DefaultEnvPrefix),
		confloader.WithDefaults(defaultValues(cfg)),
		confloader.WithDotEnv(opts.DotEnv...),
		confloader.WithOverrides(opts.Overrides),
	}
	switch {
	case opts.Path != "" && opts.AllowMissing:
		loaderOpts = append(loaderOpts, confloader.WithOptionalConfigFile(opts.Path))
	case opts.Path != "":
		loaderOpts = append(loaderOpts, confloader.WithConfigFile(opts.Path))
	default:
		loaderOpts = append(loaderOpts, confloader.WithOptionalConfigFile(DefaultConfigPath()))
	}

	l := confloader.NewLoader(loaderOpts...)
	if err := l.Load(cfg); err != nil {
		return nil, err
	}
	if opts.OnUnknownKey != nil {
		for _, k := range l.UnknownKeys(cfg) {
			opts.OnUnknownKey(k)
		}
	}
	return cfg, nil
}

func defaultValues(cfg *CLIConfig) map[string]any {
	return map[string]any{
		"api.base_url":     cfg.API.BaseURL,
		"api.timeout":      cfg.API.Timeout.String(),
		"token.store":      cfg.Token.Store,
		"token.path":       cfg.Token.Path,
		"query.offset":     cfg.Query.Offset,
		"query.limit":      cfg.Query.Limit,
		"output.format":    cfg.Output.Format,
		"output.wide":      cfg.Output.Wide,
		"log.level":        cfg.Log.Level,
		"log.format":       cfg.Log.Format,
		"log.backend":      cfg.Log.Backend,
		"metrics.textfile": cfg.Metrics.Textfile,
	}
}

// Save writes cfg as YAML with mode 0600. Secrets are omitted unless
// withSecrets is set.
func Save(cfg *CLIConfig, path string, withSecrets bool) error {
	if path == "" {
		path = DefaultConfigPath()
	}

	out := *cfg
	if !withSecrets {
		out.API.ClientSecret = ""
		out.Token.EncryptionKey = ""
	}

	data, err := yaml.Marshal(&out)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	// WriteFile keeps the mode of an existing file
	if err := os.Chmod(path, 0600); err != nil {
		return fmt.Errorf("chmod config: %w", err)
	}
	return nil
}
