package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/yndnr/falcon-speak/internal/core/domain"
	"github.com/yndnr/falcon-speak/internal/storage"
	"github.com/yndnr/falcon-speak/internal/telemetry/logger"
	"github.com/yndnr/falcon-speak/pkg/crypto/adaptive"
)

// Verify checks cfg. Credentials are only required when needCredentials
// is set, since most commands reuse a cached token.
func Verify(cfg *CLIConfig, needCredentials bool) error {
	var errs []error

	if err := verifyBaseURL(cfg.API.BaseURL); err != nil {
		errs = append(errs, err)
	}
	if cfg.API.Timeout < 0 {
		errs = append(errs, fmt.Errorf("api.timeout must not be negative"))
	}
	if needCredentials {
		if strings.TrimSpace(cfg.API.ClientID) == "" || strings.TrimSpace(cfg.API.ClientSecret) == "" {
			errs = append(errs, domain.ErrMissingCredentials)
		}
	}

	switch cfg.Token.Store {
	case storage.KindFile:
		if cfg.Token.Path == "" {
			errs = append(errs, fmt.Errorf("token.path is required for the file store"))
		}
	case storage.KindMemory, storage.KindBadger:
	default:
		errs = append(errs, fmt.Errorf("token.store %q must be one of file, memory, badger", cfg.Token.Store))
	}
	if cfg.Token.EncryptionKey != "" {
		if _, err := adaptive.ParseKey(cfg.Token.EncryptionKey); err != nil {
			errs = append(errs, fmt.Errorf("token.encryption_key: %w", err))
		}
	}

	if err := cfg.Page().Validate(); err != nil {
		errs = append(errs, err)
	}

	switch cfg.Output.Format {
	case "table", "json", "yaml":
	default:
		errs = append(errs, fmt.Errorf("output.format %q must be one of table, json, yaml", cfg.Output.Format))
	}

	switch strings.ToLower(cfg.Log.Backend) {
	case "", logger.BackendSlog, logger.BackendZap:
	default:
		errs = append(errs, fmt.Errorf("log.backend %q must be slog or zap", cfg.Log.Backend))
	}
	if _, err := logger.ParseLevel(cfg.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	switch strings.ToLower(cfg.Log.Format) {
	case "", logger.FormatText, "console", logger.FormatJSON:
	default:
		errs = append(errs, fmt.Errorf("log.format %q must be text or json", cfg.Log.Format))
	}

	return errors.Join(errs...)
}

func verifyBaseURL(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return fmt.Errorf("api.base_url is required")
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("api.base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api.base_url scheme %q must be http or https", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("api.base_url %q has no host", raw)
	}
	return nil
}
