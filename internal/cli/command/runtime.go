package command

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/urfave/cli/v2"

	"github.com/yndnr/falcon-speak/internal/cli/config"
	"github.com/yndnr/falcon-speak/internal/cli/output"
	"github.com/yndnr/falcon-speak/internal/core/service"
	"github.com/yndnr/falcon-speak/internal/falcon"
	"github.com/yndnr/falcon-speak/internal/infra/buildinfo"
	"github.com/yndnr/falcon-speak/internal/infra/shutdown"
	"github.com/yndnr/falcon-speak/internal/infra/tlsroots"
	"github.com/yndnr/falcon-speak/internal/storage"
	"github.com/yndnr/falcon-speak/internal/telemetry/logger"
	"github.com/yndnr/falcon-speak/internal/telemetry/metric"
)

const (
	runtimeKey      = "falcon-speak.runtime"
	shutdownTimeout = 5 * time.Second
)

// runtime holds everything one invocation needs. Store and client are
// opened lazily so config and version commands work offline.
type runtime struct {
	ctx       context.Context
	cfg       *config.CLIConfig
	cfgPath   string
	log       logger.Logger
	metrics   *metric.Registry
	requestID string
	stdout    io.Writer
	stderr    io.Writer
	shutdown  *shutdown.Handler

	store   storage.TokenStore
	tokens  *service.TokenService
	queries *service.QueryService
}

// flag name -> config key
var flagKeys = map[string]string{
	"base-url":         "api.base_url",
	"ca-file":          "api.ca_file",
	"client-id":        "api.client_id",
	"client-secret":    "api.client_secret",
	"token-path":       "token.path",
	"token-store":      "token.store",
	"output":           "output.format",
	"log-format":       "log.format",
	"log-backend":      "log.backend",
	"metrics-textfile": "metrics.textfile",
}

func flagOverrides(c *cli.Context) map[string]any {
	out := make(map[string]any)
	for name, key := range flagKeys {
		if c.IsSet(name) {
			out[key] = c.String(name)
		}
	}
	if c.IsSet("timeout") {
		out["api.timeout"] = c.Duration("timeout").String()
	}
	if c.IsSet("wide") {
		out["output.wide"] = c.Bool("wide")
	}
	if c.Bool("verbose") {
		out["log.level"] = "debug"
	}
	return out
}

func newRuntime(c *cli.Context) (*runtime, error) {
	args := c.Args()
	var unknown []string
	cfg, err := config.Load(config.LoadOptions{
		Path:         c.String("config"),
		AllowMissing: args.Get(0) == "config" && args.Get(1) == "init",
		DotEnv:       c.StringSlice("env-file"),
		Overrides:    flagOverrides(c),
		OnUnknownKey: func(k string) { unknown = append(unknown, k) },
	})
	if err != nil {
		return nil, err
	}

	lc := cfg.LoggerConfig()
	lc.Output = c.App.ErrWriter
	log, err := logger.New(lc)
	if err != nil {
		return nil, err
	}
	logger.SetDefault(log)
	for _, k := range unknown {
		log.Warn("ignoring unknown config setting", "setting", k)
	}

	ctx := c.Context
	if ctx == nil {
		ctx = context.Background()
	}
	requestID := ulid.Make().String()
	ctx = logger.WithRequestID(logger.WithLogger(ctx, log), requestID)

	cfgPath := c.String("config")
	if cfgPath == "" {
		cfgPath = config.DefaultConfigPath()
	}

	rt := &runtime{
		ctx:       ctx,
		cfg:       cfg,
		cfgPath:   cfgPath,
		log:       log,
		metrics:   metric.NewRegistry(),
		requestID: requestID,
		stdout:    c.App.Writer,
		stderr:    c.App.ErrWriter,
		shutdown:  shutdown.NewHandler(shutdownTimeout),
	}

	log.Debug("configuration loaded", "base_url", cfg.API.BaseURL, "token_store", cfg.Token.Store)
	return rt, nil
}

func runtimeFrom(c *cli.Context) (*runtime, error) {
	if rt, ok := c.App.Metadata[runtimeKey].(*runtime); ok {
		return rt, nil
	}
	return nil, errors.New("command runtime not initialized")
}

func (rt *runtime) openStore() (storage.TokenStore, error) {
	if rt.store != nil {
		return rt.store, nil
	}

	store, err := storage.Open(rt.cfg.StorageConfig(), rt.log)
	if err != nil {
		return nil, err
	}
	rt.store = store
	rt.metrics.MustRegister(metric.NewTokenCacheCollector(store))
	rt.shutdown.OnShutdown(func(context.Context) error {
		return store.Close()
	})
	return store, nil
}

func (rt *runtime) client() (*falcon.Client, error) {
	ua := rt.cfg.API.UserAgent
	if ua == "" {
		ua = buildinfo.UserAgent()
	}
	opts := []falcon.ClientOption{
		falcon.WithBaseURL(rt.cfg.API.BaseURL),
		falcon.WithCredentials(rt.cfg.API.ClientID, rt.cfg.API.ClientSecret),
		falcon.WithTimeout(rt.cfg.API.Timeout),
		falcon.WithUserAgent(ua),
		falcon.WithRequestID(rt.requestID),
		falcon.WithObserver(rt.metrics),
	}
	if ca := rt.cfg.API.CAFile; ca != "" {
		pool, err := tlsroots.FromFile(ca)
		if err != nil {
			return nil, err
		}
		opts = append(opts, falcon.WithHTTPClient(pool.HTTPClient(rt.cfg.API.Timeout)))
	}
	client, err := falcon.NewClient(opts...)
	if err != nil {
		return nil, err
	}
	rt.log.Debug("api client ready", "base_url", client.BaseURL())
	return client, nil
}

// tokenService verifies the configuration and wires the token lifecycle.
// Credentials are only demanded by commands that always request a token.
func (rt *runtime) tokenService(needCredentials bool) (*service.TokenService, error) {
	if err := config.Verify(rt.cfg, needCredentials); err != nil {
		return nil, err
	}
	if rt.tokens != nil {
		return rt.tokens, nil
	}

	store, err := rt.openStore()
	if err != nil {
		return nil, err
	}
	client, err := rt.client()
	if err != nil {
		return nil, err
	}

	rt.tokens = service.NewTokenService(store, client, client, service.WithTokenObserver(rt.metrics))
	rt.queries = service.NewQueryService(client, rt.tokens, service.WithRecordObserver(rt.metrics))
	return rt.tokens, nil
}

func (rt *runtime) queryService() (*service.QueryService, error) {
	if _, err := rt.tokenService(false); err != nil {
		return nil, err
	}
	return rt.queries, nil
}

func (rt *runtime) format() output.Format {
	f, err := output.ParseFormat(rt.cfg.Output.Format)
	if err != nil {
		return output.FormatTable
	}
	return f
}

// close runs the shutdown hooks. The metrics hook is registered last so
// it runs first, while the token store is still open for the cache gauge.
func (rt *runtime) close() error {
	if path := rt.cfg.Metrics.Textfile; path != "" {
		rt.shutdown.OnShutdown(func(context.Context) error {
			return rt.metrics.WriteTextfile(path)
		})
	}
	return rt.shutdown.Shutdown()
}
