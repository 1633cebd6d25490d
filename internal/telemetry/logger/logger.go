package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
)

// Logger is the application logger interface.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	With(args ...any) Logger
	// WithContext returns a logger that tags every entry with the
	// request and trace IDs carried by ctx.
	WithContext(ctx context.Context) Logger
}

// Backend names.
const (
	BackendSlog = "slog"
	BackendZap  = "zap"
)

// Format names. "console" is accepted as an alias of text.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config holds logger configuration.
type Config struct {
	Level   string    // debug, info, warn, error
	Format  string    // text, json
	Backend string    // slog, zap
	Output  io.Writer // defaults to os.Stderr
}

// DefaultConfig returns the CLI defaults: warnings and errors as text on stderr.
func DefaultConfig() Config {
	return Config{
		Level:   "warn",
		Format:  FormatText,
		Backend: BackendSlog,
		Output:  os.Stderr,
	}
}

// New creates a logger for cfg and applies cfg.Level to every logger in
// the process.
func New(cfg Config) (Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	if _, err := parseFormat(cfg.Format); err != nil {
		return nil, err
	}
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}

	var l Logger
	switch strings.ToLower(cfg.Backend) {
	case "", BackendSlog:
		l = newSlog(cfg)
	case BackendZap:
		l = newZap(cfg)
	default:
		return nil, fmt.Errorf("unknown log backend %q", cfg.Backend)
	}
	SetLevel(level)
	return l, nil
}

func parseFormat(s string) (string, error) {
	switch strings.ToLower(s) {
	case "", FormatText, "console":
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unknown log format %q", s)
}

// ParseLevel converts a level name. An empty name means info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log level %q", s)
}

// level is shared by both backends so SetLevel reaches every logger.
var level = new(slog.LevelVar)

// SetLevel changes the minimum level of every logger.
func SetLevel(l slog.Level) {
	level.Set(l)
	zapLevel.SetLevel(zapLevelFor(l))
}

// Level returns the current minimum level.
func Level() slog.Level {
	return level.Level()
}

type holder struct {
	l Logger
}

var defaultLogger atomic.Pointer[holder]

func init() {
	defaultLogger.Store(&holder{l: newSlog(DefaultConfig())})
	SetLevel(slog.LevelWarn)
}

// SetDefault replaces the process-wide logger. nil is ignored.
func SetDefault(l Logger) {
	if l != nil {
		defaultLogger.Store(&holder{l: l})
	}
}

// Default returns the process-wide logger.
func Default() Logger {
	return defaultLogger.Load().l
}
