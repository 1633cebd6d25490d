package logger

import (
	"context"
	"log/slog"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// zapLevel is shared by every zap logger so SetLevel reaches them all.
var zapLevel = zap.NewAtomicLevelAt(zapcore.InfoLevel)

type zapLogger struct {
	logger *zap.Logger
	ctx    context.Context
}

func newZap(cfg Config) *zapLogger {
	var enc zapcore.Encoder
	if f, _ := parseFormat(cfg.Format); f == FormatJSON {
		ec := zap.NewProductionEncoderConfig()
		ec.TimeKey = "time"
		ec.MessageKey = "msg"
		ec.EncodeTime = zapcore.ISO8601TimeEncoder
		enc = zapcore.NewJSONEncoder(ec)
	} else {
		ec := zap.NewDevelopmentEncoderConfig()
		ec.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(ec)
	}

	core := zapcore.NewCore(enc, zapcore.AddSync(cfg.Output), zapLevel)
	return &zapLogger{
		logger: zap.New(core, zap.ErrorOutput(zapcore.AddSync(os.Stderr))),
		ctx:    context.Background(),
	}
}

func zapLevelFor(l slog.Level) zapcore.Level {
	switch {
	case l <= slog.LevelDebug:
		return zapcore.DebugLevel
	case l <= slog.LevelInfo:
		return zapcore.InfoLevel
	case l <= slog.LevelWarn:
		return zapcore.WarnLevel
	default:
		return zapcore.ErrorLevel
	}
}

func (l *zapLogger) Debug(msg string, args ...any) {
	l.logger.Debug(msg, zapFields(args)...)
}

func (l *zapLogger) Info(msg string, args ...any) {
	l.logger.Info(msg, zapFields(args)...)
}

func (l *zapLogger) Warn(msg string, args ...any) {
	l.logger.Warn(msg, zapFields(args)...)
}

func (l *zapLogger) Error(msg string, args ...any) {
	l.logger.Error(msg, zapFields(args)...)
}

func (l *zapLogger) With(args ...any) Logger {
	return &zapLogger{
		logger: l.logger.With(zapFields(args)...),
		ctx:    l.ctx,
	}
}

func (l *zapLogger) WithContext(ctx context.Context) Logger {
	lg := l.logger
	if args := contextArgs(ctx); len(args) > 0 {
		lg = lg.With(zapFields(args)...)
	}
	return &zapLogger{logger: lg, ctx: ctx}
}

// zapFields converts slog-style key/value pairs into redacted zap fields.
// A trailing key without a value is logged under "!BADKEY", as slog does.
func zapFields(args []any) []zap.Field {
	fields := make([]zap.Field, 0, len(args)/2+1)
	for i := 0; i < len(args); {
		switch v := args[i].(type) {
		case slog.Attr:
			fields = append(fields, zapField(redactSensitive(v)))
			i++
		case string:
			if i+1 >= len(args) {
				fields = append(fields, zap.String("!BADKEY", v))
				i++
				continue
			}
			fields = append(fields, zapField(redactSensitive(slog.Any(v, args[i+1]))))
			i += 2
		default:
			fields = append(fields, zap.Any("!BADKEY", v))
			i++
		}
	}
	return fields
}

func zapField(a slog.Attr) zap.Field {
	v := a.Value.Resolve()
	switch v.Kind() {
	case slog.KindString:
		return zap.String(a.Key, v.String())
	case slog.KindInt64:
		return zap.Int64(a.Key, v.Int64())
	case slog.KindUint64:
		return zap.Uint64(a.Key, v.Uint64())
	case slog.KindFloat64:
		return zap.Float64(a.Key, v.Float64())
	case slog.KindBool:
		return zap.Bool(a.Key, v.Bool())
	case slog.KindDuration:
		return zap.Duration(a.Key, v.Duration())
	case slog.KindTime:
		return zap.Time(a.Key, v.Time())
	case slog.KindGroup:
		attrs := v.Group()
		m := make(map[string]any, len(attrs))
		for _, ga := range attrs {
			m[ga.Key] = ga.Value.Any()
		}
		return zap.Any(a.Key, m)
	}
	if err, ok := v.Any().(error); ok {
		return zap.NamedError(a.Key, err)
	}
	return zap.Any(a.Key, v.Any())
}
