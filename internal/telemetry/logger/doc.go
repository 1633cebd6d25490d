// Package logger provides structured logging for falcon-speak.
//
// Two backends sit behind the Logger interface:
//
//   - slog.go: log/slog, text or JSON (default)
//   - zap.go: go.uber.org/zap, console or JSON
//   - context.go: context-aware logging with request IDs
//   - redact.go: sensitive data redaction shared by both backends
//
// The CLI logs at warn by default, so progress messages only appear with
// --verbose. Tokens, client secrets and Authorization values are redacted
// whatever the backend.
package logger
