package logger

import (
	"log/slog"
	"strings"
)

// Falcon issues JWTs, whose base64url header always starts with "eyJ".
const (
	jwtPrefix    = "eyJ"
	bearerScheme = "bearer"
)

// Characters that may precede a credential inside free text.
const leadingPunct = `"'([{=:`

// Sensitive key patterns that should be redacted.
var sensitiveKeyPatterns = []string{
	"password",
	"secret",
	"token",
	"key",
	"credential",
	"auth",
	"bearer",
}

// redactedValue is the placeholder for redacted sensitive data.
const redactedValue = "***REDACTED***"

// redactSensitive checks if an attribute contains sensitive data
// and redacts it if necessary.
func redactSensitive(a slog.Attr) slog.Attr {
	// A recognised credential value is partially masked, whatever its key.
	if a.Value.Kind() == slog.KindString {
		strVal := a.Value.String()
		if IsSensitiveValue(strVal) {
			return slog.String(a.Key, RedactString(strVal))
		}

		if strVal != "" && IsSensitiveKey(a.Key) {
			return slog.String(a.Key, redactedValue)
		}
	}

	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		newAttrs := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			newAttrs[i] = redactSensitive(attr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(newAttrs...)}
	}

	return a
}

// maskValue partially masks a sensitive value, keeping prefix and hints.
// Format: prefix + first 3 chars + "..." + last 3 chars
func maskValue(value, prefix string) string {
	if len(value) <= len(prefix)+6 {
		return prefix + "***"
	}

	body := value[len(prefix):]
	return prefix + body[:3] + "..." + body[len(body)-3:]
}

// RedactString masks every bearer credential found in value: words that
// look like a JWT and the word following a "Bearer" scheme. Other text is
// returned unchanged.
func RedactString(value string) string {
	words := strings.Split(value, " ")
	for i := 0; i < len(words); i++ {
		w := words[i]
		if strings.EqualFold(w, bearerScheme) && i+1 < len(words) && words[i+1] != "" {
			words[i+1] = maskValue(words[i+1], "")
			i++
			continue
		}
		at := strings.Index(w, jwtPrefix)
		if at == 0 || (at > 0 && strings.ContainsRune(leadingPunct, rune(w[at-1]))) {
			words[i] = w[:at] + maskValue(w[at:], jwtPrefix)
		}
	}
	return strings.Join(words, " ")
}

// IsSensitiveKey checks if a key name suggests sensitive content.
func IsSensitiveKey(key string) bool {
	keyLower := strings.ToLower(key)
	for _, pattern := range sensitiveKeyPatterns {
		if strings.Contains(keyLower, pattern) {
			return true
		}
	}
	return false
}

// IsSensitiveValue reports whether value carries a bearer credential.
func IsSensitiveValue(value string) bool {
	return RedactString(value) != value
}
