package domain

import "strings"

// Token is an opaque bearer credential issued by the OAuth2 token endpoint.
// Its expiry is enforced server-side and is never tracked locally; validity
// is discovered by probing.
type Token string

// String returns a masked form so a Token never leaks through %v.
func (t Token) String() string {
	return MaskToken(string(t))
}

// Value returns the raw token for use in an Authorization header.
func (t Token) Value() string {
	return string(t)
}

// IsZero reports whether the token is empty.
func (t Token) IsZero() bool {
	return strings.TrimSpace(string(t)) == ""
}

// Validity is the outcome of probing the API with a cached token.
type Validity int

const (
	// Valid means the probe was accepted (HTTP 200).
	Valid Validity = iota + 1

	// Expired means the probe was rejected as forbidden (HTTP 403).
	Expired
)

// String returns the lowercase name of the validity.
func (v Validity) String() string {
	switch v {
	case Valid:
		return "valid"
	case Expired:
		return "expired"
	default:
		return "unknown"
	}
}

// MaskToken masks a token for safe logging.
// Shows the first and last four characters with the middle masked.
// Example: eyJh...Q4xw
func MaskToken(token string) string {
	if len(token) < 16 {
		return "***REDACTED***"
	}
	return token[:4] + "..." + token[len(token)-4:]
}
