package adaptive

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"io"
	"strings"

	"golang.org/x/crypto/hkdf"
)

// KeySize is the size of keys produced by ParseKey and DeriveKey.
const KeySize = 32

// MinPassphraseLength is the shortest passphrase ParseKey accepts.
const MinPassphraseLength = 16

// hkdf parameters; changing either invalidates existing sealed data.
var (
	kdfSalt = []byte("falcon-speak/token-store")
	kdfInfo = []byte("token-encryption-v1")
)

// ErrWeakKey is returned for keys that are neither 32 raw bytes nor a
// passphrase of at least MinPassphraseLength characters.
var ErrWeakKey = errors.New("encryption key must be 32 bytes (hex or base64) or a passphrase of at least 16 characters")

// ParseKey turns a configured key into KeySize bytes.
//
// Accepted forms, tried in order:
//   - 64 hex characters
//   - standard or URL-safe base64 of 32 bytes
//   - any passphrase of at least MinPassphraseLength characters (HKDF)
func ParseKey(s string) ([]byte, error) {
	s = strings.TrimSpace(s)

	if len(s) == 2*KeySize {
		if b, err := hex.DecodeString(s); err == nil {
			return b, nil
		}
	}
	for _, enc := range []*base64.Encoding{base64.StdEncoding, base64.URLEncoding, base64.RawStdEncoding, base64.RawURLEncoding} {
		if b, err := enc.DecodeString(s); err == nil && len(b) == KeySize {
			return b, nil
		}
	}
	if len(s) < MinPassphraseLength {
		return nil, ErrWeakKey
	}
	return DeriveKey([]byte(s))
}

// DeriveKey expands secret into KeySize bytes with HKDF-SHA256.
func DeriveKey(secret []byte) ([]byte, error) {
	key := make([]byte, KeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, secret, kdfSalt, kdfInfo), key); err != nil {
		return nil, err
	}
	return key, nil
}
