package token

import (
	"crypto/rand"
	"encoding/hex"
)

// KeyLength is the size in bytes of generated encryption keys.
const KeyLength = 32

// GenerateKey returns KeyLength random bytes hex encoded, suitable for
// token.encryption_key.
func GenerateKey() (string, error) {
	b, err := GenerateBytes(KeyLength)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// GenerateBytes generates random bytes.
func GenerateBytes(length int) ([]byte, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return nil, err
	}
	return bytes, nil
}
