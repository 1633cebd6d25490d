package adaptive

import (
	"errors"
	"fmt"
)

// Envelope algorithm tags.
const (
	tagAESGCM   byte = 0x01
	tagChaCha20 byte = 0x02
)

// ErrUnknownEnvelope is returned by Open for an unrecognized algorithm tag.
var ErrUnknownEnvelope = errors.New("unknown envelope algorithm tag")

func tagFor(t CipherType) (byte, error) {
	switch t {
	case CipherAESGCM:
		return tagAESGCM, nil
	case CipherChaCha20:
		return tagChaCha20, nil
	}
	return 0, errors.New("unknown cipher type: " + string(t))
}

func typeFor(tag byte) (CipherType, error) {
	switch tag {
	case tagAESGCM:
		return CipherAESGCM, nil
	case tagChaCha20:
		return CipherChaCha20, nil
	}
	return "", fmt.Errorf("%w: 0x%02x", ErrUnknownEnvelope, tag)
}

// Seal encrypts plaintext with the preferred cipher for this machine and
// prefixes the algorithm tag. Layout: tag | nonce | ciphertext | auth tag.
func Seal(key, plaintext, additionalData []byte) ([]byte, error) {
	c, err := New(key)
	if err != nil {
		return nil, err
	}
	return SealWith(c, plaintext, additionalData)
}

// SealWith is Seal with an explicit cipher.
func SealWith(c *Cipher, plaintext, additionalData []byte) ([]byte, error) {
	tag, err := tagFor(c.Type())
	if err != nil {
		return nil, err
	}
	ct, err := c.Encrypt(plaintext, additionalData)
	if err != nil {
		return nil, err
	}
	return append([]byte{tag}, ct...), nil
}

// Open reverses Seal, selecting the cipher named by the envelope tag.
func Open(key, sealed, additionalData []byte) ([]byte, error) {
	if len(sealed) < 1 {
		return nil, errors.New("envelope too short")
	}
	t, err := typeFor(sealed[0])
	if err != nil {
		return nil, err
	}
	c, err := NewWithType(key, t)
	if err != nil {
		return nil, err
	}
	return c.Decrypt(sealed[1:], additionalData)
}
