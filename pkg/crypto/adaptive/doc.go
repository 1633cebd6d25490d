// Package adaptive provides authenticated encryption with hardware-aware
// algorithm selection.
//
// Supported Algorithms:
//
//   - AES-256-GCM: preferred when hardware AES support is available
//   - ChaCha20-Poly1305: used on other architectures
//
// Sealed envelopes carry a one-byte algorithm tag so data sealed on one
// machine opens on another regardless of which algorithm each prefers.
// Keys are given as 32 raw bytes in hex or base64, or derived from a
// passphrase with HKDF-SHA256.
//
// Usage:
//
//	key, err := adaptive.ParseKey(cfg.EncryptionKey)
//	sealed, err := adaptive.Seal(key, plaintext, aad)
//	plaintext, err := adaptive.Open(key, sealed, aad)
package adaptive
