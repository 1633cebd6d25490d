// Package storage provides the token cache for falcon-speak.
//
// The cache is a single slot holding the current bearer token. Writers
// replace the slot as a whole (last write wins); readers never observe a
// missing or partially written slot.
//
// Backends:
//
//   - FileStore: plaintext file, atomic replace via temp file + fsync + rename
//   - memory.Store: process-local cell (internal/storage/memory)
//   - BadgerStore: embedded Badger KV, one key updated in a transaction
//   - EncryptedStore: wraps any backend with AEAD at-rest encryption
package storage
