package storage

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/yndnr/falcon-speak/internal/core/domain"
	"github.com/yndnr/falcon-speak/internal/storage/memory"
	"github.com/yndnr/falcon-speak/internal/telemetry/logger"
)

// TokenStore is a single-slot bearer token cache.
//
// Load returns domain.ErrMissingToken when the slot is empty. Replace
// overwrites the slot atomically. Delete empties it and is a no-op when the
// slot is already empty.
type TokenStore interface {
	Load(ctx context.Context) (domain.Token, error)
	Replace(ctx context.Context, tok domain.Token) error
	Delete(ctx context.Context) error
	Close() error
}

// Store kinds.
const (
	KindFile   = "file"
	KindMemory = "memory"
	KindBadger = "badger"
)

// Config selects and configures a TokenStore backend.
type Config struct {
	// Kind is one of file, memory, badger. Default: file.
	Kind string

	// Path is the token file for the file backend.
	Path string

	// BadgerDir is the database directory for the badger backend.
	// Defaults to "<dir of Path>/badger".
	BadgerDir string

	// EncryptionKey enables at-rest encryption when non-empty.
	EncryptionKey string
}

// Open creates the configured TokenStore.
func Open(cfg Config, log logger.Logger) (TokenStore, error) {
	var (
		store TokenStore
		err   error
	)

	switch cfg.Kind {
	case "", KindFile:
		if cfg.Path == "" {
			return nil, domain.ErrInvalidArgument.WithDetails("token path is required for the file store")
		}
		store = NewFileStore(cfg.Path)
	case KindMemory:
		store = memory.New()
	case KindBadger:
		dir := cfg.BadgerDir
		if dir == "" {
			if cfg.Path == "" {
				return nil, domain.ErrInvalidArgument.WithDetails("badger dir is required for the badger store")
			}
			dir = filepath.Join(filepath.Dir(cfg.Path), "badger")
		}
		store, err = OpenBadgerStore(dir, log)
		if err != nil {
			return nil, err
		}
	default:
		return nil, domain.ErrInvalidArgument.WithDetails(fmt.Sprintf("unknown token store %q", cfg.Kind))
	}

	if cfg.EncryptionKey != "" {
		enc, err := NewEncryptedStore(store, cfg.EncryptionKey)
		if err != nil {
			_ = store.Close()
			return nil, err
		}
		store = enc
	}

	return store, nil
}

func storageErr(op string, err error) error {
	return domain.ErrStorage.WithDetails(op).WithCause(err)
}
