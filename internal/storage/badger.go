package storage

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dgraph-io/badger/v3"

	"github.com/yndnr/falcon-speak/internal/core/domain"
	"github.com/yndnr/falcon-speak/internal/telemetry/logger"
)

// tokenKey is the single key holding the cached token.
var tokenKey = []byte("falcon-speak/token")

// ErrClosed is returned by BadgerStore after Close.
var ErrClosed = errors.New("token store closed")

// BadgerStore keeps the token in an embedded Badger database.
type BadgerStore struct {
	db     *badger.DB
	logger logger.Logger
}

// OpenBadgerStore opens (or creates) a Badger database in dir.
func OpenBadgerStore(dir string, log logger.Logger) (*BadgerStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("badger: dir is required")
	}
	if log == nil {
		log = logger.Default()
	}
	if err := os.MkdirAll(dir, DirMode); err != nil {
		return nil, storageErr("create badger dir", err)
	}

	// A single small key: keep files small and every write durable.
	opts := badger.DefaultOptions(dir)
	opts.Logger = &badgerLogger{logger: log}
	opts.SyncWrites = true
	opts.ValueLogFileSize = 16 << 20
	opts.BlockCacheSize = 1 << 20

	db, err := badger.Open(opts)
	if err != nil {
		return nil, storageErr("open badger db", err)
	}

	log.Debug("badger token store opened", "dir", dir)
	return &BadgerStore{db: db, logger: log}, nil
}

// Load reads the token.
func (s *BadgerStore) Load(ctx context.Context) (domain.Token, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var value []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(tokenKey)
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return "", domain.ErrMissingToken
		}
		return "", s.wrap("read token", err)
	}

	tok := domain.Token(value)
	if tok.IsZero() {
		return "", domain.ErrMissingToken
	}
	return tok, nil
}

// Replace stores the token in one transaction.
func (s *BadgerStore) Replace(ctx context.Context, tok domain.Token) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if tok.IsZero() {
		return domain.ErrInvalidArgument.WithDetails("refusing to store an empty token")
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(tokenKey, []byte(tok.Value()))
	})
	if err != nil {
		return s.wrap("write token", err)
	}
	return nil
}

// Delete removes the token key.
func (s *BadgerStore) Delete(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(tokenKey)
	})
	if err != nil {
		return s.wrap("delete token", err)
	}
	return nil
}

// Close runs one value log GC pass and closes the database.
func (s *BadgerStore) Close() error {
	if s.db.IsClosed() {
		return nil
	}

	if err := s.db.RunValueLogGC(0.5); err != nil && !errors.Is(err, badger.ErrNoRewrite) {
		s.logger.Debug("badger gc skipped", "error", err)
	}

	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close badger db: %w", err)
	}
	return nil
}

func (s *BadgerStore) wrap(op string, err error) error {
	if errors.Is(err, badger.ErrDBClosed) {
		err = ErrClosed
	}
	return storageErr(op, err)
}

// badgerLogger adapts Logger to Badger's Logger interface.
// Badger chatters at info level on every open; that is demoted to debug.
type badgerLogger struct {
	logger logger.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}
