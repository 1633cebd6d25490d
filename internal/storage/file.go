package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/yndnr/falcon-speak/internal/core/domain"
)

// File permissions for the token file and its directory.
const (
	FileMode os.FileMode = 0o600
	DirMode  os.FileMode = 0o700
)

// FileStore keeps the token in a plaintext file.
type FileStore struct {
	path string
}

// NewFileStore creates a FileStore at path. Nothing is touched on disk until
// the first Replace.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the token file path.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the token. A missing or blank file is an empty slot.
func (s *FileStore) Load(ctx context.Context) (domain.Token, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", domain.ErrMissingToken
		}
		return "", storageErr("read token file", err)
	}

	tok := domain.Token(strings.TrimSpace(string(data)))
	if tok.IsZero() {
		return "", domain.ErrMissingToken
	}
	return tok, nil
}

// Replace writes the token atomically.
func (s *FileStore) Replace(ctx context.Context, tok domain.Token) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if tok.IsZero() {
		return domain.ErrInvalidArgument.WithDetails("refusing to store an empty token")
	}
	if err := atomicWriteFile(s.path, []byte(tok.Value()), FileMode, DirMode); err != nil {
		return storageErr("write token file", err)
	}
	return nil
}

// Delete removes the token file.
func (s *FileStore) Delete(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return storageErr("remove token file", err)
	}
	return nil
}

// Close implements TokenStore.
func (s *FileStore) Close() error {
	return nil
}

// atomicWriteFile writes data to a temp file in the target directory, syncs
// it, then renames it over path. On any failure the previous file is intact.
func atomicWriteFile(path string, data []byte, filePerm, dirPerm os.FileMode) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	dir := filepath.Dir(absPath)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("create parent directory: %w", err)
	}

	f, err := os.CreateTemp(dir, ".token-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tempPath := f.Name()

	success := false
	defer func() {
		if !success {
			_ = f.Close()
			_ = os.Remove(tempPath)
		}
	}()

	if err := f.Chmod(filePerm); err != nil {
		return fmt.Errorf("set file permissions: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("write data: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("sync data: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tempPath, absPath); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}

	success = true
	syncDir(dir)
	return nil
}

// syncDir flushes the rename to disk. Best effort: not every platform
// supports fsync on a directory.
func syncDir(dir string) {
	d, err := os.Open(dir)
	if err != nil {
		return
	}
	_ = d.Sync()
	_ = d.Close()
}
