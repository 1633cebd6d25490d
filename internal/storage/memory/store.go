package memory

import (
	"context"
	"sync"

	"github.com/yndnr/falcon-speak/internal/core/domain"
)

// Store is a single-slot in-memory token cache.
type Store struct {
	mu     sync.RWMutex
	token  domain.Token
	writes int
}

// New creates an empty store.
func New() *Store {
	return &Store{}
}

// NewWithToken creates a store pre-filled with tok.
func NewWithToken(tok domain.Token) *Store {
	return &Store{token: tok}
}

// Load returns the cached token or domain.ErrMissingToken.
func (s *Store) Load(ctx context.Context) (domain.Token, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.token.IsZero() {
		return "", domain.ErrMissingToken
	}
	return s.token, nil
}

// Replace overwrites the slot.
func (s *Store) Replace(ctx context.Context, tok domain.Token) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if tok.IsZero() {
		return domain.ErrInvalidArgument.WithDetails("refusing to store an empty token")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = tok
	s.writes++
	return nil
}

// Delete empties the slot.
func (s *Store) Delete(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = ""
	return nil
}

// Writes returns how many times Replace succeeded.
func (s *Store) Writes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes
}

// Close implements the token store interface.
func (s *Store) Close() error {
	return nil
}
