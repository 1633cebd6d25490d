package storage

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/yndnr/falcon-speak/internal/core/domain"
	"github.com/yndnr/falcon-speak/pkg/crypto/adaptive"
)

// tokenAAD binds sealed tokens to their purpose.
var tokenAAD = []byte("falcon-speak/token/v1")

// EncryptedStore seals the token before handing it to the wrapped store.
// The inner slot holds base64 of an adaptive envelope.
type EncryptedStore struct {
	inner TokenStore
	key   []byte
}

// NewEncryptedStore wraps inner. key is parsed with adaptive.ParseKey.
func NewEncryptedStore(inner TokenStore, key string) (*EncryptedStore, error) {
	k, err := adaptive.ParseKey(key)
	if err != nil {
		return nil, domain.ErrInvalidArgument.WithDetails("token.encryption_key").WithCause(err)
	}
	return &EncryptedStore{inner: inner, key: k}, nil
}

// Load reads and opens the sealed token.
func (s *EncryptedStore) Load(ctx context.Context) (domain.Token, error) {
	sealed, err := s.inner.Load(ctx)
	if err != nil {
		return "", err
	}

	raw, err := base64.StdEncoding.DecodeString(sealed.Value())
	if err != nil {
		return "", storageErr("decode sealed token", err)
	}
	plain, err := adaptive.Open(s.key, raw, tokenAAD)
	if err != nil {
		return "", storageErr("open sealed token", fmt.Errorf("wrong encryption key or corrupted slot: %w", err))
	}
	return domain.Token(plain), nil
}

// Replace seals the token and replaces the inner slot.
func (s *EncryptedStore) Replace(ctx context.Context, tok domain.Token) error {
	if tok.IsZero() {
		return domain.ErrInvalidArgument.WithDetails("refusing to store an empty token")
	}
	sealed, err := adaptive.Seal(s.key, []byte(tok.Value()), tokenAAD)
	if err != nil {
		return storageErr("seal token", err)
	}
	return s.inner.Replace(ctx, domain.Token(base64.StdEncoding.EncodeToString(sealed)))
}

// Delete empties the inner slot.
func (s *EncryptedStore) Delete(ctx context.Context) error {
	return s.inner.Delete(ctx)
}

// Close closes the inner store.
func (s *EncryptedStore) Close() error {
	return s.inner.Close()
}
