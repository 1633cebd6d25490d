package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/yndnr/falcon-speak/internal/core/domain"
	"github.com/yndnr/falcon-speak/internal/telemetry/logger"
)

// TokenStore is the single-slot token cache.
type TokenStore interface {
	Load(ctx context.Context) (domain.Token, error)
	Replace(ctx context.Context, tok domain.Token) error
	Delete(ctx context.Context) error
}

// Authority issues new bearer tokens.
type Authority interface {
	RequestToken(ctx context.Context) (domain.Token, error)
}

// Prober tests whether a token is still accepted.
type Prober interface {
	Probe(ctx context.Context, tok domain.Token) (domain.Validity, error)
}

// TokenObserver receives token lifecycle events.
type TokenObserver interface {
	ObserveProbe(v domain.Validity, err error)
	ObserveGenerate(err error)
}

// TokenService manages the cached bearer token.
//
// Validate, EnsureValid and Generate run under one mutex, so concurrent
// callers never interleave a probe with a refresh.
type TokenService struct {
	store     TokenStore
	authority Authority
	prober    Prober
	observer  TokenObserver

	mu sync.Mutex
}

// TokenServiceOption configures a TokenService.
type TokenServiceOption func(*TokenService)

// WithTokenObserver installs an observer for probe and generate events.
func WithTokenObserver(o TokenObserver) TokenServiceOption {
	return func(s *TokenService) {
		s.observer = o
	}
}

// NewTokenService creates a TokenService.
func NewTokenService(store TokenStore, authority Authority, prober Prober, opts ...TokenServiceOption) *TokenService {
	s := &TokenService{
		store:     store,
		authority: authority,
		prober:    prober,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generate requests a new token and replaces the cached one. If the
// request fails the cache is left untouched.
func (s *TokenService) Generate(ctx context.Context) (domain.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.generateLocked(ctx)
}

// Validate probes the API with the cached token.
// Returns domain.ErrMissingToken when nothing is cached.
func (s *TokenService) Validate(ctx context.Context) (domain.Validity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, v, err := s.probeLocked(ctx)
	return v, err
}

// EnsureValid returns a token the caller can use for its next request.
// An expired token is refreshed exactly once and the fresh token is
// returned without another probe.
func (s *TokenService) EnsureValid(ctx context.Context) (domain.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tok, v, err := s.probeLocked(ctx)
	if err != nil {
		return "", err
	}

	log := logger.L(ctx)
	if v == domain.Valid {
		log.Info("current token is still valid")
		return tok, nil
	}

	log.Info("current token already expired, requesting new one")
	return s.generateLocked(ctx)
}

// Current returns the cached token without probing it.
func (s *TokenService) Current(ctx context.Context) (domain.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.store.Load(ctx)
}

// Clear deletes the cached token.
func (s *TokenService) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Delete(ctx); err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	logger.L(ctx).Info("cached token cleared")
	return nil
}

func (s *TokenService) generateLocked(ctx context.Context) (domain.Token, error) {
	log := logger.L(ctx)
	log.Info("requesting oauth token")

	tok, err := s.authority.RequestToken(ctx)
	if s.observer != nil {
		s.observer.ObserveGenerate(err)
	}
	if err != nil {
		return "", fmt.Errorf("request token: %w", err)
	}
	log.Info("successful token request", "token", tok.String())

	if err := s.store.Replace(ctx, tok); err != nil {
		return "", fmt.Errorf("store token: %w", err)
	}
	log.Info("stored token")

	return tok, nil
}

func (s *TokenService) probeLocked(ctx context.Context) (domain.Token, domain.Validity, error) {
	tok, err := s.store.Load(ctx)
	if err != nil {
		return "", 0, err
	}

	logger.L(ctx).Info("verifying validity of current token")
	v, err := s.prober.Probe(ctx, tok)
	if s.observer != nil {
		s.observer.ObserveProbe(v, err)
	}
	if err != nil {
		return "", 0, fmt.Errorf("probe token: %w", err)
	}
	return tok, v, nil
}
