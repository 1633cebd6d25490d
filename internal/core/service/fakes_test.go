package service

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/yndnr/falcon-speak/internal/core/domain"
)

// fakeAuthority hands out tokens from a list and counts calls.
type fakeAuthority struct {
	mu     sync.Mutex
	tokens []domain.Token
	err    error
	calls  int
}

func (f *fakeAuthority) RequestToken(_ context.Context) (domain.Token, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	tok := f.tokens[0]
	if len(f.tokens) > 1 {
		f.tokens = f.tokens[1:]
	}
	return tok, nil
}

func (f *fakeAuthority) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakeProber answers probes from a per-token table.
type fakeProber struct {
	mu      sync.Mutex
	results map[domain.Token]domain.Validity
	err     error
	probed  []domain.Token
}

func (f *fakeProber) Probe(_ context.Context, tok domain.Token) (domain.Validity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.probed = append(f.probed, tok)
	if f.err != nil {
		return 0, f.err
	}
	if v, ok := f.results[tok]; ok {
		return v, nil
	}
	return domain.Expired, nil
}

func (f *fakeProber) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.probed)
}

// fakeAPI records list and hydrate calls.
type fakeAPI struct {
	ids       domain.IDList
	resources []json.RawMessage
	listErr   error
	hydErr    error

	queries      []domain.ResourceQuery
	hydrated     []domain.IDList
	listTokens   []domain.Token
	hydrateToken []domain.Token
}

func (f *fakeAPI) QueryIDs(_ context.Context, tok domain.Token, q domain.ResourceQuery) (domain.IDList, error) {
	f.queries = append(f.queries, q)
	f.listTokens = append(f.listTokens, tok)
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.ids, nil
}

func (f *fakeAPI) GetEntities(_ context.Context, tok domain.Token, _ domain.Family, ids domain.IDList) ([]json.RawMessage, error) {
	f.hydrated = append(f.hydrated, ids)
	f.hydrateToken = append(f.hydrateToken, tok)
	if f.hydErr != nil {
		return nil, f.hydErr
	}
	return f.resources, nil
}

// staticTokens always returns the same token.
type staticTokens struct {
	tok   domain.Token
	err   error
	calls int
}

func (s *staticTokens) EnsureValid(_ context.Context) (domain.Token, error) {
	s.calls++
	return s.tok, s.err
}

type countingObserver struct {
	mu        sync.Mutex
	probes    map[domain.Validity]int
	probeErrs int
	generates int
	genErrs   int
	records   map[domain.Family]int
}

func newCountingObserver() *countingObserver {
	return &countingObserver{
		probes:  make(map[domain.Validity]int),
		records: make(map[domain.Family]int),
	}
}

func (o *countingObserver) ObserveProbe(v domain.Validity, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err != nil {
		o.probeErrs++
		return
	}
	o.probes[v]++
}

func (o *countingObserver) ObserveGenerate(err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.generates++
	if err != nil {
		o.genErrs++
	}
}

func (o *countingObserver) ObserveRecords(f domain.Family, n int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.records[f] += n
}
