package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/yndnr/falcon-speak/internal/core/domain"
	"github.com/yndnr/falcon-speak/internal/telemetry/logger"
)

// ResourceAPI is the two-phase query surface of the Falcon API.
type ResourceAPI interface {
	QueryIDs(ctx context.Context, tok domain.Token, q domain.ResourceQuery) (domain.IDList, error)
	GetEntities(ctx context.Context, tok domain.Token, family domain.Family, ids domain.IDList) ([]json.RawMessage, error)
}

// TokenProvider yields a token that is valid for the next request.
type TokenProvider interface {
	EnsureValid(ctx context.Context) (domain.Token, error)
}

// RecordObserver receives the number of records hydrated per family.
type RecordObserver interface {
	ObserveRecords(family domain.Family, n int)
}

// QueryService runs list-then-hydrate queries.
type QueryService struct {
	api      ResourceAPI
	tokens   TokenProvider
	observer RecordObserver
}

// QueryServiceOption configures a QueryService.
type QueryServiceOption func(*QueryService)

// WithRecordObserver installs an observer for hydrated record counts.
func WithRecordObserver(o RecordObserver) QueryServiceOption {
	return func(s *QueryService) {
		s.observer = o
	}
}

// NewQueryService creates a QueryService.
func NewQueryService(api ResourceAPI, tokens TokenProvider, opts ...QueryServiceOption) *QueryService {
	s := &QueryService{api: api, tokens: tokens}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List runs the list phase. The token is validated first. An empty page
// returns domain.ErrEmptyResult.
func (s *QueryService) List(ctx context.Context, q domain.ResourceQuery) (domain.IDList, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	tok, err := s.tokens.EnsureValid(ctx)
	if err != nil {
		return nil, err
	}

	log := logger.L(ctx).With("family", q.Family.String())
	log.Info("getting list of falcon " + q.Family.String())

	ids, err := s.api.QueryIDs(ctx, tok, q)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", q.Family, err)
	}
	if len(ids) == 0 {
		return nil, domain.ErrEmptyResult.WithDetails(q.Family.String())
	}

	log.Info("successful request for "+q.Family.Singular()+" list", "count", len(ids))
	return ids, nil
}

// Hydrate resolves ids into raw records. The token is validated again,
// since it may have expired after the list phase.
func (s *QueryService) Hydrate(ctx context.Context, family domain.Family, ids domain.IDList) ([]json.RawMessage, error) {
	if len(ids) == 0 {
		return nil, domain.ErrEmptyResult.WithDetails(family.String())
	}

	tok, err := s.tokens.EnsureValid(ctx)
	if err != nil {
		return nil, err
	}

	log := logger.L(ctx).With("family", family.String())
	log.Info("getting full info on the " + family.Singular() + " items")

	res, err := s.api.GetEntities(ctx, tok, family, ids)
	if err != nil {
		return nil, fmt.Errorf("hydrate %s: %w", family, err)
	}

	log.Info("successful request for "+family.Singular()+" information", "count", len(res))
	if s.observer != nil {
		s.observer.ObserveRecords(family, len(res))
	}
	return res, nil
}

// listThenHydrate is the generic two-phase routine shared by all families.
func (s *QueryService) listThenHydrate(ctx context.Context, q domain.ResourceQuery) ([]json.RawMessage, error) {
	ids, err := s.List(ctx, q)
	if err != nil {
		return nil, err
	}
	return s.Hydrate(ctx, q.Family, ids)
}

func query[T any, PT interface {
	*T
	domain.Record
}](ctx context.Context, s *QueryService, q domain.ResourceQuery) ([]PT, error) {
	raw, err := s.listThenHydrate(ctx, q)
	if err != nil {
		return nil, err
	}
	records, err := domain.DecodeRecords[T, PT](raw)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", q.Family, err)
	}
	return records, nil
}

// Detections lists detections sorted by last behavior, newest first.
func (s *QueryService) Detections(ctx context.Context, mode domain.FilterMode, page domain.Page) ([]*domain.Detection, error) {
	filter, err := domain.StatusFilter(mode)
	if err != nil {
		return nil, err
	}
	return query[domain.Detection](ctx, s, domain.ResourceQuery{
		Family: domain.FamilyDetection,
		Page:   page,
		Sort:   domain.SortLastBehaviorDesc,
		Filter: filter,
	})
}

// Incidents lists incidents sorted by last behavior, newest first.
func (s *QueryService) Incidents(ctx context.Context, mode domain.FilterMode, page domain.Page) ([]*domain.Incident, error) {
	filter, err := domain.StatusFilter(mode)
	if err != nil {
		return nil, err
	}
	return query[domain.Incident](ctx, s, domain.ResourceQuery{
		Family: domain.FamilyIncident,
		Page:   page,
		Sort:   domain.SortLastBehaviorDesc,
		Filter: filter,
	})
}

// Behaviors lists behaviors. The endpoint takes no sort or filter.
func (s *QueryService) Behaviors(ctx context.Context, page domain.Page) ([]*domain.Behavior, error) {
	return query[domain.Behavior](ctx, s, domain.ResourceQuery{
		Family: domain.FamilyBehavior,
		Page:   page,
	})
}

// DevicesByHostname looks up hosts by hostname. FQL wildcards are allowed.
func (s *QueryService) DevicesByHostname(ctx context.Context, hostname string, page domain.Page) ([]*domain.Device, error) {
	filter, err := domain.HostnameFilter(hostname)
	if err != nil {
		return nil, err
	}
	return query[domain.Device](ctx, s, domain.ResourceQuery{
		Family: domain.FamilyDevice,
		Page:   page,
		Filter: filter,
	})
}
