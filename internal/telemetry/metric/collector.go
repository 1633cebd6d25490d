package metric

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/yndnr/falcon-speak/internal/core/domain"
)

// TokenLoader reads the cached token.
type TokenLoader interface {
	Load(ctx context.Context) (domain.Token, error)
}

// TokenCacheCollector reports whether a token is cached at collection time.
type TokenCacheCollector struct {
	store   TokenLoader
	timeout time.Duration
	desc    *prometheus.Desc
}

// NewTokenCacheCollector creates a collector over store.
func NewTokenCacheCollector(store TokenLoader) *TokenCacheCollector {
	return &TokenCacheCollector{
		store:   store,
		timeout: 2 * time.Second,
		desc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "token", "cached"),
			"1 if a bearer token is cached, 0 if the slot is empty, -1 on storage error",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *TokenCacheCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.desc
}

// Collect implements prometheus.Collector.
func (c *TokenCacheCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	v := 1.0
	if _, err := c.store.Load(ctx); err != nil {
		v = -1
		if errors.Is(err, domain.ErrMissingToken) {
			v = 0
		}
	}
	ch <- prometheus.MustNewConstMetric(c.desc, prometheus.GaugeValue, v)
}
