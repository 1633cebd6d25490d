package metric

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/yndnr/falcon-speak/internal/core/domain"
)

const namespace = "falcon_speak"

// Registry holds all application metrics.
type Registry struct {
	reg *prometheus.Registry

	// API metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Token metrics
	TokenProbes    *prometheus.CounterVec
	TokenRefreshes *prometheus.CounterVec

	// Query metrics
	RecordsHydrated *prometheus.CounterVec
}

// NewRegistry creates a registry with every metric registered.
func NewRegistry() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Falcon API requests by endpoint, method and status code",
		}, []string{"endpoint", "method", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "Falcon API request latency",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		}, []string{"endpoint", "method"}),
		TokenProbes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "token",
			Name:      "probes_total",
			Help:      "Token validity probes by result",
		}, []string{"result"}),
		TokenRefreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "token",
			Name:      "requests_total",
			Help:      "OAuth2 token requests by result",
		}, []string{"result"}),
		RecordsHydrated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "query",
			Name:      "records_hydrated_total",
			Help:      "Records returned by hydrate calls, per resource family",
		}, []string{"family"}),
	}

	r.reg.MustRegister(
		r.RequestsTotal,
		r.RequestDuration,
		r.TokenProbes,
		r.TokenRefreshes,
		r.RecordsHydrated,
	)
	return r
}

// MustRegister adds extra collectors to the registry.
func (r *Registry) MustRegister(cs ...prometheus.Collector) {
	r.reg.MustRegister(cs...)
}

// Gatherer exposes the underlying registry.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}

// WriteTextfile writes all metrics to path in the text exposition format.
// The file is replaced atomically.
func (r *Registry) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.reg)
}

// ObserveRequest records one API round trip. A status of 0 marks a
// transport failure.
func (r *Registry) ObserveRequest(endpoint, method string, status int, elapsed time.Duration) {
	code := "error"
	if status > 0 {
		code = strconv.Itoa(status)
	}
	r.RequestsTotal.WithLabelValues(endpoint, method, code).Inc()
	r.RequestDuration.WithLabelValues(endpoint, method).Observe(elapsed.Seconds())
}

// ObserveProbe records a token probe result.
func (r *Registry) ObserveProbe(v domain.Validity, err error) {
	result := "error"
	if err == nil {
		result = v.String()
	}
	r.TokenProbes.WithLabelValues(result).Inc()
}

// ObserveGenerate records a token request.
func (r *Registry) ObserveGenerate(err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	r.TokenRefreshes.WithLabelValues(result).Inc()
}

// ObserveRecords records the number of hydrated records.
func (r *Registry) ObserveRecords(family domain.Family, n int) {
	r.RecordsHydrated.WithLabelValues(family.String()).Add(float64(n))
}
