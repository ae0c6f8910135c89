package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"condameta/internal/domain"
)

type PrometheusMetrics struct {
	dispatchDuration *prometheus.HistogramVec
	cacheEvents      *prometheus.CounterVec
	invalidations    *prometheus.CounterVec
}

func NewPrometheusMetrics(registerer prometheus.Registerer) *PrometheusMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registerer)

	return &PrometheusMetrics{
		dispatchDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "condameta_dispatch_duration_seconds",
				Help:    "Duration of tool dispatches in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"tool", "status"},
		),
		cacheEvents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "condameta_cache_events_total",
				Help: "Cache hits and misses per tool",
			},
			[]string{"tool", "event"},
		),
		invalidations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "condameta_cache_invalidations_total",
				Help: "Cache clearer group invalidations",
			},
			[]string{"group"},
		),
	}
}

func (p *PrometheusMetrics) ObserveDispatch(tool string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	p.dispatchDuration.WithLabelValues(tool, status).Observe(duration.Seconds())
}

func (p *PrometheusMetrics) ObserveCacheHit(tool string) {
	p.cacheEvents.WithLabelValues(tool, "hit").Inc()
}

func (p *PrometheusMetrics) ObserveCacheMiss(tool string) {
	p.cacheEvents.WithLabelValues(tool, "miss").Inc()
}

func (p *PrometheusMetrics) ObserveInvalidation(group domain.Group) {
	p.invalidations.WithLabelValues(string(group)).Inc()
}

var _ domain.Metrics = (*PrometheusMetrics)(nil)
