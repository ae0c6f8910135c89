package telemetry

import (
	"time"

	"condameta/internal/domain"
)

type NoopMetrics struct{}

func NewNoopMetrics() *NoopMetrics {
	return &NoopMetrics{}
}

func (n *NoopMetrics) ObserveDispatch(_ string, _ time.Duration, _ error) {}

func (n *NoopMetrics) ObserveCacheHit(_ string) {}

func (n *NoopMetrics) ObserveCacheMiss(_ string) {}

func (n *NoopMetrics) ObserveInvalidation(_ domain.Group) {}

var _ domain.Metrics = (*NoopMetrics)(nil)
