// concurrency/metrics.go
package concurrency

import (
	"time"

	"github.com/deploymenttheory/go-api-session-client/status"
)

// RecordResponse updates the metrics with the outcome of one attempt.
func (ch *ConcurrencyHandler) RecordResponse(classification status.Classification, responseTime time.Duration) {
	m := ch.Metrics
	m.Lock.Lock()
	defer m.Lock.Unlock()

	m.ResponseTime += responseTime
	switch classification {
	case status.Unauthorized:
		m.TotalUnauthorized++
	case status.Forbidden:
		m.TotalForbidden++
	case status.TransportError:
		m.TotalTransportErrors++
	}
}

// MetricsSnapshot is a copy of ConcurrencyMetrics without the lock.
type MetricsSnapshot struct {
	TotalRequests        int64
	TotalUnauthorized    int64
	TotalForbidden       int64
	TotalTransportErrors int64
	PermitWaitTime       time.Duration
	AverageResponseTime  time.Duration
}

// Snapshot returns a consistent copy of the current metrics.
func (ch *ConcurrencyHandler) Snapshot() MetricsSnapshot {
	m := ch.Metrics
	m.Lock.Lock()
	defer m.Lock.Unlock()

	s := MetricsSnapshot{
		TotalRequests:        m.TotalRequests,
		TotalUnauthorized:    m.TotalUnauthorized,
		TotalForbidden:       m.TotalForbidden,
		TotalTransportErrors: m.TotalTransportErrors,
		PermitWaitTime:       m.PermitWaitTime,
	}
	if m.TotalRequests > 0 {
		s.AverageResponseTime = m.ResponseTime / time.Duration(m.TotalRequests)
	}
	return s
}
