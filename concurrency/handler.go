// concurrency/handler.go
/* Package concurrency bounds the number of requests the client has in flight at once.
Every dispatched attempt, initial or replayed, holds one permit for the duration of its
network call. Permits are never held while a caller waits for a refresh to settle, and the
refresh call does not take one, so a full cohort of waiters cannot starve it. */
package concurrency

import (
	"sync"
	"time"

	"github.com/deploymenttheory/go-api-session-client/logger"
	"golang.org/x/sync/semaphore"
)

// ConcurrencyHandler controls the number of concurrent HTTP requests.
type ConcurrencyHandler struct {
	sem     *semaphore.Weighted
	limit   int64
	logger  logger.Logger
	Metrics *ConcurrencyMetrics
}

// ConcurrencyMetrics captures counters for the requests issued through the handler.
type ConcurrencyMetrics struct {
	TotalRequests        int64         // Total number of permits granted
	TotalUnauthorized    int64         // Responses classified as unauthorized
	TotalForbidden       int64         // Responses classified as forbidden
	TotalTransportErrors int64         // Attempts that produced no response
	PermitWaitTime       time.Duration // Total time spent waiting for permits
	ResponseTime         time.Duration // Total time spent in the transport
	Lock                 sync.Mutex
}

// RequestIDKey is the context key under which the request ID of the permit is stored.
type RequestIDKey struct{}

// NewConcurrencyHandler initializes a new ConcurrencyHandler allowing at most limit
// concurrent requests. A limit below 1 is treated as 1.
func NewConcurrencyHandler(limit int, log logger.Logger, metrics *ConcurrencyMetrics) *ConcurrencyHandler {
	if limit < 1 {
		limit = 1
	}
	if metrics == nil {
		metrics = &ConcurrencyMetrics{}
	}
	return &ConcurrencyHandler{
		sem:     semaphore.NewWeighted(int64(limit)),
		limit:   int64(limit),
		logger:  log,
		Metrics: metrics,
	}
}

// Limit returns the maximum number of concurrent permits.
func (ch *ConcurrencyHandler) Limit() int {
	return int(ch.limit)
}
