// concurrency/semaphore.go
package concurrency

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AcquireConcurrencyPermit blocks until a permit is available or ctx is done.
// It returns a derived context carrying a fresh request ID (see RequestIDFromContext)
// and the ID itself, which must be passed to ReleaseConcurrencyPermit.
func (ch *ConcurrencyHandler) AcquireConcurrencyPermit(ctx context.Context) (context.Context, uuid.UUID, error) {
	requestID := uuid.New()
	start := time.Now()

	if err := ch.sem.Acquire(ctx, 1); err != nil {
		ch.logger.Warn("Failed to acquire concurrency permit",
			zap.String("RequestID", requestID.String()),
			zap.Error(err),
		)
		return ctx, uuid.Nil, fmt.Errorf("acquire concurrency permit: %w", err)
	}

	waited := time.Since(start)

	ch.Metrics.Lock.Lock()
	ch.Metrics.TotalRequests++
	ch.Metrics.PermitWaitTime += waited
	ch.Metrics.Lock.Unlock()

	ch.logger.Debug("Concurrency permit acquired",
		zap.String("RequestID", requestID.String()),
		zap.Duration("AcquisitionTime", waited),
	)

	return context.WithValue(ctx, RequestIDKey{}, requestID), requestID, nil
}

// ReleaseConcurrencyPermit returns the permit acquired for requestID.
func (ch *ConcurrencyHandler) ReleaseConcurrencyPermit(requestID uuid.UUID) {
	ch.sem.Release(1)
	ch.logger.Debug("Released concurrency permit", zap.String("RequestID", requestID.String()))
}

// RequestIDFromContext returns the request ID stored by AcquireConcurrencyPermit.
func RequestIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(RequestIDKey{}).(uuid.UUID)
	return id, ok
}
