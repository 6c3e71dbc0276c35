package resilience

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	pgx "github.com/jackc/pgx/v4"

	"github.com/AlibekovAA/gql-user-auth/internal/common/clock"
	commonerrors "github.com/AlibekovAA/gql-user-auth/internal/common/errors"
	"github.com/AlibekovAA/gql-user-auth/internal/common/logger"
	"github.com/AlibekovAA/gql-user-auth/internal/observability/metrics"
)

type CircuitBreaker struct {
	failures    atomic.Int32
	lastFailure atomic.Value
	threshold   int32
	timeout     time.Duration
	resetAfter  time.Duration
	name        string
	log         *logger.Logger
	clock       clock.Clock
	ignore      func(error) bool
}

type CircuitBreakerConfig struct {
	Threshold  int32
	Timeout    time.Duration
	ResetAfter time.Duration
	Name       string
	Logger     *logger.Logger
	Clock      clock.Clock
	// Ignore marks errors that are expected outcomes rather than backend
	// failures. pgx.ErrNoRows is always ignored.
	Ignore func(error) bool
}

func NewCircuitBreaker(config CircuitBreakerConfig) *CircuitBreaker {
	c := config.Clock
	if c == nil {
		c = clock.NewRealClock()
	}
	cb := &CircuitBreaker{
		threshold:  config.Threshold,
		timeout:    config.Timeout,
		resetAfter: config.ResetAfter,
		name:       config.Name,
		log:        config.Logger,
		clock:      c,
		ignore:     config.Ignore,
	}
	cb.lastFailure.Store(time.Time{})
	return cb
}

func (cb *CircuitBreaker) IsOpen() bool {
	if cb.failures.Load() < cb.threshold {
		cb.setState(0)
		return false
	}

	lastFailure := cb.lastFailure.Load().(time.Time)
	if lastFailure.IsZero() {
		cb.setState(0)
		return false
	}

	if cb.clock.Since(lastFailure) > cb.resetAfter {
		cb.reset()
		cb.setState(0)
		return false
	}

	cb.setState(1)
	return true
}

func (cb *CircuitBreaker) setState(state float64) {
	if cb.name != "" {
		metrics.CircuitBreakerState.WithLabelValues(cb.name).Set(state)
	}
}

func (cb *CircuitBreaker) isFailure(err error) bool {
	if errors.Is(err, pgx.ErrNoRows) {
		return false
	}
	if cb.ignore != nil && cb.ignore(err) {
		return false
	}
	return true
}

func (cb *CircuitBreaker) recordFailure() {
	cb.failures.Add(1)
	cb.lastFailure.Store(cb.clock.Now())
	if cb.name != "" {
		metrics.CircuitBreakerFailures.WithLabelValues(cb.name).Inc()
	}
	if cb.log != nil {
		cb.log.Warnf("circuit breaker [%s]: failure recorded", cb.name)
	}
}

func (cb *CircuitBreaker) reset() {
	cb.failures.Store(0)
	cb.lastFailure.Store(time.Time{})
}

// Call runs fn with a bounded context. While the circuit is open fn is not
// invoked and ErrCircuitOpen is returned.
func (cb *CircuitBreaker) Call(ctx context.Context, fn func(context.Context) error) error {
	if cb.IsOpen() {
		if cb.log != nil {
			cb.log.Warnf("circuit breaker [%s]: circuit is open, rejecting request", cb.name)
		}
		return commonerrors.ErrCircuitOpen
	}

	callCtx := ctx
	if cb.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, cb.timeout)
		defer cancel()
	}

	err := fn(callCtx)
	if err != nil {
		if cb.isFailure(err) {
			cb.recordFailure()
		}
		return err
	}

	cb.reset()
	return nil
}
