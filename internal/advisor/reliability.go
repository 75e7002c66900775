package advisor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avast/retry-go/v5"
	"github.com/sony/gobreaker"
	"github.com/xela07ax/complitic/internal/metrics"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type ReliabilityOptions struct {
	RateLimit     float64 // запросов в секунду
	Burst         int
	Attempts      uint
	RetryDelay    time.Duration
	CallTimeout   time.Duration
	CBMaxRequests uint32
	CBInterval    time.Duration
	CBTimeout     time.Duration
	CBFailures    uint32 // Подряд ошибок до размыкания
}

func (o ReliabilityOptions) withDefaults() ReliabilityOptions {
	if o.RateLimit <= 0 {
		o.RateLimit = 5
	}
	if o.Burst <= 0 {
		o.Burst = 5
	}
	if o.Attempts == 0 {
		o.Attempts = 3
	}
	if o.RetryDelay <= 0 {
		o.RetryDelay = 100 * time.Millisecond
	}
	if o.CallTimeout <= 0 {
		o.CallTimeout = 20 * time.Second
	}
	if o.CBMaxRequests == 0 {
		o.CBMaxRequests = 3
	}
	if o.CBInterval <= 0 {
		o.CBInterval = 5 * time.Second
	}
	if o.CBTimeout <= 0 {
		o.CBTimeout = 30 * time.Second
	}
	if o.CBFailures == 0 {
		o.CBFailures = 5
	}
	return o
}

// ReliabilityWrapper оборачивает Transport: rate limit -> circuit breaker -> retry.
type ReliabilityWrapper struct {
	next    Transport
	cb      *gobreaker.CircuitBreaker
	limiter *rate.Limiter
	opts    ReliabilityOptions
	metrics *metrics.Metrics
	logger  *zap.Logger
}

func NewReliabilityWrapper(next Transport, opts ReliabilityOptions, m *metrics.Metrics, logger *zap.Logger) *ReliabilityWrapper {
	opts = opts.withDefaults()
	if m == nil {
		m = metrics.NewMetrics(nil)
	}
	logger = logger.Named("advisor-reliability")

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "advisor-upstream",
		MaxRequests: opts.CBMaxRequests,
		Interval:    opts.CBInterval,
		Timeout:     opts.CBTimeout, // Время, через которое CB попробует "закрыться"
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= opts.CBFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			m.CircuitBreakerState.Set(float64(to))
			logger.Warn("circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})

	return &ReliabilityWrapper{
		next:    next,
		cb:      cb,
		limiter: rate.NewLimiter(rate.Limit(opts.RateLimit), opts.Burst),
		opts:    opts,
		metrics: m,
		logger:  logger,
	}
}

func (w *ReliabilityWrapper) Send(ctx context.Context, payload []byte) ([]byte, error) {
	// 1. Rate Limiter
	if err := w.limiter.Wait(ctx); err != nil {
		w.metrics.AdvisorRequests.WithLabelValues("rate_limited").Inc()
		return nil, fmt.Errorf("rate limit exceeded: %w", err)
	}

	var finalData []byte

	// 2. Circuit Breaker
	_, err := w.cb.Execute(func() (interface{}, error) {
		r := retry.New(
			retry.Context(ctx),
			retry.Attempts(w.opts.Attempts),
			retry.Delay(w.opts.RetryDelay),
			retry.LastErrorOnly(true),
			retry.DelayType(func(n uint, err error, config retry.DelayContext) time.Duration {
				// Апстрим сам сказал, сколько ждать
				var tErr *ThrottleError
				if errors.As(err, &tErr) {
					return tErr.RetryAfter
				}
				return retry.BackOffDelay(n, err, config)
			}),
		)

		retryErr := r.Do(func() error {
			tCtx, cancel := context.WithTimeout(ctx, w.opts.CallTimeout)
			defer cancel()

			var callErr error
			finalData, callErr = w.next.Send(tCtx, payload)
			return callErr
		})

		return finalData, retryErr
	})

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			w.metrics.AdvisorRequests.WithLabelValues("open_circuit").Inc()
			return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
		}
		w.metrics.AdvisorRequests.WithLabelValues("error").Inc()
		w.logger.Error("advisor upstream call failed", zap.Error(err))
		return nil, err
	}

	w.metrics.AdvisorRequests.WithLabelValues("success").Inc()
	return finalData, nil
}
