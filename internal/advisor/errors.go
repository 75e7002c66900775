package advisor

import (
	"errors"
	"fmt"
	"time"
)

var ErrUpstreamUnavailable = errors.New("advisor upstream unavailable")

// ThrottleError — апстрим попросил подождать (429 + Retry-After).
type ThrottleError struct {
	RetryAfter time.Duration
	Cause      error
}

func (e *ThrottleError) Error() string {
	return fmt.Sprintf("throttled: retry after %v (cause: %v)", e.RetryAfter, e.Cause)
}

func (e *ThrottleError) Unwrap() error { return e.Cause }

// StatusError — неуспешный HTTP-ответ апстрима.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("advisor upstream returned %d: %s", e.Code, e.Body)
}
