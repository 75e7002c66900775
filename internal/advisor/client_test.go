package advisor

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xela07ax/complitic/internal/domain"
	"go.uber.org/zap"
)

func TestClientAskOverHTTP(t *testing.T) {
	var got upstreamRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"answer":"Use the [Refund Policy](/templates/refund_policy)."}`))
	}))
	defer srv.Close()

	client := NewClient(NewHTTPTransport(srv.URL, "secret", time.Second))
	answer, err := client.Ask(context.Background(), "PROMPT", domain.ChatRequest{Question: "refunds?"})
	require.NoError(t, err)

	assert.Equal(t, "Use the [Refund Policy](/templates/refund_policy).", answer)
	assert.Equal(t, "PROMPT", got.Prompt)
	assert.Equal(t, "refunds?", got.Question)
}

func TestClientEmptyAnswer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"answer":"   "}`))
	}))
	defer srv.Close()

	_, err := NewClient(NewHTTPTransport(srv.URL, "", time.Second)).Ask(context.Background(), "p", domain.ChatRequest{})
	assert.Error(t, err)
}

func TestHTTPTransportStatusMapping(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		header    string
		throttled bool
	}{
		{name: "throttled", status: http.StatusTooManyRequests, header: "2", throttled: true},
		{name: "server error", status: http.StatusBadGateway},
		{name: "client error", status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.header != "" {
					w.Header().Set("Retry-After", tt.header)
				}
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			_, err := NewHTTPTransport(srv.URL, "", time.Second).Send(context.Background(), []byte(`{}`))
			require.Error(t, err)

			var tErr *ThrottleError
			assert.Equal(t, tt.throttled, errors.As(err, &tErr))
			if tt.throttled {
				assert.Equal(t, 2*time.Second, tErr.RetryAfter)
			}

			var sErr *StatusError
			require.True(t, errors.As(err, &sErr))
			assert.Equal(t, tt.status, sErr.Code)
		})
	}
}

func TestParseRetryAfter(t *testing.T) {
	assert.Equal(t, 3*time.Second, parseRetryAfter("3"))
	assert.Equal(t, time.Second, parseRetryAfter(""))
	assert.Equal(t, time.Second, parseRetryAfter("Wed, 21 Oct 2015 07:28:00 GMT"))
}

type scriptedTransport struct {
	calls atomic.Int32
	fail  int32 // сколько первых вызовов завершаются ошибкой
	err   error
}

func (s *scriptedTransport) Send(ctx context.Context, payload []byte) ([]byte, error) {
	n := s.calls.Add(1)
	if n <= s.fail {
		return nil, s.err
	}
	return []byte(`{"answer":"ok"}`), nil
}

func fastOptions() ReliabilityOptions {
	return ReliabilityOptions{
		RateLimit:  1000,
		Burst:      100,
		Attempts:   3,
		RetryDelay: time.Millisecond,
		CBFailures: 2,
		CBTimeout:  time.Hour,
	}
}

func TestReliabilityWrapperRetries(t *testing.T) {
	next := &scriptedTransport{fail: 2, err: &StatusError{Code: 503}}
	w := NewReliabilityWrapper(next, fastOptions(), nil, zap.NewNop())

	out, err := w.Send(context.Background(), []byte(`{}`))
	require.NoError(t, err)
	assert.Equal(t, `{"answer":"ok"}`, string(out))
	assert.Equal(t, int32(3), next.calls.Load())
}

func TestReliabilityWrapperHonoursThrottle(t *testing.T) {
	next := &scriptedTransport{fail: 1, err: &ThrottleError{RetryAfter: 0}}
	w := NewReliabilityWrapper(next, fastOptions(), nil, zap.NewNop())

	_, err := w.Send(context.Background(), []byte(`{}`))
	require.NoError(t, err)
	assert.Equal(t, int32(2), next.calls.Load())
}

func TestReliabilityWrapperOpensCircuit(t *testing.T) {
	next := &scriptedTransport{fail: 1000, err: &StatusError{Code: 500}}
	w := NewReliabilityWrapper(next, fastOptions(), nil, zap.NewNop())

	for i := 0; i < 2; i++ {
		_, err := w.Send(context.Background(), []byte(`{}`))
		require.Error(t, err)
		assert.False(t, errors.Is(err, ErrUpstreamUnavailable))
	}
	callsBefore := next.calls.Load()

	_, err := w.Send(context.Background(), []byte(`{}`))
	require.ErrorIs(t, err, ErrUpstreamUnavailable)
	assert.Equal(t, callsBefore, next.calls.Load(), "open circuit must not reach the upstream")
}
