package advisor

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/avast/retry-go/v5"
)

// Transport доставляет запрос до апстрима и возвращает сырое тело ответа.
type Transport interface {
	Send(ctx context.Context, payload []byte) ([]byte, error)
}

// HTTPTransport — POST JSON на внешний endpoint советника.
type HTTPTransport struct {
	url    string
	apiKey string
	client *http.Client
}

func NewHTTPTransport(url, apiKey string, timeout time.Duration) *HTTPTransport {
	return &HTTPTransport{
		url:    url,
		apiKey: apiKey,
		client: &http.Client{Timeout: timeout},
	}
}

func (t *HTTPTransport) Send(ctx context.Context, payload []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.url, bytes.NewReader(payload))
	if err != nil {
		return nil, retry.Unrecoverable(fmt.Errorf("advisor: build request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	if t.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+t.apiKey)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("advisor: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("advisor: read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, &ThrottleError{
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			Cause:      &StatusError{Code: resp.StatusCode, Body: string(body)},
		}
	case resp.StatusCode >= 500:
		// 5xx — повторяем
		return nil, &StatusError{Code: resp.StatusCode, Body: string(body)}
	case resp.StatusCode >= 400:
		// 4xx — повтор не поможет
		return nil, retry.Unrecoverable(&StatusError{Code: resp.StatusCode, Body: string(body)})
	}
	return body, nil
}

func parseRetryAfter(v string) time.Duration {
	secs, err := strconv.Atoi(v)
	if err != nil || secs < 0 {
		return time.Second
	}
	return time.Duration(secs) * time.Second
}
