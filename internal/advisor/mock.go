package advisor

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"
)

// MockTransport отвечает заготовками без внешнего сервиса.
// Используется, когда advisor.url не задан (локальная разработка, демо).
type MockTransport struct {
	// MaxLatency имитирует задержку апстрима: случайно от 0 до MaxLatency
	MaxLatency time.Duration
}

type cannedAnswer struct {
	keywords []string
	slug     string
	name     string
	reason   string
}

var cannedAnswers = []cannedAnswer{
	{[]string{"refund", "return"}, "refund_policy", "Refund Policy", "explains the return window and how refunds are issued"},
	{[]string{"ship", "deliver"}, "shipping_policy", "Shipping Policy", "sets expectations on processing and delivery times"},
	{[]string{"cookie", "tracking"}, "cookie_policy", "Cookie Policy", "discloses the cookies and trackers your store uses"},
	{[]string{"terms", "conditions", "liability"}, "terms_conditions", "Terms & Conditions", "defines the rules of using your store"},
	{[]string{"privacy", "gdpr", "personal data", "ccpa"}, "privacy_policy", "Privacy Policy", "describes what personal data you collect and why"},
}

func (m *MockTransport) Send(ctx context.Context, payload []byte) ([]byte, error) {
	var req upstreamRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return nil, fmt.Errorf("advisor mock: decode request: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.MaxLatency > 0 {
		latency := time.Duration(rand.Int64N(int64(m.MaxLatency)))
		select {
		case <-time.After(latency):
			// Имитация работы
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return json.Marshal(upstreamResponse{Answer: mockAnswer(req.Question)})
}

func mockAnswer(question string) string {
	q := strings.ToLower(question)
	for _, a := range cannedAnswers {
		for _, kw := range a.keywords {
			if strings.Contains(q, kw) {
				return fmt.Sprintf("You should publish a **%s**: it %s. Start from the [%s](/templates/%s) template.",
					a.name, a.reason, a.name, a.slug)
			}
		}
	}
	return "Most stores need at least a [Privacy Policy](/templates/privacy_policy) and " +
		"[Terms & Conditions](/templates/terms_conditions). Tell me more about what you sell and where you ship."
}
