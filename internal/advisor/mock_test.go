package advisor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xela07ax/complitic/internal/domain"
)

func TestMockTransportThroughClient(t *testing.T) {
	client := NewClient(&MockTransport{})

	answer, err := client.Ask(context.Background(), "prompt", domain.ChatRequest{Question: "How do I handle Returns?"})
	require.NoError(t, err)

	msg := ParseMessage(answer)
	assert.Equal(t, []domain.Link{{Label: "Refund Policy", URL: "/templates/refund_policy"}}, msg.Links)

	answer, err = client.Ask(context.Background(), "prompt", domain.ChatRequest{Question: "hello"})
	require.NoError(t, err)
	assert.Len(t, ParseMessage(answer).Links, 2)
}

func TestMockTransportRespectsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Отмененный контекст прерывает имитацию задержки
	_, err := (&MockTransport{MaxLatency: time.Hour}).Send(ctx, []byte(`{"question":"q"}`))
	assert.ErrorIs(t, err, context.Canceled)

	_, err = (&MockTransport{}).Send(context.Background(), []byte(`not json`))
	assert.Error(t, err)
}
