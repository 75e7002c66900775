package advisor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xela07ax/complitic/internal/domain"
)

type upstreamRequest struct {
	Prompt   string            `json:"prompt"`
	Question string            `json:"question"`
	History  []domain.ChatTurn `json:"history,omitempty"`
}

type upstreamResponse struct {
	Answer string `json:"answer"`
}

// Client — обращение к внешнему советнику поверх любого Transport.
type Client struct {
	transport Transport
}

func NewClient(t Transport) *Client {
	return &Client{transport: t}
}

// Ask отправляет готовый промпт и возвращает markdown-ответ советника.
func (c *Client) Ask(ctx context.Context, prompt string, req domain.ChatRequest) (string, error) {
	payload, err := json.Marshal(upstreamRequest{
		Prompt:   prompt,
		Question: req.Question,
		History:  req.History,
	})
	if err != nil {
		return "", fmt.Errorf("advisor: encode request: %w", err)
	}

	raw, err := c.transport.Send(ctx, payload)
	if err != nil {
		return "", err
	}

	var resp upstreamResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", fmt.Errorf("advisor: decode response: %w", err)
	}
	if strings.TrimSpace(resp.Answer) == "" {
		return "", fmt.Errorf("advisor: empty answer")
	}
	return resp.Answer, nil
}
