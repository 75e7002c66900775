package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/xela07ax/complitic/internal/advisor"
	"github.com/xela07ax/complitic/internal/console/service"
	"github.com/xela07ax/complitic/internal/domain"
	"github.com/xela07ax/complitic/internal/infra/auth"
)

type Advisor interface {
	Ask(ctx context.Context, userID string, req domain.ChatRequest) (*domain.AdvisorMessage, error)
}

type AdvisorHandler struct {
	service Advisor
}

func NewAdvisorHandler(s Advisor) *AdvisorHandler {
	return &AdvisorHandler{service: s}
}

// Chat POST /v1/advisor/chat
func (h *AdvisorHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req domain.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	msg, err := h.service.Ask(r.Context(), auth.UserIDFromContext(r.Context()), req)
	if err != nil {
		var throttle *advisor.ThrottleError
		switch {
		case errors.Is(err, service.ErrEmptyQuestion):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.As(err, &throttle):
			w.Header().Set("Retry-After", strconv.Itoa(int(throttle.RetryAfter.Seconds())))
			http.Error(w, "Advisor is busy, try again later", http.StatusTooManyRequests)
		case errors.Is(err, advisor.ErrUpstreamUnavailable):
			http.Error(w, "Advisor is unavailable", http.StatusServiceUnavailable)
		default:
			http.Error(w, "Advisor request failed", http.StatusBadGateway)
		}
		return
	}

	writeJSON(w, http.StatusOK, msg)
}
