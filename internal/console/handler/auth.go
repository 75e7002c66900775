package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/xela07ax/complitic/internal/domain"
	"go.uber.org/zap"
)

type TokenIssuer interface {
	GenerateToken(ctx context.Context, username, password string) (*domain.TokenResponse, error)
}

type AuthHandler struct {
	service TokenIssuer
	logger  *zap.Logger
}

func NewAuthHandler(s TokenIssuer, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{service: s, logger: logger.Named("auth-handler")}
}

// Login выдает RS256 токен.
// POST /auth/token
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	resp, err := h.service.GenerateToken(r.Context(), req.Username, req.Password)
	if err != nil {
		if !errors.Is(err, domain.ErrInvalidCredentials) {
			h.logger.Error("token issuing failed", zap.Error(err))
		}
		// не уточняем, что именно неверно (логин или пароль) для защиты от перебора
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
