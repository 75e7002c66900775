package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/xela07ax/complitic/internal/advisor"
	"github.com/xela07ax/complitic/internal/audit"
	"github.com/xela07ax/complitic/internal/domain"
	"github.com/xela07ax/complitic/internal/infra"
	"go.uber.org/zap"
)

var ErrEmptyQuestion = errors.New("question is required")

// AdvisorClient — внешний советник. Реализуется advisor.Client.
type AdvisorClient interface {
	Ask(ctx context.Context, prompt string, req domain.ChatRequest) (string, error)
}

// TemplateLister — каталог для контекста промпта.
type TemplateLister interface {
	All() []domain.PolicyTemplate
}

type AdvisorService struct {
	client  AdvisorClient
	catalog TemplateLister
	auditor audit.Auditor
	logger  *zap.Logger
}

func NewAdvisorService(client AdvisorClient, catalog TemplateLister, auditor audit.Auditor, logger *zap.Logger) *AdvisorService {
	return &AdvisorService{
		client:  client,
		catalog: catalog,
		auditor: auditor,
		logger:  logger.Named("advisor-service"),
	}
}

func (s *AdvisorService) Ask(ctx context.Context, userID string, req domain.ChatRequest) (*domain.AdvisorMessage, error) {
	if strings.TrimSpace(req.Question) == "" {
		return nil, ErrEmptyQuestion
	}

	prompt := advisor.BuildPrompt(req, s.catalog.All())
	answer, err := s.client.Ask(ctx, prompt, req)
	if err != nil {
		s.logger.Error("advisor request failed", zap.String("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("service: advisor: %w", err)
	}

	s.auditor.Log(audit.Event{
		TraceID: infra.TraceIDFromContext(ctx),
		UserID:  userID,
		Action:  audit.ActionAdvisorAsked,
	})

	msg := advisor.ParseMessage(answer)
	return &msg, nil
}
