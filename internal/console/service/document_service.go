package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/xela07ax/complitic/internal/audit"
	"github.com/xela07ax/complitic/internal/domain"
	"github.com/xela07ax/complitic/internal/infra"
	"github.com/xela07ax/complitic/internal/metrics"
	"github.com/xela07ax/complitic/internal/render"
	"go.uber.org/zap"
)

var ErrEmptyContent = errors.New("document content is empty")

// DocumentRepository описывает требования к хранилищу документов
type DocumentRepository interface {
	CreateDocument(ctx context.Context, d *domain.Document) error
	GetDocument(ctx context.Context, id string) (*domain.Document, error)
	ListDocuments(ctx context.Context, userID string, limit int) ([]*domain.Document, error)
	DeleteDocument(ctx context.Context, userID, id string) error
}

// TemplateCatalog — поиск шаблона по slug. Реализуется templates.Store.
type TemplateCatalog interface {
	Get(slug string) (domain.PolicyTemplate, bool)
}

// Publisher — отправка сигналов в Redis Pub/Sub. Реализуется *redis.Client.
type Publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

type DocumentService struct {
	catalog TemplateCatalog
	repo    DocumentRepository
	rdb     Publisher
	auditor audit.Auditor
	metrics *metrics.Metrics
	logger  *zap.Logger
}

func NewDocumentService(
	catalog TemplateCatalog,
	repo DocumentRepository,
	rdb Publisher,
	auditor audit.Auditor,
	m *metrics.Metrics,
	logger *zap.Logger,
) *DocumentService {
	if m == nil {
		m = metrics.NewMetrics(nil)
	}
	return &DocumentService{
		catalog: catalog,
		repo:    repo,
		rdb:     rdb,
		auditor: auditor,
		metrics: m,
		logger:  logger.Named("document-service"),
	}
}

// Generate рендерит шаблон для предпросмотра. Незаполненные обязательные поля
// не блокируют рендер, а возвращаются в Missing.
func (s *DocumentService) Generate(ctx context.Context, userID, slug string, values domain.FieldValues, format domain.DocumentFormat) (*domain.GenerateResult, error) {
	tmpl, ok := s.catalog.Get(slug)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrTemplateNotFound, slug)
	}

	start := time.Now()
	var (
		content string
		err     error
	)
	switch format {
	case domain.FormatHTML:
		content, err = render.RenderHTML(tmpl.Content, values)
		if err != nil {
			return nil, fmt.Errorf("service: render html: %w", err)
		}
	default:
		format = domain.FormatText
		content = render.Render(tmpl.Content, values)
	}
	s.metrics.RenderDuration.WithLabelValues(slug).Observe(time.Since(start).Seconds())
	s.metrics.RendersTotal.WithLabelValues(slug, string(format)).Inc()

	result := &domain.GenerateResult{
		Template:   tmpl,
		Content:    content,
		Format:     format,
		Missing:    render.MissingFields(tmpl, values),
		Unresolved: render.Unresolved(content),
	}
	if n := len(result.Unresolved); n > 0 {
		s.metrics.UnresolvedPlaceholders.WithLabelValues(slug).Add(float64(n))
	}

	s.auditor.Log(audit.Event{
		TraceID:      infra.TraceIDFromContext(ctx),
		UserID:       userID,
		Action:       audit.ActionDocumentGenerated,
		TemplateSlug: slug,
		Details:      map[string]string{"format": string(format)},
	})

	return result, nil
}

// Save сохраняет готовый документ и уведомляет подписчиков.
func (s *DocumentService) Save(ctx context.Context, userID string, doc domain.Document) (*domain.Document, error) {
	tmpl, ok := s.catalog.Get(doc.TemplateSlug)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrTemplateNotFound, doc.TemplateSlug)
	}
	if strings.TrimSpace(doc.Content) == "" {
		return nil, ErrEmptyContent
	}

	doc.ID = uuid.New().String()
	doc.UserID = userID
	if doc.TemplateName == "" {
		doc.TemplateName = tmpl.Name
	}
	if doc.Format == "" {
		doc.Format = domain.FormatText
	}
	if doc.FormData == nil {
		doc.FormData = domain.FieldValues{}
	}

	// 1. Persistence Layer
	if err := s.repo.CreateDocument(ctx, &doc); err != nil {
		s.logger.Error("failed to save document",
			zap.String("user_id", userID),
			zap.String("template", doc.TemplateSlug),
			zap.Error(err))
		return nil, fmt.Errorf("service: save document: %w", err)
	}
	s.metrics.DocumentsSaved.WithLabelValues(doc.TemplateSlug).Inc()

	// 2. Real-time Signaling
	s.signal(ctx, infra.RedisChanDocumentSaved, userID, doc.ID, doc.TemplateSlug)

	s.auditor.Log(audit.Event{
		TraceID:      infra.TraceIDFromContext(ctx),
		UserID:       userID,
		Action:       audit.ActionDocumentSaved,
		TemplateSlug: doc.TemplateSlug,
		DocumentID:   doc.ID,
	})

	s.logger.Info("document saved",
		zap.String("document_id", doc.ID),
		zap.String("user_id", userID),
		zap.String("template", doc.TemplateSlug))

	return &doc, nil
}

// Get возвращает документ владельца. Чужой документ неотличим от отсутствующего.
func (s *DocumentService) Get(ctx context.Context, userID, id string) (*domain.Document, error) {
	if !validDocumentID(id) {
		return nil, domain.ErrDocumentNotFound
	}
	doc, err := s.repo.GetDocument(ctx, id)
	if err != nil {
		s.logger.Error("failed to fetch document", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("service: get document: %w", err)
	}
	if doc == nil || doc.UserID != userID {
		return nil, domain.ErrDocumentNotFound
	}
	return doc, nil
}

// List возвращает последние domain.DocumentListLimit документов пользователя.
func (s *DocumentService) List(ctx context.Context, userID string) ([]*domain.Document, error) {
	docs, err := s.repo.ListDocuments(ctx, userID, domain.DocumentListLimit)
	if err != nil {
		s.logger.Error("failed to list documents", zap.String("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("service: could not fetch documents: %w", err)
	}

	// Гарантируем, что фронтенд получит пустой массив [], а не null
	if docs == nil {
		return []*domain.Document{}, nil
	}
	return docs, nil
}

func (s *DocumentService) Delete(ctx context.Context, userID, id string) error {
	if !validDocumentID(id) {
		return domain.ErrDocumentNotFound
	}
	if err := s.repo.DeleteDocument(ctx, userID, id); err != nil {
		if errors.Is(err, domain.ErrDocumentNotFound) {
			return domain.ErrDocumentNotFound
		}
		return fmt.Errorf("service: delete document: %w", err)
	}

	s.signal(ctx, infra.RedisChanDocumentDeleted, userID, id, "")
	s.auditor.Log(audit.Event{
		TraceID:    infra.TraceIDFromContext(ctx),
		UserID:     userID,
		Action:     audit.ActionDocumentDeleted,
		DocumentID: id,
	})
	return nil
}

// validDocumentID отсекает id, которые не являются UUID: колонка documents.id
// имеет тип UUID, и такой запрос Postgres отклонит ошибкой, а не пустым результатом.
func validDocumentID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// signal не роняет операцию: документ уже в базе, сигнал best-effort.
func (s *DocumentService) signal(ctx context.Context, channel, userID, docID, slug string) {
	payload := infra.DocumentEventPayload(userID, docID, slug)
	if err := s.rdb.Publish(ctx, channel, payload).Err(); err != nil {
		s.logger.Warn("document signal delivery failed",
			zap.String("channel", channel),
			zap.String("document_id", docID),
			zap.Error(err))
	}
}
