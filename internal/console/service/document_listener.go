package service

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/xela07ax/complitic/internal/infra"
	"go.uber.org/zap"
)

// CacheInvalidator реализуется DashboardService.
type CacheInvalidator interface {
	Invalidate(ctx context.Context) error
}

// Subscriber — подмножество *redis.Client для Pub/Sub.
type Subscriber interface {
	Subscribe(ctx context.Context, channels ...string) *redis.PubSub
}

// DocumentEventListener слушает сигналы о документах и сбрасывает кэш
// аналитики, чтобы админка не показывала устаревшие цифры до истечения TTL.
type DocumentEventListener struct {
	rdb    Subscriber
	target CacheInvalidator
	logger *zap.Logger
}

func NewDocumentEventListener(rdb Subscriber, target CacheInvalidator, logger *zap.Logger) *DocumentEventListener {
	return &DocumentEventListener{
		rdb:    rdb,
		target: target,
		logger: logger.Named("document-listener"),
	}
}

// Start блокируется до отмены контекста. Запускать в отдельной горутине.
func (l *DocumentEventListener) Start(ctx context.Context) {
	// Каналы должны совпадать с теми, куда публикует DocumentService
	pubsub := l.rdb.Subscribe(ctx, infra.RedisChanDocumentSaved, infra.RedisChanDocumentDeleted)
	defer pubsub.Close()

	l.consume(ctx, pubsub.Channel())
}

func (l *DocumentEventListener) consume(ctx context.Context, ch <-chan *redis.Message) {
	l.logger.Info("document listener started")

	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				l.logger.Info("document channel closed")
				return
			}
			l.handle(ctx, msg)

		case <-ctx.Done():
			l.logger.Info("document listener stopping by context")
			return
		}
	}
}

func (l *DocumentEventListener) handle(ctx context.Context, msg *redis.Message) {
	userID, documentID, _, ok := infra.ParseDocumentEventPayload(msg.Payload)
	if !ok {
		l.logger.Warn("malformed document event",
			zap.String("channel", msg.Channel),
			zap.String("payload", msg.Payload))
		return
	}

	if err := l.target.Invalidate(ctx); err != nil {
		l.logger.Warn("dashboard cache invalidation failed", zap.Error(err))
		return
	}
	l.logger.Debug("dashboard cache invalidated",
		zap.String("channel", msg.Channel),
		zap.String("user_id", userID),
		zap.String("document_id", documentID))
}
