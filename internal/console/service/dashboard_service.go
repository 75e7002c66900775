package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/xela07ax/complitic/internal/domain"
	"github.com/xela07ax/complitic/internal/infra"
	"github.com/xela07ax/complitic/internal/metrics"
	"go.uber.org/zap"
)

type StatsRepository interface {
	GetDashboardStats(ctx context.Context) (*domain.DashboardStats, error)
}

// StatsCache — подмножество *redis.Client, нужное для кэша аналитики.
type StatsCache interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

const warmupLockTTL = 30 * time.Second

type DashboardService struct {
	repo    StatsRepository
	cache   StatsCache
	ttl     time.Duration
	metrics *metrics.Metrics
	logger  *zap.Logger
}

func NewDashboardService(repo StatsRepository, cache StatsCache, ttl time.Duration, m *metrics.Metrics, logger *zap.Logger) *DashboardService {
	if m == nil {
		m = metrics.NewMetrics(nil)
	}
	return &DashboardService{
		repo:    repo,
		cache:   cache,
		ttl:     ttl,
		metrics: m,
		logger:  logger.Named("dashboard-service"),
	}
}

// GetGlobalStats отдает аналитику из Redis, а при промахе — из Postgres.
// Недоступность Redis не ломает дашборд.
func (s *DashboardService) GetGlobalStats(ctx context.Context) (*domain.DashboardStats, error) {
	if stats, ok := s.fromCache(ctx); ok {
		return stats, nil
	}

	stats, err := s.repo.GetDashboardStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: dashboard stats: %w", err)
	}

	if s.ttl > 0 {
		data, err := json.Marshal(stats)
		if err == nil {
			err = s.cache.Set(ctx, infra.RedisKeyDashboardStats, data, s.ttl).Err()
		}
		if err != nil {
			s.logger.Warn("failed to cache dashboard stats", zap.Error(err))
		}
	}
	return stats, nil
}

func (s *DashboardService) fromCache(ctx context.Context) (*domain.DashboardStats, bool) {
	if s.ttl <= 0 {
		return nil, false
	}

	data, err := s.cache.Get(ctx, infra.RedisKeyDashboardStats).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			s.metrics.DashboardCache.WithLabelValues("miss").Inc()
		} else {
			s.metrics.DashboardCache.WithLabelValues("error").Inc()
			s.logger.Warn("dashboard cache unavailable, falling back to database", zap.Error(err))
		}
		return nil, false
	}

	var stats domain.DashboardStats
	if err := json.Unmarshal(data, &stats); err != nil {
		s.metrics.DashboardCache.WithLabelValues("error").Inc()
		s.logger.Warn("corrupted dashboard cache entry", zap.Error(err))
		return nil, false
	}
	s.metrics.DashboardCache.WithLabelValues("hit").Inc()
	return &stats, true
}

// Invalidate сбрасывает кэш, чтобы следующий запрос посчитал свежие цифры.
func (s *DashboardService) Invalidate(ctx context.Context) error {
	if err := s.cache.Del(ctx, infra.RedisKeyDashboardStats).Err(); err != nil {
		return fmt.Errorf("service: invalidate dashboard cache: %w", err)
	}
	return nil
}

// Warmup заполняет кэш при старте. Распределенная блокировка (SetNX)
// оставляет прогрев одному инстансу.
func (s *DashboardService) Warmup(ctx context.Context) error {
	if s.ttl <= 0 {
		return nil
	}

	ok, err := s.cache.SetNX(ctx, infra.RedisKeyDashboardWarmupLock, "processing", warmupLockTTL).Result()
	if err != nil || !ok {
		// Либо ошибка сети, либо другой инстанс уже греет кэш
		return nil
	}

	if _, err := s.GetGlobalStats(ctx); err != nil {
		return fmt.Errorf("service: dashboard warmup: %w", err)
	}
	s.logger.Info("dashboard cache warmed up")
	return nil
}
