package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/xela07ax/complitic/internal/advisor"
	"github.com/xela07ax/complitic/internal/audit"
	"github.com/xela07ax/complitic/internal/console/handler"
	"github.com/xela07ax/complitic/internal/console/server"
	"github.com/xela07ax/complitic/internal/console/service"
	"github.com/xela07ax/complitic/internal/infra"
	"github.com/xela07ax/complitic/internal/infra/auth"
	"github.com/xela07ax/complitic/internal/metrics"
	"github.com/xela07ax/complitic/internal/repository/postgres"
	"github.com/xela07ax/complitic/internal/templates"
)

func main() {
	// 0. Конфиг и логгер
	cfg, err := infra.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, err := infra.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	// 1. Каталог шаблонов собирается один раз и дальше только читается
	catalog, err := templates.LoadBuiltin()
	if err != nil {
		logger.Fatal("failed to load builtin templates", zap.Error(err))
	}
	logger.Info("template catalog loaded", zap.Int("templates", catalog.Len()))

	// 2. Инфраструктура и ресурсы
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	repo, err := postgres.NewRepo(ctx, cfg.Database)
	if err != nil {
		cancel()
		logger.Fatal("database config", zap.Error(err))
	}
	if err := repo.Ping(ctx); err != nil {
		cancel()
		logger.Fatal("database unreachable", zap.Error(err))
	}
	if err := repo.Migrate(ctx); err != nil {
		cancel()
		logger.Fatal("migration failed", zap.Error(err))
	}
	cancel()
	defer repo.Close()

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()
	// Redis не критичен: без него теряем только кэш и сигналы
	pingCtx, pingCancel := context.WithTimeout(context.Background(), 2*time.Second)
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		logger.Warn("redis unreachable, running without cache", zap.Error(err))
	}
	pingCancel()

	// Метрики
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewMetrics(reg)

	metricsSrv := &http.Server{
		Addr:    cfg.Metrics.Addr,
		Handler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	}
	go func() {
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", zap.Error(err))
		}
	}()

	// Журнал действий пишется в базу пачками
	recorder := audit.NewRecorder(repo, audit.Options{
		BufferSize:    cfg.Audit.BufferSize,
		BatchSize:     cfg.Audit.BatchSize,
		FlushInterval: cfg.Audit.FlushInterval,
	}, m, logger)
	recorder.Start()

	// 3. Ключи RS256
	pubKey, err := auth.ParseRSAPublicKey(cfg.Auth.PublicKey)
	if err != nil {
		logger.Fatal("public key", zap.Error(err))
	}
	privKey, err := auth.ParseRSAPrivateKey(cfg.Auth.PrivateKey)
	if err != nil {
		logger.Fatal("private key", zap.Error(err))
	}

	// 4. Советник: Transport -> Reliability (Rate limit, Circuit Breaker, Retries)
	var upstream advisor.Transport = advisor.NewHTTPTransport(cfg.Advisor.URL, cfg.Advisor.APIKey, cfg.Advisor.Timeout)
	if cfg.Advisor.URL == "" {
		logger.Warn("advisor.url is empty, using canned advisor answers")
		upstream = &advisor.MockTransport{MaxLatency: 300 * time.Millisecond}
	}
	advisorTransport := advisor.NewReliabilityWrapper(upstream, advisor.ReliabilityOptions{
		RateLimit:     cfg.Advisor.RateLimit,
		Burst:         cfg.Advisor.Burst,
		Attempts:      cfg.Advisor.Attempts,
		CallTimeout:   cfg.Advisor.Timeout,
		CBMaxRequests: cfg.Advisor.CBMaxRequests,
		CBInterval:    cfg.Advisor.CBInterval,
		CBTimeout:     cfg.Advisor.CBTimeout,
	}, m, logger)

	// 5. Слои (Dependency Injection)
	documentService := service.NewDocumentService(catalog, repo, rdb, recorder, m, logger)
	authService := service.NewAuthService(repo, privKey, cfg.Auth, recorder)
	dashboardService := service.NewDashboardService(repo, rdb, cfg.Dashboard.CacheTTL, m, logger)
	advisorService := service.NewAdvisorService(advisor.NewClient(advisorTransport), catalog, recorder, logger)
	auditService := service.NewAuditService(repo)

	// Контекст фоновых горутин: отменяется при остановке
	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()

	if err := dashboardService.Warmup(appCtx); err != nil {
		logger.Warn("dashboard warmup failed", zap.Error(err))
	}
	// Сохранение и удаление документов сбрасывают кэш аналитики
	go service.NewDocumentEventListener(rdb, dashboardService, logger).Start(appCtx)

	api := server.NewConsoleServer(logger, auth.NewBaseValidator(pubKey, auth.WithIssuer(cfg.Auth.Issuer)), server.Handlers{
		Auth:      handler.NewAuthHandler(authService, logger),
		Templates: handler.NewTemplateHandler(catalog, documentService, logger),
		Documents: handler.NewDocumentHandler(documentService, logger),
		Advisor:   handler.NewAdvisorHandler(advisorService),
		Dashboard: handler.NewDashboardHandler(dashboardService),
		Audit:     handler.NewAuditHandler(auditService),
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      api,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// 6. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("console API started", zap.String("addr", srv.Addr), zap.String("metrics", cfg.Metrics.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	<-stop
	logger.Info("console API stopping")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}
	_ = metricsSrv.Shutdown(shutdownCtx)

	appCancel()
	// Сбрасываем остаток журнала до закрытия пула
	recorder.Stop()
	logger.Info("console API exited properly")
}
