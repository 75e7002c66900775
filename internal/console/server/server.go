package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/xela07ax/complitic/internal/console/handler"
	"github.com/xela07ax/complitic/internal/domain"
	"github.com/xela07ax/complitic/internal/infra"
	"github.com/xela07ax/complitic/internal/infra/auth"
	"go.uber.org/zap"
)

// Handlers — обработчики бизнес-доменов, собранные в main
type Handlers struct {
	Auth      *handler.AuthHandler      // /auth/token
	Templates *handler.TemplateHandler  // /v1/templates
	Documents *handler.DocumentHandler  // /v1/documents
	Advisor   *handler.AdvisorHandler   // /v1/advisor
	Dashboard *handler.DashboardHandler // /v1/admin/dashboard
	Audit     *handler.AuditHandler     // /v1/admin/activity
}

type ConsoleServer struct {
	router *chi.Mux
	logger *zap.Logger

	// Проверка токенов (RS256)
	authValidator auth.TokenValidator
	h             Handlers
}

// NewConsoleServer инициализирует API со всеми зависимостями
func NewConsoleServer(logger *zap.Logger, validator auth.TokenValidator, h Handlers) *ConsoleServer {
	s := &ConsoleServer{
		router:        chi.NewRouter(),
		logger:        logger.Named("console-api"),
		authValidator: validator,
		h:             h,
	}

	s.routes()
	return s
}

func (s *ConsoleServer) routes() {
	r := s.router

	// --- 1. Глобальные инфраструктурные Middleware (для всех) ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(infra.TracingMiddleware)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	// --- 2. ПУБЛИЧНЫЕ РОУТЫ ---
	r.Group(func(r chi.Router) {
		r.Post("/auth/token", s.h.Auth.Login)

		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})

		// Каталог открыт: лендинг показывает его без логина
		r.Get("/v1/templates", s.h.Templates.List)
		r.Get("/v1/templates/{slug}", s.h.Templates.Get)
	})

	// --- 3. ЗАЩИЩЕННЫЙ ПЕРИМЕТР (Требуют RS256 токен) ---
	r.Group(func(r chi.Router) {
		r.Use(auth.NewMiddleware(s.authValidator, s.logger))

		r.Post("/v1/templates/{slug}/render", s.h.Templates.Render)

		r.Route("/v1/documents", func(r chi.Router) {
			r.Get("/", s.h.Documents.List)
			r.Post("/", s.h.Documents.Save)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.h.Documents.Get)
				r.Delete("/", s.h.Documents.Delete)
				r.Get("/download", s.h.Documents.Download)
			})
		})

		r.Post("/v1/advisor/chat", s.h.Advisor.Chat)

		// Аналитика и журнал только для админов
		r.Route("/v1/admin", func(r chi.Router) {
			r.Use(auth.RequireRole(domain.RoleAdmin))
			r.Get("/dashboard", s.h.Dashboard.GetStats)
			r.Get("/activity", s.h.Audit.GetLogs)
		})
	})
}

func (s *ConsoleServer) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("trace_id", infra.TraceIDFromContext(r.Context())))
	})
}

// ServeHTTP позволяет использовать ConsoleServer как стандартный http.Handler
func (s *ConsoleServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
