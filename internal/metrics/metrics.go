package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	// Рендеринг: сколько документов сгенерировано и за какое время
	RendersTotal   *prometheus.CounterVec
	RenderDuration *prometheus.HistogramVec

	// Незаполненные плейсхолдеры в выданных документах
	UnresolvedPlaceholders *prometheus.CounterVec

	// Сохраненные документы
	DocumentsSaved *prometheus.CounterVec

	// Advisor: исход вызовов и состояние Circuit Breaker (0 - ок, 1 - выбило)
	AdvisorRequests     *prometheus.CounterVec
	CircuitBreakerState prometheus.Gauge

	// Dashboard: попадания в кэш Redis
	DashboardCache *prometheus.CounterVec

	// Audit: заполненность буфера (backpressure)
	AuditBufferFill prometheus.Gauge
	AuditDropped    prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	// Null Object Pattern - Если рег не передан, используем локальный, который никуда не подключен
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	return &Metrics{
		RendersTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "complitic_renders_total",
			Help: "Total number of rendered documents.",
		}, []string{"template", "format"}),

		RenderDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "complitic_render_duration_seconds",
			Help:    "Histogram of document render latencies.",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .025, .05, .1},
		}, []string{"template"}),

		UnresolvedPlaceholders: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "complitic_unresolved_placeholders_total",
			Help: "Placeholders left unresolved in rendered documents.",
		}, []string{"template"}),

		DocumentsSaved: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "complitic_documents_saved_total",
			Help: "Total number of persisted documents.",
		}, []string{"template"}),

		AdvisorRequests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "complitic_advisor_requests_total",
			Help: "Advisor upstream calls by outcome.",
		}, []string{"outcome"}), // success, error, open_circuit

		CircuitBreakerState: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "complitic_advisor_circuit_breaker_state",
			Help: "Current state of the advisor circuit breaker (0=closed, 1=open, 2=half-open).",
		}),

		DashboardCache: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "complitic_dashboard_cache_total",
			Help: "Dashboard stats cache lookups by result.",
		}, []string{"result"}), // hit, miss, error

		AuditBufferFill: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "complitic_audit_buffer_utilization",
			Help: "Current number of events in audit buffer.",
		}),

		AuditDropped: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "complitic_audit_dropped_total",
			Help: "Audit events dropped because of overflow or shutdown.",
		}),
	}
}
