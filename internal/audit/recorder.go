package audit

/*
Файл recorder.go реализует журнал действий пользователей (Activity Trail).

- Non-blocking: Log не ждет базу, событие уходит в буферизованный канал.
- Batching: воркер копит события и пишет пачкой по размеру или по таймеру.
- Drain Pattern: Stop закрывает канал, воркер вычитывает остаток и делает финальный flush.
- Load Shedding: при переполнении буфера событие сбрасывается и логируется.
*/

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/xela07ax/complitic/internal/metrics"
	"go.uber.org/zap"
)

// Storage определяет, куда физически будут сохраняться события
type Storage interface {
	// WriteBatch сохраняет пачку событий за один раз
	WriteBatch(ctx context.Context, events []Event) error
}

type Auditor interface {
	Log(event Event)
}

// MaxBatchSize: событие занимает 8 параметров INSERT, а Postgres принимает
// в одном запросе не больше 65535 параметров.
const MaxBatchSize = 65535 / 8

type Options struct {
	BufferSize    int
	BatchSize     int
	FlushInterval time.Duration
}

func (o Options) withDefaults() Options {
	if o.BufferSize <= 0 {
		o.BufferSize = 10000
	}
	if o.BatchSize <= 0 {
		o.BatchSize = 100
	}
	if o.BatchSize > MaxBatchSize {
		o.BatchSize = MaxBatchSize
	}
	if o.FlushInterval <= 0 {
		o.FlushInterval = 500 * time.Millisecond
	}
	return o
}

type Recorder struct {
	ch      chan Event
	repo    Storage
	opts    Options
	metrics *metrics.Metrics
	logger  *zap.Logger
	wg      sync.WaitGroup

	// mu защищает закрытие канала от конкурентных Log
	mu       sync.RWMutex
	isClosed bool
}

func NewRecorder(repo Storage, opts Options, m *metrics.Metrics, logger *zap.Logger) *Recorder {
	opts = opts.withDefaults()
	if m == nil {
		m = metrics.NewMetrics(nil)
	}
	return &Recorder{
		ch:      make(chan Event, opts.BufferSize),
		repo:    repo,
		opts:    opts,
		metrics: m,
		logger:  logger.With(zap.String("mod", "audit")),
	}
}

func (r *Recorder) Start() {
	r.wg.Add(1)
	go r.worker()
}

// Stop «запирает» вход в канал и ждет, пока воркер всё допишет.
func (r *Recorder) Stop() {
	r.mu.Lock()
	if r.isClosed {
		r.mu.Unlock()
		return
	}
	r.isClosed = true
	r.logger.Info("stopping auditor: closing channel and flushing buffer...")
	close(r.ch)
	r.mu.Unlock()

	r.wg.Wait()
	r.logger.Info("auditor stopped gracefully")
}

func (r *Recorder) Log(event Event) {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.isClosed {
		r.metrics.AuditDropped.Inc()
		r.logger.Warn("audit event dropped: auditor is stopping", zap.String("id", event.ID))
		return
	}

	select {
	case r.ch <- event:
		r.metrics.AuditBufferFill.Set(float64(len(r.ch)))
	default:
		r.metrics.AuditDropped.Inc()
		r.logger.Error("audit_buffer_overflow",
			zap.String("user_id", event.UserID),
			zap.String("action", event.Action),
			zap.String("trace_id", event.TraceID),
		)
	}
}

func (r *Recorder) worker() {
	defer r.wg.Done()

	batch := make([]Event, 0, r.opts.BatchSize)
	ticker := time.NewTicker(r.opts.FlushInterval)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}
		// Background: основной контекст к этому моменту может быть уже закрыт
		if err := r.repo.WriteBatch(context.Background(), batch); err != nil {
			r.logger.Error("audit flush failed", zap.Int("events", len(batch)), zap.Error(err))
		}
		// Новый срез: хранилище могло сохранить ссылку на переданный
		batch = make([]Event, 0, r.opts.BatchSize)
		r.metrics.AuditBufferFill.Set(float64(len(r.ch)))
	}

	for {
		select {
		case event, ok := <-r.ch:
			if !ok {
				// Канал закрыт в Stop(): остаток уже вычитан, делаем финальный сброс
				flush()
				r.logger.Info("audit worker finished")
				return
			}
			batch = append(batch, event)
			if len(batch) >= r.opts.BatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		}
	}
}
