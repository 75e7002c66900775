package audit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xela07ax/complitic/internal/metrics"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

type memoryStorage struct {
	mu      sync.Mutex
	batches [][]Event
	err     error
}

func (s *memoryStorage) WriteBatch(ctx context.Context, events []Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batches = append(s.batches, events)
	return s.err
}

func (s *memoryStorage) total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, b := range s.batches {
		n += len(b)
	}
	return n
}

func (s *memoryStorage) batchCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.batches)
}

func TestRecorderFlushesOnStop(t *testing.T) {
	defer goleak.VerifyNone(t)

	store := &memoryStorage{}
	rec := NewRecorder(store, Options{FlushInterval: time.Hour}, nil, zap.NewNop())
	rec.Start()

	for i := 0; i < 10; i++ {
		rec.Log(Event{UserID: "u-1", Action: ActionDocumentSaved})
	}
	rec.Stop()

	require.Equal(t, 10, store.total())
	for _, e := range store.batches[0] {
		assert.NotEmpty(t, e.ID)
		assert.False(t, e.Timestamp.IsZero())
	}
}

func TestRecorderFlushesByBatchSize(t *testing.T) {
	defer goleak.VerifyNone(t)

	store := &memoryStorage{}
	rec := NewRecorder(store, Options{BatchSize: 5, FlushInterval: time.Hour}, nil, zap.NewNop())
	rec.Start()

	for i := 0; i < 5; i++ {
		rec.Log(Event{Action: ActionDocumentGenerated})
	}
	assert.Eventually(t, func() bool { return store.batchCount() == 1 }, time.Second, 5*time.Millisecond)

	rec.Stop()
	assert.Equal(t, 5, store.total())
}

func TestOptionsBatchSizeCapped(t *testing.T) {
	assert.Equal(t, MaxBatchSize, Options{BatchSize: 100000}.withDefaults().BatchSize)
	assert.Equal(t, 100, Options{}.withDefaults().BatchSize)
	assert.Equal(t, 500, Options{BatchSize: 500}.withDefaults().BatchSize)
}

func TestRecorderFlushesByTimer(t *testing.T) {
	defer goleak.VerifyNone(t)

	store := &memoryStorage{}
	rec := NewRecorder(store, Options{FlushInterval: 10 * time.Millisecond}, nil, zap.NewNop())
	rec.Start()
	defer rec.Stop()

	rec.Log(Event{Action: ActionLogin})
	assert.Eventually(t, func() bool { return store.total() == 1 }, time.Second, 5*time.Millisecond)
}

func TestRecorderDropsAfterStop(t *testing.T) {
	defer goleak.VerifyNone(t)

	m := metrics.NewMetrics(nil)
	store := &memoryStorage{}
	rec := NewRecorder(store, Options{}, m, zap.NewNop())
	rec.Start()
	rec.Stop()
	rec.Stop() // повторный Stop безопасен

	assert.NotPanics(t, func() { rec.Log(Event{Action: ActionLogin}) })
	assert.Equal(t, 0, store.total())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AuditDropped))
}

func TestRecorderDropsOnOverflow(t *testing.T) {
	m := metrics.NewMetrics(nil)
	// Воркер не запущен: буфер на одно событие переполняется вторым
	rec := NewRecorder(&memoryStorage{}, Options{BufferSize: 1}, m, zap.NewNop())

	rec.Log(Event{Action: ActionLogin})
	rec.Log(Event{Action: ActionLogin})
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AuditDropped))
}

func TestRecorderSurvivesStorageErrors(t *testing.T) {
	defer goleak.VerifyNone(t)

	store := &memoryStorage{err: errors.New("db down")}
	rec := NewRecorder(store, Options{BatchSize: 2, FlushInterval: time.Hour}, nil, zap.NewNop())
	rec.Start()

	for i := 0; i < 4; i++ {
		rec.Log(Event{Action: ActionDocumentDeleted})
	}
	rec.Stop()
	assert.Equal(t, 4, store.total())
}

func TestRecorderConcurrentLogAndStop(t *testing.T) {
	defer goleak.VerifyNone(t)

	rec := NewRecorder(&memoryStorage{}, Options{}, nil, zap.NewNop())
	rec.Start()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				rec.Log(Event{Action: ActionDocumentGenerated})
			}
		}()
	}
	rec.Stop()
	wg.Wait()
}
