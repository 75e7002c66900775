package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/xela07ax/complitic/internal/audit"
	"github.com/xela07ax/complitic/internal/domain"
)

type memoryAuditor struct {
	mu     sync.Mutex
	events []audit.Event
}

func (a *memoryAuditor) Log(e audit.Event) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, e)
}

func (a *memoryAuditor) actions() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, 0, len(a.events))
	for _, e := range a.events {
		out = append(out, e.Action)
	}
	return out
}

type publishedMessage struct {
	channel string
	payload interface{}
}

type fakePublisher struct {
	messages []publishedMessage
	err      error
}

func (p *fakePublisher) Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd {
	p.messages = append(p.messages, publishedMessage{channel: channel, payload: message})
	return redis.NewIntResult(1, p.err)
}

type memoryDocuments struct {
	docs      map[string]*domain.Document
	createErr error
	gotLimit  int
}

func newMemoryDocuments() *memoryDocuments {
	return &memoryDocuments{docs: make(map[string]*domain.Document)}
}

func (m *memoryDocuments) CreateDocument(ctx context.Context, d *domain.Document) error {
	if m.createErr != nil {
		return m.createErr
	}
	d.CreatedAt = time.Date(2024, 1, 20, 12, 0, 0, 0, time.UTC)
	cp := *d
	m.docs[d.ID] = &cp
	return nil
}

// errInvalidUUID ведет себя как Postgres на колонке UUID (SQLSTATE 22P02)
var errInvalidUUID = errors.New("ERROR: invalid input syntax for type uuid (SQLSTATE 22P02)")

func (m *memoryDocuments) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, errInvalidUUID
	}
	d, ok := m.docs[id]
	if !ok {
		return nil, nil
	}
	cp := *d
	return &cp, nil
}

func (m *memoryDocuments) ListDocuments(ctx context.Context, userID string, limit int) ([]*domain.Document, error) {
	m.gotLimit = limit
	var out []*domain.Document
	for _, d := range m.docs {
		if d.UserID == userID && len(out) < limit {
			cp := *d
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memoryDocuments) DeleteDocument(ctx context.Context, userID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errInvalidUUID
	}
	d, ok := m.docs[id]
	if !ok || d.UserID != userID {
		return domain.ErrDocumentNotFound
	}
	delete(m.docs, id)
	return nil
}

type fakeCache struct {
	data   map[string][]byte
	getErr error
	setErr error
	sets   int
	dels   int
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string][]byte)}
}

func (c *fakeCache) Get(ctx context.Context, key string) *redis.StringCmd {
	if c.getErr != nil {
		return redis.NewStringResult("", c.getErr)
	}
	v, ok := c.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(string(v), nil)
}

func (c *fakeCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	c.sets++
	if c.setErr != nil {
		return redis.NewStatusResult("", c.setErr)
	}
	switch v := value.(type) {
	case []byte:
		c.data[key] = v
	case string:
		c.data[key] = []byte(v)
	default:
		return redis.NewStatusResult("", errors.New("unsupported value"))
	}
	return redis.NewStatusResult("OK", nil)
}

func (c *fakeCache) SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd {
	if c.setErr != nil {
		return redis.NewBoolResult(false, c.setErr)
	}
	if _, exists := c.data[key]; exists {
		return redis.NewBoolResult(false, nil)
	}
	c.data[key] = []byte(fmt.Sprint(value))
	return redis.NewBoolResult(true, nil)
}

func (c *fakeCache) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	c.dels++
	var n int64
	for _, k := range keys {
		if _, ok := c.data[k]; ok {
			delete(c.data, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}
