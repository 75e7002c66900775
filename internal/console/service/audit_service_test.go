package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xela07ax/complitic/internal/audit"
)

type fakeAuditLog struct {
	got    audit.Filter
	events []audit.Event
	err    error
}

func (f *fakeAuditLog) FetchEvents(ctx context.Context, filter audit.Filter) ([]audit.Event, error) {
	f.got = filter
	return f.events, f.err
}

func TestFetchLogsPassesFilter(t *testing.T) {
	repo := &fakeAuditLog{events: []audit.Event{{ID: "e-1", Action: audit.ActionDocumentSaved}}}
	svc := NewAuditService(repo)

	filter := audit.Filter{UserID: "u-1", Action: audit.ActionDocumentSaved, Limit: 10}
	logs, err := svc.FetchLogs(context.Background(), filter)
	require.NoError(t, err)
	assert.Len(t, logs, 1)
	assert.Equal(t, filter, repo.got)
}

func TestFetchLogsWrapsError(t *testing.T) {
	cause := errors.New("relation does not exist")
	svc := NewAuditService(&fakeAuditLog{err: cause})

	_, err := svc.FetchLogs(context.Background(), audit.Filter{})
	assert.ErrorIs(t, err, cause)
}
