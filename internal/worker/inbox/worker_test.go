package inbox

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/corray333/backend-labs/auditadmin/internal/service/models/inbox"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type retryCall struct {
	id          int64
	retryCount  int
	lastError   string
	nextRetryAt time.Time
}

type fakeRepo struct {
	pending []inbox.Message
	deleted []int64
	retries []retryCall
}

func (f *fakeRepo) Insert(context.Context, inbox.Message) error {
	return nil
}

func (f *fakeRepo) GetPendingMessages(_ context.Context, limit int) ([]inbox.Message, error) {
	if limit < len(f.pending) {
		return f.pending[:limit], nil
	}

	return f.pending, nil
}

func (f *fakeRepo) Delete(_ context.Context, id int64) error {
	f.deleted = append(f.deleted, id)

	return nil
}

func (f *fakeRepo) UpdateRetry(_ context.Context, id int64, retryCount int, lastError string, nextRetryAt time.Time) error {
	f.retries = append(f.retries, retryCall{id, retryCount, lastError, nextRetryAt})

	return nil
}

type fakeService struct {
	failFor map[string]error
}

func (f *fakeService) ProcessPush(_ context.Context, raw []byte) error {
	return f.failFor[string(raw)]
}

func TestWorker_ProcessMessages(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	repo := &fakeRepo{pending: []inbox.Message{
		{ID: 1, MessageID: "ok", Payload: []byte("ok"), RetryCount: 0, MaxRetries: 5},
		{ID: 2, MessageID: "flaky", Payload: []byte("flaky"), RetryCount: 1, MaxRetries: 5},
		{ID: 3, MessageID: "broken", Payload: []byte("broken"), RetryCount: 4, MaxRetries: 5},
	}}
	svc := &fakeService{failFor: map[string]error{
		"flaky":  errors.New("db down"),
		"broken": errors.New("invalid push payload"),
	}}

	w := NewWorker(repo, svc, time.Second, 10)
	w.now = func() time.Time { return now }
	w.processMessages(context.Background())

	assert.ElementsMatch(t, []int64{1, 3}, repo.deleted)
	require.Len(t, repo.retries, 1)
	assert.Equal(t, retryCall{
		id:          2,
		retryCount:  2,
		lastError:   "db down",
		nextRetryAt: now.Add(2 * time.Minute),
	}, repo.retries[0])
}

func TestWorker_RespectsBatchSize(t *testing.T) {
	repo := &fakeRepo{pending: []inbox.Message{
		{ID: 1, Payload: []byte("a"), MaxRetries: 5},
		{ID: 2, Payload: []byte("b"), MaxRetries: 5},
	}}

	w := NewWorker(repo, &fakeService{}, time.Second, 1)
	w.processMessages(context.Background())

	assert.Equal(t, []int64{1}, repo.deleted)
}

func TestBackoff(t *testing.T) {
	assert.Equal(t, 60*time.Second, backoff(1))
	assert.Equal(t, 120*time.Second, backoff(2))
	assert.Equal(t, 240*time.Second, backoff(3))
}

func TestWorker_StopEndsStart(t *testing.T) {
	w := NewWorker(&fakeRepo{}, &fakeService{}, time.Hour, 1)
	done := make(chan struct{})
	go func() {
		w.Start(context.Background())
		close(done)
	}()

	w.Stop()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}
