package postgres

import (
	"testing"
	"time"

	"github.com/corray333/backend-labs/auditadmin/internal/service/models/inbox"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInboxRepository_ClaimQuery(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	repo := NewInboxRepository(nil, WithLease(30*time.Second))

	query, args, err := repo.claimQuery(now, 10).ToSql()
	require.NoError(t, err)

	assert.Contains(t, query, "UPDATE inbox SET next_retry_at = $1, updated_at = $2")
	assert.Contains(t, query, "WHERE id IN (SELECT id FROM inbox WHERE next_retry_at <= $3 AND retry_count < max_retries")
	assert.Contains(t, query, "LIMIT 10 FOR UPDATE SKIP LOCKED)")
	assert.Contains(t, query, "RETURNING id, message_id, queue_name, payload, retry_count, max_retries, "+
		"last_error, created_at, updated_at, next_retry_at")
	assert.Equal(t, []any{now.Add(30 * time.Second), now, now}, args)
}

func TestInboxRepository_InsertQuery(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	repo := NewInboxRepository(nil)

	query, args, err := repo.insertQuery(inbox.Message{
		MessageID:   "m-1",
		QueueName:   "push-notifications",
		Payload:     []byte(`{}`),
		MaxRetries:  5,
		CreatedAt:   now,
		UpdatedAt:   now,
		NextRetryAt: now,
	}).ToSql()
	require.NoError(t, err)

	assert.Contains(t, query, "INSERT INTO inbox")
	assert.Contains(t, query, "ON CONFLICT (message_id) DO NOTHING")
	assert.Len(t, args, 9)
	assert.Contains(t, args, "m-1")
}

func TestInboxRepository_RetryQuery(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	repo := NewInboxRepository(nil)
	repo.now = func() time.Time { return now }

	query, args, err := repo.retryQuery(7, 2, "socket closed", now.Add(time.Minute)).ToSql()
	require.NoError(t, err)

	assert.Equal(t,
		"UPDATE inbox SET last_error = $1, next_retry_at = $2, retry_count = $3, updated_at = $4 WHERE id = $5",
		query,
	)
	assert.Equal(t, []any{"socket closed", now.Add(time.Minute), 2, now, int64(7)}, args)
}

func TestWithLease_IgnoresNonPositive(t *testing.T) {
	assert.Equal(t, DefaultLease, NewInboxRepository(nil, WithLease(0)).lease)
	assert.Equal(t, time.Second, NewInboxRepository(nil, WithLease(time.Second)).lease)
}
