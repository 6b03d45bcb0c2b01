package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/corray333/backend-labs/auditadmin/internal/dal/postgres"
	"github.com/corray333/backend-labs/auditadmin/internal/service/models/inbox"
	"github.com/jackc/pgx/v5"
)

const (
	inboxTable = "inbox"

	// DefaultLease is how long a claimed push stays invisible to other claims.
	DefaultLease = time.Minute
)

var inboxColumns = []string{
	"id",
	"message_id",
	"queue_name",
	"payload",
	"retry_count",
	"max_retries",
	"last_error",
	"created_at",
	"updated_at",
	"next_retry_at",
}

// pushRow is the database shape of a parked push.
type pushRow struct {
	ID          int64     `db:"id"`
	MessageID   string    `db:"message_id"`
	QueueName   string    `db:"queue_name"`
	Payload     []byte    `db:"payload"`
	RetryCount  int       `db:"retry_count"`
	MaxRetries  int       `db:"max_retries"`
	LastError   string    `db:"last_error"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
	NextRetryAt time.Time `db:"next_retry_at"`
}

func (r pushRow) toMessage() inbox.Message {
	return inbox.Message(r)
}

// InboxRepository parks undelivered pushes in PostgreSQL until the inbox
// worker redelivers them.
type InboxRepository struct {
	client *postgres.Client
	psql   sq.StatementBuilderType
	lease  time.Duration
	now    func() time.Time
}

// option is a function that configures the InboxRepository.
type option func(*InboxRepository)

// WithLease sets how long claimed pushes are hidden from other claims.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithLease(d time.Duration) option {
	return func(r *InboxRepository) {
		if d > 0 {
			r.lease = d
		}
	}
}

// NewInboxRepository creates a new inbox repository.
func NewInboxRepository(client *postgres.Client, opts ...option) *InboxRepository {
	r := &InboxRepository{
		client: client,
		psql:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
		lease:  DefaultLease,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Insert parks a push. A message id that is already parked is ignored.
func (r *InboxRepository) Insert(ctx context.Context, msg inbox.Message) error {
	query, args, err := r.insertQuery(msg).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert query: %w", err)
	}

	tag, err := r.client.Pool().Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to park push %s: %w", msg.MessageID, err)
	}
	if tag.RowsAffected() == 0 {
		slog.Debug("Push already parked", "message_id", msg.MessageID)
	}

	return nil
}

func (r *InboxRepository) insertQuery(msg inbox.Message) sq.InsertBuilder {
	return r.psql.Insert(inboxTable).
		SetMap(map[string]any{
			"message_id":    msg.MessageID,
			"queue_name":    msg.QueueName,
			"payload":       msg.Payload,
			"retry_count":   msg.RetryCount,
			"max_retries":   msg.MaxRetries,
			"last_error":    msg.LastError,
			"created_at":    msg.CreatedAt,
			"updated_at":    msg.UpdatedAt,
			"next_retry_at": msg.NextRetryAt,
		}).
		Suffix("ON CONFLICT (message_id) DO NOTHING")
}

// GetPendingMessages claims up to limit due pushes, oldest due first. Claimed
// pushes have their next_retry_at pushed out by the lease, so concurrent
// workers never claim the same push and a crashed worker's pushes resurface.
func (r *InboxRepository) GetPendingMessages(ctx context.Context, limit int) ([]inbox.Message, error) {
	query, args, err := r.claimQuery(r.now(), limit).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build claim query: %w", err)
	}

	rows, err := r.client.Pool().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to claim parked pushes: %w", err)
	}

	claimed, err := pgx.CollectRows(rows, pgx.RowToStructByName[pushRow])
	if err != nil {
		return nil, fmt.Errorf("failed to scan parked pushes: %w", err)
	}

	messages := make([]inbox.Message, 0, len(claimed))
	for _, row := range claimed {
		messages = append(messages, row.toMessage())
	}

	return messages, nil
}

func (r *InboxRepository) claimQuery(now time.Time, limit int) sq.UpdateBuilder {
	due := sq.Select("id").
		From(inboxTable).
		Where(sq.LtOrEq{"next_retry_at": now}).
		Where("retry_count < max_retries").
		OrderBy("next_retry_at ASC").
		Limit(uint64(limit)).
		Suffix("FOR UPDATE SKIP LOCKED")

	return r.psql.Update(inboxTable).
		Set("next_retry_at", now.Add(r.lease)).
		Set("updated_at", now).
		Where(sq.Expr("id IN (?)", due)).
		Suffix("RETURNING " + strings.Join(inboxColumns, ", "))
}

// Delete drops a push once it has been delivered or given up on.
func (r *InboxRepository) Delete(ctx context.Context, id int64) error {
	query, args, err := r.psql.Delete(inboxTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete query: %w", err)
	}

	if _, err := r.client.Pool().Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to delete parked push %d: %w", id, err)
	}

	return nil
}

// UpdateRetry records a failed redelivery and schedules the next one.
func (r *InboxRepository) UpdateRetry(
	ctx context.Context,
	id int64,
	retryCount int,
	lastError string,
	nextRetryAt time.Time,
) error {
	query, args, err := r.retryQuery(id, retryCount, lastError, nextRetryAt).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build retry query: %w", err)
	}

	if _, err := r.client.Pool().Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to reschedule parked push %d: %w", id, err)
	}

	return nil
}

func (r *InboxRepository) retryQuery(id int64, retryCount int, lastError string, nextRetryAt time.Time) sq.UpdateBuilder {
	return r.psql.Update(inboxTable).
		SetMap(map[string]any{
			"retry_count":   retryCount,
			"last_error":    lastError,
			"next_retry_at": nextRetryAt,
			"updated_at":    r.now(),
		}).
		Where(sq.Eq{"id": id})
}
