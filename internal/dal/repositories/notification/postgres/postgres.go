package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/corray333/backend-labs/auditadmin/internal/dal/postgres"
	"github.com/corray333/backend-labs/auditadmin/internal/service/models/notification"
	"github.com/jackc/pgx/v5"
)

// NotificationRepository persists delivered notifications in PostgreSQL.
type NotificationRepository struct {
	client *postgres.Client
}

// NewNotificationRepository creates a new notification repository.
func NewNotificationRepository(client *postgres.Client) *NotificationRepository {
	return &NotificationRepository{
		client: client,
	}
}

// Save stores a notification and returns it with the generated id. A
// notification whose non-empty ExternalID is already stored is not inserted
// again; the stored id and delivery time are returned instead.
func (r *NotificationRepository) Save(
	ctx context.Context,
	n notification.Notification,
) (notification.Notification, error) {
	query, args, err := sq.Insert("notifications").
		Columns("external_id", "title", "body", "action_url", "delivered_at").
		Values(n.ExternalID, n.Title, n.Body, n.ActionURL, n.DeliveredAt).
		Suffix("ON CONFLICT (external_id) WHERE external_id <> '' " +
			"DO UPDATE SET external_id = EXCLUDED.external_id " +
			"RETURNING id, delivered_at").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return notification.Notification{}, fmt.Errorf("failed to build insert query: %w", err)
	}

	if err := r.client.Pool().QueryRow(ctx, query, args...).Scan(&n.ID, &n.DeliveredAt); err != nil {
		return notification.Notification{}, fmt.Errorf("failed to upsert notification: %w", err)
	}

	return n, nil
}

// ListRecent returns the newest notifications first.
func (r *NotificationRepository) ListRecent(
	ctx context.Context,
	limit int,
) ([]notification.Notification, error) {
	query, args, err := sq.Select("id", "external_id", "title", "body", "action_url", "delivered_at").
		From("notifications").
		OrderBy("delivered_at DESC", "id DESC").
		Limit(uint64(limit)).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := r.client.Pool().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}

	notifications, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (notification.Notification, error) {
		var n notification.Notification
		err := row.Scan(&n.ID, &n.ExternalID, &n.Title, &n.Body, &n.ActionURL, &n.DeliveredAt)

		return n, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan notifications: %w", err)
	}

	return notifications, nil
}
