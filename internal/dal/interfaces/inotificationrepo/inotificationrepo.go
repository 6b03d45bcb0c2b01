package inotificationrepo

import (
	"context"

	"github.com/corray333/backend-labs/auditadmin/internal/service/models/notification"
)

// INotificationRepository stores notifications shown to operators.
type INotificationRepository interface {
	// Save is idempotent for a non-empty ExternalID.
	Save(ctx context.Context, n notification.Notification) (notification.Notification, error)
	ListRecent(ctx context.Context, limit int) ([]notification.Notification, error)
}
