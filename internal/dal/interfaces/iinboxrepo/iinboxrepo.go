package iinboxrepo

import (
	"context"
	"time"

	"github.com/corray333/backend-labs/auditadmin/internal/service/models/inbox"
)

// IInboxRepository defines the interface for inbox operations.
type IInboxRepository interface {
	// Insert parks a message in the inbox. A message id that is already parked is ignored.
	Insert(ctx context.Context, msg inbox.Message) error

	// GetPendingMessages claims due messages for one redelivery attempt; a
	// claimed message is not returned again until its lease expires
	GetPendingMessages(ctx context.Context, limit int) ([]inbox.Message, error)

	// Delete removes a message from the inbox after successful processing
	Delete(ctx context.Context, id int64) error

	// UpdateRetry updates retry count and error information
	UpdateRetry(
		ctx context.Context,
		id int64,
		retryCount int,
		lastError string,
		nextRetryAt time.Time,
	) error
}
