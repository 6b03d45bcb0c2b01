package inbox

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/corray333/backend-labs/auditadmin/internal/dal/interfaces/iinboxrepo"
	"github.com/corray333/backend-labs/auditadmin/internal/metrics"
	"github.com/corray333/backend-labs/auditadmin/internal/service/models/inbox"
)

// service represents the service layer interface.
type service interface {
	ProcessPush(ctx context.Context, raw []byte) error
}

// Worker retries push payloads parked in the inbox table.
type Worker struct {
	inboxRepo    iinboxrepo.IInboxRepository
	service      service
	pollInterval time.Duration
	batchSize    int
	now          func() time.Time
	stopCh       chan struct{}
}

// NewWorker creates a new inbox worker.
func NewWorker(
	inboxRepo iinboxrepo.IInboxRepository,
	service service,
	pollInterval time.Duration,
	batchSize int,
) *Worker {
	return &Worker{
		inboxRepo:    inboxRepo,
		service:      service,
		pollInterval: pollInterval,
		batchSize:    batchSize,
		now:          time.Now,
		stopCh:       make(chan struct{}),
	}
}

// Start begins processing messages from the inbox.
func (w *Worker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	slog.Info("Inbox worker started", "poll_interval", w.pollInterval, "batch_size", w.batchSize)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Inbox worker shutting down")
			return
		case <-w.stopCh:
			slog.Info("Inbox worker stopped")
			return
		case <-ticker.C:
			w.processMessages(ctx)
		}
	}
}

// Stop stops the worker.
func (w *Worker) Stop() {
	close(w.stopCh)
}

// backoff returns the delay before attempt number retryCount: 30s, 60s, 120s and so on.
func backoff(retryCount int) time.Duration {
	return time.Duration(math.Pow(2, float64(retryCount))*30) * time.Second
}

// processMessages retrieves and processes pending messages from the inbox.
func (w *Worker) processMessages(ctx context.Context) {
	messages, err := w.inboxRepo.GetPendingMessages(ctx, w.batchSize)
	if err != nil {
		slog.Error("Failed to get pending messages from inbox", "error", err)
		return
	}

	if len(messages) == 0 {
		return
	}

	slog.Info("Processing inbox messages", "count", len(messages))

	for _, msg := range messages {
		w.processMessage(ctx, msg)
	}
}

func (w *Worker) processMessage(ctx context.Context, msg inbox.Message) {
	processingErr := w.service.ProcessPush(ctx, msg.Payload)
	if processingErr == nil {
		if err := w.inboxRepo.Delete(ctx, msg.ID); err != nil {
			slog.Error("Failed to delete message from inbox after successful processing",
				"inbox_id", msg.ID,
				"error", err,
			)

			return
		}
		slog.Info("Message successfully processed and removed from inbox",
			"inbox_id", msg.ID,
			"message_id", msg.MessageID,
		)

		return
	}

	if msg.Exhausted() {
		slog.Warn("Max retries reached, dropping message",
			"inbox_id", msg.ID,
			"message_id", msg.MessageID,
			"error", processingErr,
		)
		if err := w.inboxRepo.Delete(ctx, msg.ID); err != nil {
			slog.Error("Failed to delete message from inbox", "inbox_id", msg.ID, "error", err)

			return
		}
		metrics.InboxMessagesDroppedTotal.Inc()

		return
	}

	newRetryCount := msg.RetryCount + 1
	nextRetryAt := w.now().Add(backoff(newRetryCount))

	slog.Warn("Failed to process message from inbox, will retry",
		"inbox_id", msg.ID,
		"retry_count", newRetryCount,
		"next_retry", nextRetryAt,
		"error", processingErr,
	)

	if err := w.inboxRepo.UpdateRetry(ctx, msg.ID, newRetryCount, processingErr.Error(), nextRetryAt); err != nil {
		slog.Error("Failed to update retry information", "inbox_id", msg.ID, "error", err)
	}
}
