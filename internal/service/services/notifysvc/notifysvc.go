package notifysvc

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/corray333/backend-labs/auditadmin/internal/dal/interfaces/inotificationrepo"
	"github.com/corray333/backend-labs/auditadmin/internal/metrics"
	"github.com/corray333/backend-labs/auditadmin/internal/service/models/notification"
	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// Notifier shows a stored notification to operators.
type Notifier interface {
	Notify(ctx context.Context, n notification.Notification) error
}

// LogNotifier writes notifications to the structured log.
type LogNotifier struct{}

// Notify implements Notifier.
func (LogNotifier) Notify(ctx context.Context, n notification.Notification) error {
	slog.InfoContext(ctx, "Notification delivered",
		"notification_id", n.ExternalID,
		"title", n.Title,
		"body", n.Body,
		"action_url", n.ActionURL,
	)

	return nil
}

// NotifyService turns push payloads into operator notifications.
type NotifyService struct {
	notificationRepo inotificationrepo.INotificationRepository
	notifier         Notifier
	validate         *validator.Validate
	now              func() time.Time
}

// option is a function that configures the NotifyService.
type option func(*NotifyService)

// MustNewNotifyService creates a new NotifyService.
func MustNewNotifyService(opts ...option) *NotifyService {
	s := &NotifyService{
		notifier: LogNotifier{},
		validate: validator.New(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.notificationRepo == nil {
		panic("notifysvc: notification repository is not set")
	}

	return s
}

// WithNotificationRepository sets the notification repository for the NotifyService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithNotificationRepository(repo inotificationrepo.INotificationRepository) option {
	return func(s *NotifyService) {
		s.notificationRepo = repo
	}
}

// WithNotifier replaces the default LogNotifier.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithNotifier(n Notifier) option {
	return func(s *NotifyService) {
		s.notifier = n
	}
}

// WithClock sets the time source used for delivery timestamps.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithClock(now func() time.Time) option {
	return func(s *NotifyService) {
		s.now = now
	}
}

// ProcessPush decodes a raw push payload, stores the notification and shows it.
// Payloads that can never succeed are reported with notification.ErrInvalidPayload.
func (s *NotifyService) ProcessPush(ctx context.Context, raw []byte) error {
	ctx, span := otel.Tracer("service").Start(ctx, "NotifyService.ProcessPush")
	defer span.End()

	var payload notification.PushPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("%w: %v", notification.ErrInvalidPayload, err)
	}
	if err := s.validate.Struct(payload); err != nil {
		return fmt.Errorf("%w: %v", notification.ErrInvalidPayload, err)
	}

	n, err := payload.ToNotification()
	if err != nil {
		return err
	}
	n.DeliveredAt = s.now()
	span.SetAttributes(attribute.String("notification.id", n.ExternalID))

	saved, err := s.notificationRepo.Save(ctx, n)
	if err != nil {
		return fmt.Errorf("failed to save notification: %w", err)
	}

	if err := s.notifier.Notify(ctx, saved); err != nil {
		return fmt.Errorf("failed to notify: %w", err)
	}
	metrics.NotificationsDeliveredTotal.Inc()

	return nil
}

// ListRecent returns up to limit of the newest notifications.
func (s *NotifyService) ListRecent(ctx context.Context, limit int) ([]notification.Notification, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "NotifyService.ListRecent")
	defer span.End()

	notifications, err := s.notificationRepo.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	return notifications, nil
}
