package listnotifications

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/corray333/backend-labs/auditadmin/internal/service/models/notification"
	"github.com/corray333/backend-labs/auditadmin/internal/transport/http/request"
	"github.com/corray333/backend-labs/auditadmin/internal/transport/http/respond"
)

const defaultLimit = 20

type service interface {
	ListRecent(ctx context.Context, limit int) ([]notification.Notification, error)
}

type listNotificationsRequest struct {
	Limit int `schema:"limit" validate:"gte=0,lte=200"`
}

// ListNotifications handles GET /api/notifications.
func ListNotifications(w http.ResponseWriter, r *http.Request, service service) {
	query := &listNotificationsRequest{}
	if err := request.DecodeQuery(query, r.URL.Query()); err != nil {
		respond.BadRequest(w, err)

		return
	}
	limit := query.Limit
	if limit == 0 {
		limit = defaultLimit
	}

	notifications, err := service.ListRecent(r.Context(), limit)
	if err != nil {
		slog.ErrorContext(r.Context(), "Error listing notifications", "error", err)
		respond.Error(w, http.StatusInternalServerError, "Failed to list notifications")

		return
	}
	if notifications == nil {
		notifications = []notification.Notification{}
	}

	respond.Envelope(w, &notifications, "")
}
