package ordertimeline

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/corray333/backend-labs/auditadmin/internal/service/models/audit"
	"github.com/corray333/backend-labs/auditadmin/internal/service/services/auditsvc"
	"github.com/corray333/backend-labs/auditadmin/internal/transport/http/request"
	"github.com/corray333/backend-labs/auditadmin/internal/transport/http/respond"
	"github.com/corray333/backend-labs/auditadmin/internal/transport/timeline"
	"github.com/go-chi/chi/v5"
)

const defaultLimit = 50

type hook interface {
	GetOrderAudit(ctx context.Context, orderID string, query audit.OrderAuditQuery) *audit.OrderAuditTrail
	State() auditsvc.State
}

type orderTimelineRequest struct {
	Limit int    `schema:"limit" validate:"gte=0"`
	TZ    string `schema:"tz"    validate:"omitempty,timezone"`
}

// RenderOrderTimeline handles GET /api/orders/{orderId}/timeline and answers
// with the audit trail rendered as text.
func RenderOrderTimeline(w http.ResponseWriter, r *http.Request, hook hook) {
	orderID := chi.URLParam(r, "orderId")
	if orderID == "" {
		respond.BadRequest(w, errors.New("orderId is required"))

		return
	}

	query := &orderTimelineRequest{}
	if err := request.DecodeQuery(query, r.URL.Query()); err != nil {
		respond.BadRequest(w, err)

		return
	}
	limit := query.Limit
	if limit == 0 {
		limit = defaultLimit
	}
	loc := request.Location(query.TZ)

	tl := timeline.NewOrderAuditTimeline(hook, timeline.WithLocation(loc))
	tl.SetParams(r.Context(), orderID, limit)

	var b strings.Builder
	if err := tl.Render(&b); err != nil {
		respond.Error(w, http.StatusInternalServerError, err.Error())

		return
	}

	status := http.StatusOK
	if tl.View().Error != "" {
		status = http.StatusBadGateway
	}
	respond.Text(w, status, b.String())
}
