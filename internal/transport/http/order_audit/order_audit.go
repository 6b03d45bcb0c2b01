package orderaudit

import (
	"context"
	"errors"
	"net/http"

	"github.com/corray333/backend-labs/auditadmin/internal/service/models/audit"
	"github.com/corray333/backend-labs/auditadmin/internal/service/services/auditsvc"
	"github.com/corray333/backend-labs/auditadmin/internal/transport/http/request"
	"github.com/corray333/backend-labs/auditadmin/internal/transport/http/respond"
	"github.com/go-chi/chi/v5"
)

type hook interface {
	GetOrderAudit(ctx context.Context, orderID string, query audit.OrderAuditQuery) *audit.OrderAuditTrail
	State() auditsvc.State
}

type orderAuditRequest struct {
	Limit     int             `schema:"limit"     validate:"gte=0"`
	Operation audit.Operation `schema:"operation" validate:"omitempty,audit_operation"`
}

func (q *orderAuditRequest) ToModel() audit.OrderAuditQuery {
	return audit.OrderAuditQuery{
		Limit:     q.Limit,
		Operation: q.Operation,
	}
}

// GetOrderAudit handles GET /api/orders/{orderId}/audit.
func GetOrderAudit(w http.ResponseWriter, r *http.Request, hook hook) {
	orderID := chi.URLParam(r, "orderId")
	if orderID == "" {
		respond.BadRequest(w, errors.New("orderId is required"))

		return
	}

	query := &orderAuditRequest{}
	if err := request.DecodeQuery(query, r.URL.Query()); err != nil {
		respond.BadRequest(w, err)

		return
	}

	trail := hook.GetOrderAudit(r.Context(), orderID, query.ToModel())
	respond.Envelope(w, trail, hook.State().Error)
}
