package listaudits

import (
	"context"
	"net/http"

	"github.com/corray333/backend-labs/auditadmin/internal/service/models/audit"
	"github.com/corray333/backend-labs/auditadmin/internal/service/services/auditsvc"
	"github.com/corray333/backend-labs/auditadmin/internal/transport/http/request"
	"github.com/corray333/backend-labs/auditadmin/internal/transport/http/respond"
)

type hook interface {
	GetAllAudits(ctx context.Context, query audit.AllAuditsQuery) *audit.Page
	State() auditsvc.State
}

type listAuditsRequest struct {
	Limit     int             `schema:"limit"     validate:"gte=0"`
	Page      int             `schema:"page"      validate:"gte=0"`
	Operation audit.Operation `schema:"operation" validate:"omitempty,audit_operation"`
	UserID    string          `schema:"userId"`
	OrderID   string          `schema:"orderId"`
	StartDate string          `schema:"startDate" validate:"omitempty,audit_date"`
	EndDate   string          `schema:"endDate"   validate:"omitempty,audit_date"`
}

func (q *listAuditsRequest) ToModel() audit.AllAuditsQuery {
	return audit.AllAuditsQuery{
		Limit:     q.Limit,
		Page:      q.Page,
		Operation: q.Operation,
		UserID:    q.UserID,
		OrderID:   q.OrderID,
		StartDate: q.StartDate,
		EndDate:   q.EndDate,
	}
}

// ListAudits handles GET /api/audits.
func ListAudits(w http.ResponseWriter, r *http.Request, hook hook) {
	query := &listAuditsRequest{}
	if err := request.DecodeQuery(query, r.URL.Query()); err != nil {
		respond.BadRequest(w, err)

		return
	}

	page := hook.GetAllAudits(r.Context(), query.ToModel())
	respond.Envelope(w, page, hook.State().Error)
}
