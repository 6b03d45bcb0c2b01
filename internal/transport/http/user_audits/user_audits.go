package useraudits

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
	GetUserAudits(ctx context.Context, userID string, query audit.UserAuditsQuery) *audit.UserAuditTrail
	State() auditsvc.State
}

type userAuditsRequest struct {
	Limit     int    `schema:"limit"     validate:"gte=0"`
	StartDate string `schema:"startDate" validate:"omitempty,audit_date"`
	EndDate   string `schema:"endDate"   validate:"omitempty,audit_date"`
}

func (q *userAuditsRequest) ToModel() audit.UserAuditsQuery {
	return audit.UserAuditsQuery{
		Limit:     q.Limit,
		StartDate: q.StartDate,
		EndDate:   q.EndDate,
	}
}

// GetUserAudits handles GET /api/users/{userId}/audits.
func GetUserAudits(w http.ResponseWriter, r *http.Request, hook hook) {
	userID := chi.URLParam(r, "userId")
	if userID == "" {
		respond.BadRequest(w, errors.New("userId is required"))

		return
	}

	query := &userAuditsRequest{}
	if err := request.DecodeQuery(query, r.URL.Query()); err != nil {
		respond.BadRequest(w, err)

		return
	}

	trail := hook.GetUserAudits(r.Context(), userID, query.ToModel())
	respond.Envelope(w, trail, hook.State().Error)
}
