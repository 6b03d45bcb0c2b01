package auditstats

import (
	"context"
	"net/http"

	"github.com/corray333/backend-labs/auditadmin/internal/service/models/audit"
	"github.com/corray333/backend-labs/auditadmin/internal/service/services/auditsvc"
	"github.com/corray333/backend-labs/auditadmin/internal/transport/http/request"
	"github.com/corray333/backend-labs/auditadmin/internal/transport/http/respond"
)

type hook interface {
	GetAuditStats(ctx context.Context, query audit.StatsQuery) *audit.Stats
	State() auditsvc.State
}

// StatsRequest bounds the statistics range. It is shared with the dashboard.
type StatsRequest struct {
	StartDate string `schema:"startDate" validate:"omitempty,audit_date"`
	EndDate   string `schema:"endDate"   validate:"omitempty,audit_date"`
}

func (q *StatsRequest) ToModel() audit.StatsQuery {
	return audit.StatsQuery{
		StartDate: q.StartDate,
		EndDate:   q.EndDate,
	}
}

// GetAuditStats handles GET /api/audits/stats.
func GetAuditStats(w http.ResponseWriter, r *http.Request, hook hook) {
	query := &StatsRequest{}
	if err := request.DecodeQuery(query, r.URL.Query()); err != nil {
		respond.BadRequest(w, err)

		return
	}

	stats := hook.GetAuditStats(r.Context(), query.ToModel())
	respond.Envelope(w, stats, hook.State().Error)
}
