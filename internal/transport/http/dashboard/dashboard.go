package dashboard

import (
	"context"
	"net/http"

	"github.com/corray333/backend-labs/auditadmin/internal/service/models/audit"
	"github.com/corray333/backend-labs/auditadmin/internal/transport/http/request"
	"github.com/corray333/backend-labs/auditadmin/internal/transport/http/respond"
	"golang.org/x/sync/errgroup"
)

const defaultRecentLimit = 10

type statsHook interface {
	GetAuditStats(ctx context.Context, query audit.StatsQuery) *audit.Stats
	Err() error
}

type pageHook interface {
	GetAllAudits(ctx context.Context, query audit.AllAuditsQuery) *audit.Page
	Err() error
}

type dashboardRequest struct {
	Limit     int    `schema:"limit"     validate:"gte=0"`
	StartDate string `schema:"startDate" validate:"omitempty,audit_date"`
	EndDate   string `schema:"endDate"   validate:"omitempty,audit_date"`
}

// Dashboard is the statistics block together with the newest audit entries.
type Dashboard struct {
	Stats        audit.Stats `json:"stats"`
	RecentAudits audit.Page  `json:"recentAudits"`
}

// GetDashboard handles GET /api/audits/dashboard. Both remote calls run
// concurrently, each through its own hook so their states do not mix.
func GetDashboard(w http.ResponseWriter, r *http.Request, stats statsHook, recent pageHook) {
	query := &dashboardRequest{}
	if err := request.DecodeQuery(query, r.URL.Query()); err != nil {
		respond.BadRequest(w, err)

		return
	}
	limit := query.Limit
	if limit == 0 {
		limit = defaultRecentLimit
	}

	var d Dashboard
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		s := stats.GetAuditStats(ctx, audit.StatsQuery{
			StartDate: query.StartDate,
			EndDate:   query.EndDate,
		})
		if s == nil {
			return stats.Err()
		}
		d.Stats = *s

		return nil
	})
	g.Go(func() error {
		p := recent.GetAllAudits(ctx, audit.AllAuditsQuery{
			Limit:     limit,
			Page:      1,
			StartDate: query.StartDate,
			EndDate:   query.EndDate,
		})
		if p == nil {
			return recent.Err()
		}
		d.RecentAudits = *p

		return nil
	})

	if err := g.Wait(); err != nil {
		respond.Error(w, http.StatusBadGateway, err.Error())

		return
	}

	respond.Envelope(w, &d, "")
}
