package deliverytimeline

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/corray333/backend-labs/auditadmin/internal/service/models/delivery"
	"github.com/corray333/backend-labs/auditadmin/internal/transport/http/request"
	"github.com/corray333/backend-labs/auditadmin/internal/transport/http/respond"
	"github.com/corray333/backend-labs/auditadmin/internal/transport/timeline"
)

const maxBodyBytes = 1 << 20

type deliveryTimelineRequest struct {
	Expanded bool   `schema:"expanded"`
	TZ       string `schema:"tz"       validate:"omitempty,timezone"`
}

// RenderDeliveryTimeline handles POST /api/deliveries/timeline. The body is
// the checkpoint list of one shipment, oldest first.
func RenderDeliveryTimeline(w http.ResponseWriter, r *http.Request) {
	query := &deliveryTimelineRequest{}
	if err := request.DecodeQuery(query, r.URL.Query()); err != nil {
		respond.BadRequest(w, err)

		return
	}

	var items delivery.Timeline
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&items); err != nil {
		respond.BadRequest(w, fmt.Errorf("failed to decode timeline: %w", err))

		return
	}
	if err := request.ValidateSlice([]delivery.TimelineItem(items)); err != nil {
		respond.BadRequest(w, err)

		return
	}

	loc := request.Location(query.TZ)

	var b strings.Builder
	item := timeline.ShippedItem{Timeline: items, Expanded: query.Expanded, Location: loc}
	if err := item.Render(&b); err != nil {
		respond.Error(w, http.StatusInternalServerError, err.Error())

		return
	}

	respond.Text(w, http.StatusOK, b.String())
}
