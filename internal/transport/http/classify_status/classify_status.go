package classifystatus

import (
	"net/http"

	"github.com/corray333/backend-labs/auditadmin/internal/service/models/status"
	"github.com/corray333/backend-labs/auditadmin/internal/transport/http/request"
	"github.com/corray333/backend-labs/auditadmin/internal/transport/http/respond"
)

type classifyRequest struct {
	Status string `schema:"status" validate:"required"`
}

type classifyResponse struct {
	status.Classification
	ColorHex string `json:"colorHex"`
}

// ClassifyStatus handles GET /api/status/classify.
func ClassifyStatus(w http.ResponseWriter, r *http.Request) {
	query := &classifyRequest{}
	if err := request.DecodeQuery(query, r.URL.Query()); err != nil {
		respond.BadRequest(w, err)

		return
	}

	c := status.Classify(query.Status)
	respond.Envelope(w, &classifyResponse{
		Classification: c,
		ColorHex:       status.ColorHex(status.Key(query.Status)),
	}, "")
}
