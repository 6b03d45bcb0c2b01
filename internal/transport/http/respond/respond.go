package respond

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/corray333/backend-labs/auditadmin/internal/service/models/result"
)

// JSON writes v with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Error sending response", "error", err)
	}
}

// Text writes body as plain text.
func Text(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	if _, err := io.WriteString(w, body); err != nil {
		slog.Error("Error sending response", "error", err)
	}
}

// Error writes a failed envelope.
func Error(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, result.Fail[struct{}](msg))
}

// BadRequest reports a request that failed decoding or validation.
func BadRequest(w http.ResponseWriter, err error) {
	Error(w, http.StatusBadRequest, err.Error())
}

// Envelope writes data as a successful envelope, or the failure message
// with 502 when data is nil.
func Envelope[T any](w http.ResponseWriter, data *T, failure string) {
	if data == nil {
		Error(w, http.StatusBadGateway, failure)

		return
	}

	JSON(w, http.StatusOK, result.Ok(*data))
}
