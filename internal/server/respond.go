package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/mrpoffice-collab/Whispering-Art/pkg/errors"
)

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps an error code to an HTTP status.
func statusFor(err error) int {
	if errors.IsInvalid(err) {
		return http.StatusBadRequest
	}
	switch errors.GetCode(err) {
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnsupported:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeConverter:
		return http.StatusServiceUnavailable
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

// writeError logs err and writes it as JSON. Internal failures are reported
// to the client with a generic message.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	reqID := middleware.GetReqID(r.Context())

	msg := errors.UserMessage(err)
	if status >= 500 {
		s.Logger.Error("request failed", "path", r.URL.Path, "request_id", reqID, "err", err)
		if status == http.StatusInternalServerError {
			msg = "Failed to generate PDF"
		}
	} else {
		s.Logger.Warn("request rejected", "path", r.URL.Path, "request_id", reqID, "err", err)
	}

	writeJSON(w, status, errorResponse{
		Error:     msg,
		Code:      string(errors.GetCode(err)),
		RequestID: reqID,
	})
}
