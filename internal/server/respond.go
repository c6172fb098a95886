// internal/server/respond.go
package server

import (
	"encoding/json"
	"net/http"

	apperrors "docgen-service/internal/common/errors"
)

// writeJSON sends a success envelope. The payload map is extended with
// success and requestId before encoding.
func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, payload map[string]interface{}) {
	body := map[string]interface{}{
		"success":   true,
		"requestId": RequestID(r.Context()),
	}
	for k, v := range payload {
		body[k] = v
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("failed to encode response", map[string]interface{}{
			"requestId": RequestID(r.Context()),
			"error":     err.Error(),
		})
	}
}

// writeError maps the error taxonomy onto an HTTP status and the error
// envelope the old clients expect.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	std := apperrors.AsStandard(err)

	body := map[string]interface{}{
		"error":     true,
		"code":      std.Code,
		"message":   std.Message,
		"requestId": RequestID(r.Context()),
	}
	if std.Details != "" {
		body["details"] = std.Details
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(apperrors.HTTPStatus(std.Code))
	if encErr := json.NewEncoder(w).Encode(body); encErr != nil {
		s.logger.Error("failed to encode error response", map[string]interface{}{
			"requestId": RequestID(r.Context()),
			"error":     encErr.Error(),
		})
	}
}

// writeJSONRaw sends an arbitrary JSON body without the success envelope.
func (s *Server) writeJSONRaw(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// writePDF streams rendered document bytes.
func (s *Server) writePDF(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "application/pdf")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
