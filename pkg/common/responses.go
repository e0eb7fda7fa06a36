package common

import (
	"encoding/json"
	"net/http"

	apperrors "alerta-utec-backend/pkg/errors"
)

// MessageResponse is the uniform success envelope: handlers speak to the
// frontend through a "message" key plus operation-specific fields.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the uniform failure envelope
type ErrorResponse struct {
	Message string `json:"message"`
}

// RespondJSON writes a JSON body with the given status
func RespondJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// RespondMessage writes a {"message": ...} body
func RespondMessage(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, MessageResponse{Message: message})
}

// RespondError maps an error to its HTTP status and writes a {"message"} body.
// 4xx messages are the application's own wording; 5xx keeps the wrapped cause
// out of the response body.
func RespondError(w http.ResponseWriter, err error) {
	status := apperrors.HTTPStatusOf(err)
	msg := "Error interno del servidor"
	if appErr, ok := apperrors.AsAppError(err); ok && status < http.StatusInternalServerError {
		msg = appErr.Message
	}
	RespondJSON(w, status, ErrorResponse{Message: msg})
}

// ParseJSONBody decodes a JSON request body with a size limit
func ParseJSONBody(r *http.Request, v interface{}, maxBytes int64) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBytes)
	return json.NewDecoder(r.Body).Decode(v)
}
