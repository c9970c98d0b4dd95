package api

import (
	"errors"
	"net/http"

	"notebook/cmd/apperr"
)

// writeServiceError maps a classified service error onto the response envelope.
// Internal causes are logged and never written to the client.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, event string, err error) {
	switch {
	case apperr.IsInvalidInput(err):
		resp := errorResponse{Error: apiError{Code: "invalid_input", Message: "invalid request"}}
		for _, f := range apperr.FieldsOf(err) {
			resp.Errors = append(resp.Errors, fieldError{Field: f.Field, Message: f.Message})
		}
		writeJSON(w, http.StatusBadRequest, resp)

	case apperr.IsConflict(err):
		var ce apperr.ConflictError
		if errors.As(err, &ce) && ce.Field == "email" {
			writeError(w, http.StatusBadRequest, "email_taken", "a user with this email already exists")
			return
		}
		writeError(w, http.StatusBadRequest, "conflict", "resource already exists")

	case apperr.IsUnauthorized(err):
		reason, _ := apperr.ReasonOf(err)
		switch reason {
		case apperr.ReasonInvalidCredentials:
			writeError(w, http.StatusBadRequest, "invalid_credentials", "please try to login with correct credentials")
		case apperr.ReasonAccessDenied:
			writeError(w, http.StatusUnauthorized, "access_denied", "access denied")
		default:
			writeError(w, http.StatusUnauthorized, "unauthorized", "please authenticate using a valid token")
		}

	case apperr.IsNotFound(err):
		writeError(w, http.StatusNotFound, "not_found", "not found")

	default:
		h.log.Error(event, "err", err, "request_id", requestID(r))
		writeError(w, http.StatusInternalServerError, "server_error", "internal error")
	}
}
