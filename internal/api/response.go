package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/erazemk/najdeno/internal/apperr"
)

// errorBody is the wire form of every API error. The code field is
// stable; clients branch on it, not on the message.
type errorBody struct {
	Error  string            `json:"error"`
	Code   string            `json:"code"`
	Fields map[string]string `json:"fields,omitempty"`
}

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("encoding response", "error", err)
		}
	}
}

// jsonError writes a taxonomy error with its mapped status and code.
// Internal errors are logged and masked.
func jsonError(w http.ResponseWriter, err error) {
	code := apperr.Code(err)
	body := errorBody{Error: err.Error(), Code: code}

	if ve, ok := asValidation(err); ok {
		body.Fields = ve.Fields
	}
	if code == apperr.CodeInternal {
		slog.Error("internal error", "error", err)
		body.Error = "internal error"
	}

	jsonResponse(w, apperr.HTTPStatus(err), body)
}

// jsonErrorMsg writes a bare-message error for request-shape problems
// that never reach the taxonomy (bad path params, malformed JSON).
func jsonErrorMsg(w http.ResponseWriter, status int, message string) {
	code := apperr.CodeInternal
	switch status {
	case http.StatusBadRequest:
		code = apperr.CodeValidation
	case http.StatusUnauthorized:
		code = apperr.CodeUnauthorized
	case http.StatusForbidden:
		code = apperr.CodeForbidden
	case http.StatusNotFound:
		code = apperr.CodeNotFound
	}
	jsonResponse(w, status, errorBody{Error: message, Code: code})
}

func asValidation(err error) (*apperr.ValidationError, bool) {
	var ve *apperr.ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// decodeJSON decodes a JSON request body into the given target.
func decodeJSON(r *http.Request, target any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(target)
}
