package web

import (
	"encoding/json"
	"net/http"

	"github.com/jet23058/caloriesnap/internal/errors"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeJSON writes v as a JSON response body.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps an operation error onto its HTTP status. Unknown
// error types become opaque 500s so internal detail never reaches the
// client.
func writeError(w http.ResponseWriter, err error) {
	if sErr, ok := err.(*errors.SnapError); ok {
		writeJSON(w, sErr.Status, errorBody{Error: errorDetail{
			Code:    string(sErr.Code),
			Message: sErr.Message,
		}})
		return
	}
	writeJSON(w, http.StatusInternalServerError, errorBody{Error: errorDetail{
		Code:    string(errors.ErrInternal),
		Message: "internal error",
	}})
}
