package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"pulseboard/internal/domain"
)

// maxRequestBody caps request bodies at 1 MiB.
const maxRequestBody = 1 << 20

type errorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError renders a domain error as JSON. Unrecognized 500s get a generic
// message so internals don't leak; execution failures keep theirs since
// callers need to see what the engine said.
func writeError(w http.ResponseWriter, err error) {
	status := httpStatusFromError(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		var execErr *domain.ExecutionError
		if !errors.As(err, &execErr) {
			message = "internal server error"
		}
	}
	writeJSON(w, status, errorBody{Code: status, Message: message})
}

// readJSON decodes the request body into v, rejecting oversized or malformed
// payloads as validation errors.
func readJSON(r *http.Request, w http.ResponseWriter, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return domain.ErrValidation("invalid request body: %v", err)
	}
	return nil
}
