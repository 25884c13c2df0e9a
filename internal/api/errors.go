package api

import (
	"errors"
	"net/http"

	"pulseboard/internal/domain"
)

// httpStatusFromError maps domain errors to HTTP status codes. Anything
// unrecognized is a 500.
func httpStatusFromError(err error) int {
	var unauthenticated *domain.UnauthenticatedError
	var validation *domain.ValidationError
	var accessDenied *domain.AccessDeniedError
	var notFound *domain.NotFoundError
	var conflict *domain.ConflictError
	var execution *domain.ExecutionError

	switch {
	case errors.As(err, &unauthenticated):
		return http.StatusUnauthorized
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &accessDenied):
		return http.StatusForbidden
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &conflict):
		return http.StatusConflict
	case errors.As(err, &execution):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
