package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"pulseboard/internal/domain"
)

func TestHTTPStatusFromError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"missing credential", domain.ErrCredentialMissing("no header"), http.StatusUnauthorized},
		{"invalid credential", domain.ErrCredentialInvalid("bad token"), http.StatusUnauthorized},
		{"validation", domain.ErrValidation("query text is required"), http.StatusBadRequest},
		{"access denied", domain.ErrAccessDenied("not the owner"), http.StatusForbidden},
		{"not found", domain.ErrNotFound("dashboard 9 not found"), http.StatusNotFound},
		{"conflict", domain.ErrConflict("user exists"), http.StatusConflict},
		{"execution", domain.ErrExecution("engine exploded"), http.StatusInternalServerError},
		{"wrapped validation", fmt.Errorf("outer: %w", domain.ErrValidation("inner")), http.StatusBadRequest},
		{"unknown", errors.New("plain error"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, httpStatusFromError(tt.err))
		})
	}
}
