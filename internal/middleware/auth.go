// Package middleware provides the HTTP middleware chain: request IDs,
// authentication, and rate limiting.
package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"pulseboard/internal/auth"
	"pulseboard/internal/domain"
)

// Auth returns middleware that authenticates every request with the given
// verifier. There is no anonymous fallback: a missing or invalid credential
// is a 401 and the request never reaches the handler.
//
// Credentials are read from the Authorization header ("Bearer <token>"); a
// "token" query parameter is accepted as a fallback for WebSocket clients,
// which cannot set headers from browsers.
func Auth(verifier auth.TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := bearerToken(r)
			if err != nil {
				writeUnauthorized(w, err)
				return
			}

			principal, err := verifier.Verify(r.Context(), token)
			if err != nil {
				writeUnauthorized(w, err)
				return
			}

			ctx := domain.WithPrincipal(r.Context(), principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken extracts the credential, distinguishing absent from malformed.
func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header != "" {
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			return "", domain.ErrCredentialInvalid("authorization header is not a bearer token")
		}
		return token, nil
	}
	if token := r.URL.Query().Get("token"); token != "" {
		return token, nil
	}
	return "", domain.ErrCredentialMissing("missing authorization header")
}

func writeUnauthorized(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"code":    http.StatusUnauthorized,
		"message": "unauthorized: " + err.Error(),
	})
}
