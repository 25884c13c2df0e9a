package auth

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pulseboard/internal/domain"
)

const testSecret = "unit-test-secret"

// makeToken signs a token with arbitrary claims for negative-path tests.
func makeToken(t *testing.T, method jwt.SigningMethod, secret string, claims jwt.Claims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestIssueAndVerifyRoundTrip(t *testing.T) {
	t.Parallel()

	issuer := NewIssuer(testSecret, time.Hour)
	verifier := NewHS256Verifier(testSecret)

	token, err := issuer.Issue(domain.Principal{ID: 42, Email: "analyst@example.com"})
	require.NoError(t, err)

	p, err := verifier.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), p.ID)
	assert.Equal(t, "analyst@example.com", p.Email)
}

func TestVerifyRejections(t *testing.T) {
	t.Parallel()

	now := time.Now()
	valid := func(sub string, email string) Claims {
		return Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   sub,
				IssuedAt:  jwt.NewNumericDate(now),
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			},
			Email: email,
		}
	}

	tests := []struct {
		name  string
		token func(t *testing.T) string
	}{
		{
			name:  "garbage token",
			token: func(*testing.T) string { return "not.a.jwt" },
		},
		{
			name: "wrong secret",
			token: func(t *testing.T) string {
				return makeToken(t, jwt.SigningMethodHS256, "other-secret", valid("42", "a@b.c"))
			},
		},
		{
			name: "wrong signing method",
			token: func(t *testing.T) string {
				return makeToken(t, jwt.SigningMethodHS384, testSecret, valid("42", "a@b.c"))
			},
		},
		{
			name: "expired",
			token: func(t *testing.T) string {
				c := valid("42", "a@b.c")
				c.ExpiresAt = jwt.NewNumericDate(now.Add(-time.Minute))
				return makeToken(t, jwt.SigningMethodHS256, testSecret, c)
			},
		},
		{
			name: "non-integer subject",
			token: func(t *testing.T) string {
				return makeToken(t, jwt.SigningMethodHS256, testSecret, valid("alice", "a@b.c"))
			},
		},
		{
			name: "missing email claim",
			token: func(t *testing.T) string {
				return makeToken(t, jwt.SigningMethodHS256, testSecret, valid("42", ""))
			},
		},
	}

	verifier := NewHS256Verifier(testSecret)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := verifier.Verify(context.Background(), tt.token(t))
			require.Error(t, err)

			var unauthenticated *domain.UnauthenticatedError
			require.ErrorAs(t, err, &unauthenticated)
			assert.Equal(t, domain.CredentialInvalid, unauthenticated.Fault)
		})
	}
}

func TestIssuerTTL(t *testing.T) {
	t.Parallel()

	issuer := NewIssuer(testSecret, time.Minute)
	token, err := issuer.Issue(domain.Principal{ID: 7, Email: "x@y.z"})
	require.NoError(t, err)

	claims := &Claims{}
	_, err = jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)

	assert.Equal(t, strconv.FormatInt(7, 10), claims.Subject)
	ttl := claims.ExpiresAt.Sub(claims.IssuedAt.Time)
	assert.Equal(t, time.Minute, ttl)
}
