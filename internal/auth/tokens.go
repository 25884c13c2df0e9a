// Package auth turns bearer credentials into authenticated principals and
// mints the HS256 access tokens issued at login.
package auth

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"pulseboard/internal/domain"
)

// Claims is the JWT payload carried by Pulseboard access tokens.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// TokenVerifier validates a bearer token and returns the principal it
// identifies. Verification is stateless and failures never fall back to a
// default identity.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (domain.Principal, error)
}

// HS256Verifier validates tokens signed with a shared secret. It is a pure
// function of (token, secret): no network, no process state.
type HS256Verifier struct {
	secret []byte
}

// NewHS256Verifier creates a verifier for the given shared secret.
func NewHS256Verifier(secret string) *HS256Verifier {
	return &HS256Verifier{secret: []byte(secret)}
}

// Verify parses and validates the token, requiring the HS256 algorithm, an
// integer subject, and an email claim.
func (v *HS256Verifier) Verify(_ context.Context, token string) (domain.Principal, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return domain.Principal{}, domain.ErrCredentialInvalid("token verification failed: %v", err)
	}
	return principalFromClaims(claims.Subject, claims.Email)
}

// principalFromClaims builds a Principal from the subject and email claims.
// Shared by the HS256 and OIDC verifiers so both produce identical
// principals for equivalent tokens.
func principalFromClaims(subject, email string) (domain.Principal, error) {
	id, err := strconv.ParseInt(subject, 10, 64)
	if err != nil {
		return domain.Principal{}, domain.ErrCredentialInvalid("token subject %q is not a user id", subject)
	}
	if email == "" {
		return domain.Principal{}, domain.ErrCredentialInvalid("token is missing the email claim")
	}
	return domain.Principal{ID: id, Email: email}, nil
}

// Issuer mints HS256 access tokens. Used by the login endpoint and by
// pulsectl for dev tokens.
type Issuer struct {
	secret []byte
	ttl    time.Duration
}

// NewIssuer creates an issuer. A non-positive ttl defaults to 24h.
func NewIssuer(secret string, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Issuer{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token identifying p, valid for the issuer's TTL.
func (i *Issuer) Issue(p domain.Principal) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(p.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
		Email: p.Email,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

var _ TokenVerifier = (*HS256Verifier)(nil)
