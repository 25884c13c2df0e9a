// Package account handles user registration and login.
package account

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"pulseboard/internal/auth"
	"pulseboard/internal/domain"
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 8

// AccountService implements registration and credential login.
//
//nolint:revive // Name chosen for clarity across package boundaries
type AccountService struct {
	users  domain.UserRepository
	issuer *auth.Issuer
	logger *slog.Logger
}

// NewAccountService creates a new AccountService.
func NewAccountService(users domain.UserRepository, issuer *auth.Issuer, logger *slog.Logger) *AccountService {
	return &AccountService{users: users, issuer: issuer, logger: logger}
}

// Register creates a user with a bcrypt-hashed password.
func (s *AccountService) Register(ctx context.Context, email, password string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, domain.ErrValidation("a valid email is required")
	}
	if len(password) < MinPasswordLength {
		return nil, domain.ErrValidation("password must be at least %d characters", MinPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user, err := s.users.Create(ctx, email, string(hash))
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered", "user", user.ID, "email", user.Email)
	return user, nil
}

// Login checks the credentials and returns a signed access token. Unknown
// email and wrong password produce the same error so login failures don't
// leak which accounts exist.
func (s *AccountService) Login(ctx context.Context, email, password string) (string, domain.Principal, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return "", domain.Principal{}, domain.ErrCredentialInvalid("invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", domain.Principal{}, domain.ErrCredentialInvalid("invalid email or password")
	}

	principal := user.Principal()
	token, err := s.issuer.Issue(principal)
	if err != nil {
		return "", domain.Principal{}, err
	}

	s.logger.Info("user logged in", "user", user.ID)
	return token, principal, nil
}
