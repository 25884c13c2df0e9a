package domain

import "time"

// Principal is the authenticated identity attached to every request. It is
// produced by a token verifier and carried through the request context; no
// request proceeds without one.
type Principal struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

// User is a registered account in the store. PasswordHash never leaves the
// account service.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Principal returns the identity a user authenticates as.
func (u *User) Principal() Principal {
	return Principal{ID: u.ID, Email: u.Email}
}
