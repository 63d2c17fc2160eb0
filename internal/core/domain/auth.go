package domain

import "time"

const RoleAdmin = "admin"

// Session is the verified content of a bearer token.
type Session struct {
	UserID    string
	SessionID string
	ExpiresAt time.Time
}

// User is the identity provider's view of an account.
type User struct {
	ID    string
	Email string
	Role  string
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
