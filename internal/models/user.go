package models

import "time"

// Role identifies what a user is allowed to see and do.
// It is stored on the account row and checked once at the
// access-control boundary, never re-derived per handler.
type Role string

const (
	RoleStudent Role = "student"
	RoleParent  Role = "parent"
	RoleAdmin   Role = "admin"
)

// IsValid reports whether the role is one of the known values.
func (r Role) IsValid() bool {
	switch r {
	case RoleStudent, RoleParent, RoleAdmin:
		return true
	}
	return false
}

// User is an account that can authenticate.
type User struct {
	ID            int64
	Email         string
	PasswordHash  string
	Role          Role
	OAuthProvider string
	OAuthSubject  string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// UserProfile holds the profile data attached to an account.
// Exactly one profile exists per account; the profile row is
// created right after the account row and may briefly lag it
// (see the registration retry in the auth service).
type UserProfile struct {
	UserID    int64
	FullName  string
	Username  string
	Gender    string
	Age       int
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UserWithProfile combines an account with its profile.
type UserWithProfile struct {
	User    User
	Profile UserProfile
}

// Session represents an authenticated parent/admin session.
type Session struct {
	ID        string
	UserID    int64
	ExpiresAt time.Time
	CreatedAt time.Time
}

// IsExpired checks if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// PasswordResetToken represents a token for password reset.
type PasswordResetToken struct {
	Token     string
	UserID    int64
	ExpiresAt time.Time
	CreatedAt time.Time
	Used      bool
}

// IsExpired checks if the reset token has expired.
func (t *PasswordResetToken) IsExpired() bool {
	return time.Now().After(t.ExpiresAt)
}
