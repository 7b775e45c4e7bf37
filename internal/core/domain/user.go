package domain

import (
	"errors"
	"time"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUsernameTaken      = errors.New("username already taken")
)

// User models an authenticated actor. The password hash is opaque and never
// serialized outward. Users are treated as immutable values: mutation helpers
// return a modified copy so instances are safe to share across requests.
type User struct {
	ID           string    `json:"id,omitempty"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Enabled      bool      `json:"enabled"`
	Roles        []Role    `json:"roles"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewUser builds an enabled user with no roles attached yet.
func NewUser(username, passwordHash string) User {
	now := time.Now().UTC()
	return User{
		Username:     username,
		PasswordHash: passwordHash,
		Enabled:      true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// WithRole returns a copy of the user with the role attached. Roles are a
// set keyed by name; attaching an already-present role is a no-op.
func (u User) WithRole(role Role) User {
	for _, r := range u.Roles {
		if r.Equal(role) {
			return u
		}
	}
	clone := u
	clone.Roles = append(append([]Role(nil), u.Roles...), role)
	return clone
}

// WithoutRole returns a copy of the user with the named role removed.
func (u User) WithoutRole(role Role) User {
	clone := u
	clone.Roles = make([]Role, 0, len(u.Roles))
	for _, r := range u.Roles {
		if !r.Equal(role) {
			clone.Roles = append(clone.Roles, r)
		}
	}
	return clone
}

// WithEnabled returns a copy of the user with the enabled flag set.
func (u User) WithEnabled(enabled bool) User {
	clone := u
	clone.Enabled = enabled
	clone.UpdatedAt = time.Now().UTC()
	return clone
}

// HasRole reports whether the user carries the named role.
func (u User) HasRole(name string) bool {
	for _, r := range u.Roles {
		if r.Name == name {
			return true
		}
	}
	return false
}

// RoleNames returns the names of the user's roles in attachment order.
func (u User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, r.Name)
	}
	return names
}

// Session is the result of a successful authentication.
type Session struct {
	Username string `json:"username"`
	Token    string `json:"token"`
}
