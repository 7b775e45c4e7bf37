package middleware

import "github.com/labstack/echo/v4"

const identityKey = "auth_identity"

// Identity is the resolved principal attached to a request after a
// successful token validation. It lives for one request only. Authorities
// are re-derived from the stored user record at gate time, not copied from
// the token's role snapshot.
type Identity struct {
	Username    string
	UserID      string
	Authorities []string
}

// HasAuthority reports whether the identity carries the named authority.
func (id Identity) HasAuthority(name string) bool {
	for _, a := range id.Authorities {
		if a == name {
			return true
		}
	}
	return false
}

// HasAnyAuthority reports whether the identity carries at least one of the
// named authorities.
func (id Identity) HasAnyAuthority(names ...string) bool {
	for _, n := range names {
		if id.HasAuthority(n) {
			return true
		}
	}
	return false
}

// SetIdentity attaches the identity to the request context.
func SetIdentity(c echo.Context, id Identity) {
	c.Set(identityKey, id)
}

// IdentityFrom retrieves the request identity, if the gate attached one.
func IdentityFrom(c echo.Context) (Identity, bool) {
	id, ok := c.Get(identityKey).(Identity)
	return id, ok
}
