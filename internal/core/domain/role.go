package domain

import "errors"

// Well-known role names seeded at startup. Names are the stable identity of
// a role; two records with the same name are the same role.
const (
	RoleUser      = "USER"
	RoleAdmin     = "ADMIN"
	RoleModerator = "MODERATOR"
)

var ErrRoleNotFound = errors.New("role not found")

// Role grants a named set of authorities to the users that carry it.
type Role struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Equal compares roles by name, ignoring id and description.
func (r Role) Equal(other Role) bool {
	return r.Name == other.Name
}
