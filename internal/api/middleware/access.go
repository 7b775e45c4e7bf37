package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/fab1/auth-service/internal/api/metrics"
	"github.com/fab1/auth-service/internal/core/domain"
)

// Decision is the outcome of evaluating the access policy for a request.
type Decision int

const (
	Allow Decision = iota
	// Unauthenticated: the route needs an identity and none is attached.
	Unauthenticated
	// Forbidden: an identity is attached but lacks the required role.
	Forbidden
)

// Rule maps a method/path pattern to an access requirement. Rules are
// evaluated in declaration order; the first match wins.
type Rule struct {
	Method string // exact method, or "*" for any
	Path   string // exact path, or prefix when Prefix is true
	Prefix bool
	Public bool     // allow unconditionally, roles ignored
	Roles  []string // require any of these; empty means any identity
}

func (r Rule) matches(method, path string) bool {
	if r.Method != "*" && r.Method != method {
		return false
	}
	if r.Prefix {
		return strings.HasPrefix(path, r.Path)
	}
	return path == r.Path
}

// Policy is a static ordered access-control table.
type Policy struct {
	rules []Rule
}

func NewPolicy(rules ...Rule) *Policy {
	return &Policy{rules: rules}
}

// DefaultPolicy is the service's route/role matrix: auth and probe endpoints
// are public, /admin/ and /moderator/ subtrees need specific roles, and
// everything else needs some authenticated identity.
func DefaultPolicy() *Policy {
	return NewPolicy(
		Rule{Method: http.MethodPost, Path: "/auth/login", Public: true},
		Rule{Method: http.MethodPost, Path: "/auth/register", Public: true},
		Rule{Method: http.MethodGet, Path: "/auth/health", Public: true},
		Rule{Method: http.MethodGet, Path: "/auth/test", Public: true},
		Rule{Method: http.MethodGet, Path: "/health", Public: true},
		Rule{Method: http.MethodGet, Path: "/health/ready", Public: true},
		Rule{Method: http.MethodGet, Path: "/metrics", Public: true},
		Rule{Method: "*", Path: "/admin/", Prefix: true, Roles: []string{domain.RoleAdmin}},
		Rule{Method: "*", Path: "/moderator/", Prefix: true, Roles: []string{domain.RoleAdmin, domain.RoleModerator}},
		Rule{Method: "*", Path: "/", Prefix: true},
	)
}

// IsPublic reports whether the first matching rule allows the request
// unconditionally. The request gate uses this to bypass token processing.
func (p *Policy) IsPublic(method, path string) bool {
	for _, r := range p.rules {
		if r.matches(method, path) {
			return r.Public
		}
	}
	return false
}

// Decide evaluates the table top to bottom for the request. id is nil for
// anonymous requests. The two denial outcomes stay disjoint: no identity on
// a protected route is Unauthenticated, an identity lacking the required
// role is Forbidden.
func (p *Policy) Decide(method, path string, id *Identity) Decision {
	for _, r := range p.rules {
		if !r.matches(method, path) {
			continue
		}
		if r.Public {
			return Allow
		}
		if id == nil {
			return Unauthenticated
		}
		if len(r.Roles) == 0 {
			return Allow
		}
		if id.HasAnyAuthority(r.Roles...) {
			return Allow
		}
		return Forbidden
	}
	// No rule matched: require an identity, like the fallback rule.
	if id == nil {
		return Unauthenticated
	}
	return Allow
}

// denialResponse is the fixed-shape body for 401/403 responses.
type denialResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
	Path      string `json:"path"`
}

// Middleware enforces the policy after the gate has run. It is the only
// place that turns an authentication/authorization failure into an error
// response.
func (p *Policy) Middleware(log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			var id *Identity
			if got, ok := IdentityFrom(c); ok {
				id = &got
			}

			switch p.Decide(req.Method, req.URL.Path, id) {
			case Allow:
				return next(c)
			case Unauthenticated:
				metrics.AccessDeniedTotal.WithLabelValues("unauthenticated").Inc()
				log.Warn().Str("path", req.URL.Path).Msg("unauthenticated access attempt")
				return c.JSON(http.StatusUnauthorized, denialResponse{
					Error:     "unauthorized",
					Message:   "missing or invalid bearer token",
					Timestamp: time.Now().UnixMilli(),
					Path:      req.URL.Path,
				})
			default:
				metrics.AccessDeniedTotal.WithLabelValues("forbidden").Inc()
				log.Warn().Str("path", req.URL.Path).Str("username", id.Username).Msg("access denied")
				return c.JSON(http.StatusForbidden, denialResponse{
					Error:     "forbidden",
					Message:   "insufficient permissions",
					Timestamp: time.Now().UnixMilli(),
					Path:      req.URL.Path,
				})
			}
		}
	}
}
