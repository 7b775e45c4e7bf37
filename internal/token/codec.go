// Package token signs and validates compact session tokens (JWT, HS256).
// The codec is pure: it holds only the process-wide signing key and TTL,
// both fixed at construction time.
package token

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/fab1/auth-service/internal/core/domain"
)

var (
	// ErrInvalid covers malformed structure, bad signature, and
	// unsupported algorithm alike; callers cannot distinguish them.
	ErrInvalid = errors.New("invalid token")
	// ErrExpired is returned when the token parsed and verified but its
	// expiry has passed.
	ErrExpired = errors.New("token expired")
)

// Claims is the signed payload: subject (username), the comma-joined role
// snapshot taken at issuance, and the user id. The snapshot is intentionally
// not re-derived per request; revoking a role does not retroactively affect
// unexpired tokens.
type Claims struct {
	Roles  string `json:"roles"`
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// RoleNames splits the roles snapshot back into individual names.
func (c *Claims) RoleNames() []string {
	if c.Roles == "" {
		return nil
	}
	return strings.Split(c.Roles, ",")
}

// Codec issues and parses signed tokens with a symmetric key.
type Codec struct {
	secret []byte
	ttl    time.Duration
}

// NewCodec builds a codec around the given signing secret and token TTL.
func NewCodec(secret string, ttl time.Duration) *Codec {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Codec{secret: []byte(secret), ttl: ttl}
}

// TTL returns the configured token lifetime.
func (c *Codec) TTL() time.Duration {
	return c.ttl
}

// Issue signs a token for the user with expiry = now + TTL.
func (c *Codec) Issue(user *domain.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		Roles:  strings.Join(user.RoleNames(), ","),
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Parse verifies the signature before trusting any claim content. Expired
// tokens surface as ErrExpired; every other failure mode collapses to
// ErrInvalid.
func (c *Codec) Parse(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return c.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, ErrInvalid
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalid
	}
	return claims, nil
}

// IsExpired reports whether the claims' expiry has passed, using the wall
// clock at call time. No grace window is applied.
func (c *Codec) IsExpired(claims *Claims) bool {
	if claims.ExpiresAt == nil {
		return true
	}
	return !time.Now().Before(claims.ExpiresAt.Time)
}

// Validate reports whether the token parses, its signature verifies, its
// subject matches expectedSubject, and it has not expired. All four must
// hold.
func (c *Codec) Validate(tokenStr, expectedSubject string) bool {
	claims, err := c.Parse(tokenStr)
	if err != nil {
		return false
	}
	return claims.Subject == expectedSubject && !c.IsExpired(claims)
}
