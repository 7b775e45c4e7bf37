package ports

import (
	"context"

	"github.com/fab1/auth-service/internal/core/domain"
)

// AuthService orchestrates credential verification, account lifecycle, and
// token issuance.
type AuthService interface {
	Authenticate(ctx context.Context, username, password string) (*domain.Session, error)
	Register(ctx context.Context, username, password, roleName string) (*domain.User, error)
	DeleteAccount(ctx context.Context, username string) error
	CurrentUser(ctx context.Context, username string) (*domain.User, error)
	SetEnabled(ctx context.Context, username string, enabled bool) (*domain.User, error)
}

// PasswordHasher produces and verifies one-way salted password hashes.
// Verify returns domain.ErrInvalidCredentials on mismatch; a malformed
// stored hash is indistinguishable from a wrong password.
type PasswordHasher interface {
	Hash(ctx context.Context, plaintext string) (string, error)
	Verify(ctx context.Context, plaintext, hash string) error
}

// TokenIssuer signs a session token carrying the user's identity and the
// role snapshot taken at issuance time.
type TokenIssuer interface {
	Issue(user *domain.User) (string, error)
}
