package ports

import (
	"context"

	"github.com/fab1/auth-service/internal/core/domain"
)

// UserRepository defines the persistence interface for user accounts. The
// store enforces username uniqueness at the write layer: Create returns
// domain.ErrUsernameTaken on conflict even when a prior existence check
// passed.
type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	Create(ctx context.Context, user domain.User) (*domain.User, error)
	Update(ctx context.Context, user domain.User) (*domain.User, error)
	Delete(ctx context.Context, username string) error
	Count(ctx context.Context) (int64, error)
}

// RoleRepository defines the persistence interface for role records.
// Roles are identified by name.
type RoleRepository interface {
	FindByName(ctx context.Context, name string) (*domain.Role, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	Create(ctx context.Context, role domain.Role) (*domain.Role, error)
}
