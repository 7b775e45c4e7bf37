package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/fab1/auth-service/internal/core/domain"
	"github.com/fab1/auth-service/internal/core/ports"
)

const seedLockName = "bootstrap"

// Locker guards the seeding run across replicas. Implementations report
// false from Acquire when another holder owns the lock.
type Locker interface {
	Acquire(ctx context.Context, name string) (bool, error)
	Release(ctx context.Context, name string) error
}

type seedAccount struct {
	username string
	password string
	roles    []string
}

var defaultRoles = []domain.Role{
	{Name: domain.RoleUser, Description: "standard user"},
	{Name: domain.RoleAdmin, Description: "system administrator"},
	{Name: domain.RoleModerator, Description: "moderator"},
}

var defaultAccounts = []seedAccount{
	{username: "admin", password: "password", roles: []string{domain.RoleAdmin, domain.RoleUser}},
	{username: "user", password: "123456", roles: []string{domain.RoleUser}},
	{username: "moderator", password: "mod123", roles: []string{domain.RoleModerator, domain.RoleUser}},
}

// Seeder creates the built-in roles and default accounts on startup.
// Every step is idempotent so a crashed run can simply be repeated.
type Seeder struct {
	users  ports.UserRepository
	roles  ports.RoleRepository
	hasher ports.PasswordHasher
	lock   Locker
	log    zerolog.Logger
}

// NewSeeder builds a Seeder. The lock may be nil, in which case the run is
// unguarded.
func NewSeeder(users ports.UserRepository, roles ports.RoleRepository, hasher ports.PasswordHasher, lock Locker, log zerolog.Logger) *Seeder {
	return &Seeder{users: users, roles: roles, hasher: hasher, lock: lock, log: log}
}

// Run seeds roles and default accounts, skipping anything that already
// exists. When the lock is held elsewhere the run is skipped entirely.
func (s *Seeder) Run(ctx context.Context) error {
	if s.lock != nil {
		ok, err := s.lock.Acquire(ctx, seedLockName)
		if err != nil {
			return fmt.Errorf("seed lock: %w", err)
		}
		if !ok {
			s.log.Info().Msg("seeding skipped, lock held by another replica")
			return nil
		}
		defer func() {
			if err := s.lock.Release(context.WithoutCancel(ctx), seedLockName); err != nil {
				s.log.Warn().Err(err).Msg("failed to release seed lock")
			}
		}()
	}

	if err := s.seedRoles(ctx); err != nil {
		return err
	}
	return s.seedAccounts(ctx)
}

func (s *Seeder) seedRoles(ctx context.Context) error {
	for _, role := range defaultRoles {
		exists, err := s.roles.ExistsByName(ctx, role.Name)
		if err != nil {
			return fmt.Errorf("check role %s: %w", role.Name, err)
		}
		if exists {
			continue
		}
		if _, err := s.roles.Create(ctx, role); err != nil {
			return fmt.Errorf("create role %s: %w", role.Name, err)
		}
		s.log.Info().Str("role", role.Name).Msg("seeded role")
	}
	return nil
}

func (s *Seeder) seedAccounts(ctx context.Context) error {
	for _, account := range defaultAccounts {
		exists, err := s.users.ExistsByUsername(ctx, account.username)
		if err != nil {
			return fmt.Errorf("check account %s: %w", account.username, err)
		}
		if exists {
			continue
		}

		hash, err := s.hasher.Hash(ctx, account.password)
		if err != nil {
			return fmt.Errorf("hash password for %s: %w", account.username, err)
		}

		user := domain.NewUser(account.username, hash)
		for _, name := range account.roles {
			role, err := s.roles.FindByName(ctx, name)
			if err != nil {
				return fmt.Errorf("resolve role %s: %w", name, err)
			}
			user = user.WithRole(*role)
		}

		if _, err := s.users.Create(ctx, user); err != nil {
			// Another replica raced us past the existence check.
			if errors.Is(err, domain.ErrUsernameTaken) {
				continue
			}
			return fmt.Errorf("create account %s: %w", account.username, err)
		}
		s.log.Info().Str("username", account.username).Msg("seeded account")
	}
	return nil
}
