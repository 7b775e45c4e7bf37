package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/fab1/auth-service/internal/core/domain"
	"github.com/fab1/auth-service/internal/core/ports"
)

// AuthService implements credential verification, account lifecycle, and
// token issuance on top of the user and role stores.
type AuthService struct {
	users  ports.UserRepository
	roles  ports.RoleRepository
	hasher ports.PasswordHasher
	tokens ports.TokenIssuer
	log    zerolog.Logger
}

func NewAuthService(
	users ports.UserRepository,
	roles ports.RoleRepository,
	hasher ports.PasswordHasher,
	tokens ports.TokenIssuer,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{users: users, roles: roles, hasher: hasher, tokens: tokens, log: log}
}

// Authenticate verifies the credentials and issues a session token carrying
// the user's current role snapshot. The two failure kinds (unknown user,
// wrong password) stay distinguishable internally; the HTTP boundary
// collapses them into one generic message.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*domain.Session, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if !user.Enabled {
		return nil, domain.ErrInvalidCredentials
	}

	if err := s.hasher.Verify(ctx, password, user.PasswordHash); err != nil {
		s.log.Warn().Str("username", username).Msg("authentication failed")
		return nil, err
	}

	signed, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.log.Info().Str("username", username).Msg("authentication succeeded")
	return &domain.Session{Username: user.Username, Token: signed}, nil
}

// Register creates a new account with the named role attached. The
// existence check is advisory only: two concurrent registrations can both
// pass it, so the store's unique index is what actually enforces uniqueness
// and Create reports the conflict as domain.ErrUsernameTaken.
func (s *AuthService) Register(ctx context.Context, username, password, roleName string) (*domain.User, error) {
	exists, err := s.users.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if exists {
		return nil, domain.ErrUsernameTaken
	}

	role, err := s.roles.FindByName(ctx, roleName)
	if err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(ctx, password)
	if err != nil {
		return nil, err
	}

	user := domain.NewUser(username, hash).WithRole(*role)
	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("username", username).Str("role", roleName).Msg("user created")
	return created, nil
}

// DeleteAccount removes the user record.
func (s *AuthService) DeleteAccount(ctx context.Context, username string) error {
	if err := s.users.Delete(ctx, username); err != nil {
		return err
	}
	s.log.Info().Str("username", username).Msg("account deleted")
	return nil
}

// CurrentUser loads the user record backing a request identity.
func (s *AuthService) CurrentUser(ctx context.Context, username string) (*domain.User, error) {
	return s.users.FindByUsername(ctx, username)
}

// SetEnabled flips the account's enabled gate. Outstanding tokens keep
// their role snapshot, but the request gate re-derives authorities from the
// stored record, so a disabled account loses access immediately.
func (s *AuthService) SetEnabled(ctx context.Context, username string, enabled bool) (*domain.User, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	updated, err := s.users.Update(ctx, user.WithEnabled(enabled))
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("username", username).Bool("enabled", enabled).Msg("enabled flag updated")
	return updated, nil
}
