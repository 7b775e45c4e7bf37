package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/fab1/auth-service/internal/core/domain"
	"github.com/fab1/auth-service/internal/token"
)

type stubUserRepo struct {
	users map[string]*domain.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.Roles = append([]domain.Role(nil), u.Roles...)
	return &clone
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	u, ok := r.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) ExistsByUsername(_ context.Context, username string) (bool, error) {
	_, ok := r.users[username]
	return ok, nil
}

func (r *stubUserRepo) Create(_ context.Context, user domain.User) (*domain.User, error) {
	if _, exists := r.users[user.Username]; exists {
		return nil, domain.ErrUsernameTaken
	}
	stored := cloneUser(&user)
	if stored.ID == "" {
		stored.ID = user.Username
	}
	r.users[stored.Username] = stored
	return cloneUser(stored), nil
}

func (r *stubUserRepo) Update(_ context.Context, user domain.User) (*domain.User, error) {
	if _, exists := r.users[user.Username]; !exists {
		return nil, domain.ErrUserNotFound
	}
	r.users[user.Username] = cloneUser(&user)
	return cloneUser(&user), nil
}

func (r *stubUserRepo) Delete(_ context.Context, username string) error {
	if _, exists := r.users[username]; !exists {
		return domain.ErrUserNotFound
	}
	delete(r.users, username)
	return nil
}

func (r *stubUserRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.users)), nil
}

type stubRoleRepo struct {
	roles map[string]domain.Role
}

func newStubRoleRepo(names ...string) *stubRoleRepo {
	r := &stubRoleRepo{roles: make(map[string]domain.Role)}
	for _, name := range names {
		r.roles[name] = domain.Role{ID: name, Name: name}
	}
	return r
}

func (r *stubRoleRepo) FindByName(_ context.Context, name string) (*domain.Role, error) {
	role, ok := r.roles[name]
	if !ok {
		return nil, domain.ErrRoleNotFound
	}
	return &role, nil
}

func (r *stubRoleRepo) ExistsByName(_ context.Context, name string) (bool, error) {
	_, ok := r.roles[name]
	return ok, nil
}

func (r *stubRoleRepo) Create(_ context.Context, role domain.Role) (*domain.Role, error) {
	r.roles[role.Name] = role
	return &role, nil
}

func newTestService() (*AuthService, *stubUserRepo, *token.Codec) {
	users := newStubUserRepo()
	roles := newStubRoleRepo(domain.RoleUser, domain.RoleAdmin, domain.RoleModerator)
	hasher := NewBcryptHasher(bcrypt.MinCost, 4)
	codec := token.NewCodec("test-secret", time.Hour)
	svc := NewAuthService(users, roles, hasher, codec, zerolog.Nop())
	return svc, users, codec
}

func TestAuthService_RegisterAndAuthenticate(t *testing.T) {
	svc, _, codec := newTestService()
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice", "pass123", domain.RoleUser)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.PasswordHash == "pass123" || user.PasswordHash == "" {
		t.Fatalf("password must be stored hashed")
	}
	if !user.HasRole(domain.RoleUser) {
		t.Fatalf("expected USER role attached, got %v", user.RoleNames())
	}
	if !user.Enabled {
		t.Fatalf("new accounts must start enabled")
	}

	session, err := svc.Authenticate(ctx, "alice", "pass123")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if session.Username != "alice" || session.Token == "" {
		t.Fatalf("unexpected session: %+v", session)
	}
	if !codec.Validate(session.Token, "alice") {
		t.Fatalf("issued token must validate for its subject")
	}

	claims, err := codec.Parse(session.Token)
	if err != nil {
		t.Fatalf("parse issued token: %v", err)
	}
	if claims.Roles != domain.RoleUser {
		t.Fatalf("expected roles snapshot %q, got %q", domain.RoleUser, claims.Roles)
	}
	if claims.UserID != user.ID {
		t.Fatalf("expected userId %q, got %q", user.ID, claims.UserID)
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	svc, users, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, "bob", "pass123", domain.RoleUser); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Register(ctx, "bob", "other456", domain.RoleUser); err != domain.ErrUsernameTaken {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}

	// First registration is unaffected.
	stored, err := users.FindByUsername(ctx, "bob")
	if err != nil {
		t.Fatalf("find after duplicate register: %v", err)
	}
	if _, err := svc.Authenticate(ctx, "bob", "pass123"); err != nil {
		t.Fatalf("original credentials must still work: %v", err)
	}
	if stored.Username != "bob" {
		t.Fatalf("unexpected stored user: %+v", stored)
	}
}

func TestAuthService_Register_RoleNotFound(t *testing.T) {
	svc, _, _ := newTestService()

	if _, err := svc.Register(context.Background(), "carol", "pass123", "SUPERUSER"); err != domain.ErrRoleNotFound {
		t.Fatalf("expected ErrRoleNotFound, got %v", err)
	}
}

func TestAuthService_Authenticate_Failures(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, "dave", "goodpass", domain.RoleUser); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := svc.Authenticate(ctx, "dave", "badpass"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Authenticate(ctx, "ghost", "whatever"); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if _, err := svc.Authenticate(ctx, "", ""); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for empty input, got %v", err)
	}
}

func TestAuthService_Authenticate_DisabledUser(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, "erin", "pass123", domain.RoleUser); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.SetEnabled(ctx, "erin", false); err != nil {
		t.Fatalf("disable: %v", err)
	}

	if _, err := svc.Authenticate(ctx, "erin", "pass123"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for disabled account, got %v", err)
	}
}

func TestAuthService_DisableKeepsTokenSnapshot(t *testing.T) {
	svc, _, codec := newTestService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, "frank", "pass123", domain.RoleAdmin); err != nil {
		t.Fatalf("register: %v", err)
	}
	session, err := svc.Authenticate(ctx, "frank", "pass123")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if _, err := svc.SetEnabled(ctx, "frank", false); err != nil {
		t.Fatalf("disable: %v", err)
	}

	// The signed snapshot is immutable: the ADMIN role is still inside the
	// claims even though the stored record is now disabled.
	claims, err := codec.Parse(session.Token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Roles != domain.RoleAdmin {
		t.Fatalf("snapshot changed after disable: %q", claims.Roles)
	}

	stored, err := svc.CurrentUser(ctx, "frank")
	if err != nil {
		t.Fatalf("current user: %v", err)
	}
	if stored.Enabled {
		t.Fatalf("user must be disabled")
	}
}

func TestAuthService_DeleteAccount(t *testing.T) {
	svc, users, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, "grace", "pass123", domain.RoleUser); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := svc.DeleteAccount(ctx, "grace"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := users.FindByUsername(ctx, "grace"); err != domain.ErrUserNotFound {
		t.Fatalf("expected user gone, got %v", err)
	}
	if err := svc.DeleteAccount(ctx, "grace"); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound on second delete, got %v", err)
	}
}
