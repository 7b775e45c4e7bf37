package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/rs/zerolog"

	"github.com/fab1/auth-service/internal/core/domain"
)

func TestUserHandler_Create(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, username, password, roleName string) (*domain.User, error) {
			if roleName != domain.RoleModerator {
				t.Fatalf("expected MODERATOR role, got %s", roleName)
			}
			u := domain.NewUser(username, "hash").WithRole(domain.Role{Name: roleName})
			return &u, nil
		},
	}
	h := NewUserHandler(stub, zerolog.Nop())

	c, rec := newTestContext(t, http.MethodPost, "/users/create",
		`{"username":"mod","password":"secret123","role":"MODERATOR"}`)
	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	resp := decodeBody(t, rec)
	if resp["username"] != "mod" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestUserHandler_Create_UnknownRole(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, username, password, roleName string) (*domain.User, error) {
			return nil, domain.ErrRoleNotFound
		},
	}
	h := NewUserHandler(stub, zerolog.Nop())

	c, rec := newTestContext(t, http.MethodPost, "/users/create",
		`{"username":"someone","password":"secret123","role":"SUPERUSER"}`)
	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestUserHandler_Create_LowercaseRoleRejected(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, username, password, roleName string) (*domain.User, error) {
			t.Fatalf("service must not be called")
			return nil, nil
		},
	}
	h := NewUserHandler(stub, zerolog.Nop())

	c, rec := newTestContext(t, http.MethodPost, "/users/create",
		`{"username":"someone","password":"secret123","role":"admin"}`)
	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
