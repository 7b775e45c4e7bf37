package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/fab1/auth-service/internal/core/domain"
)

func testUser() *domain.User {
	u := domain.NewUser("alice", "$2a$10$irrelevant")
	u = u.WithRole(domain.Role{Name: domain.RoleAdmin})
	u = u.WithRole(domain.Role{Name: domain.RoleUser})
	u.ID = "user-1"
	return &u
}

func TestCodec_RoundTrip(t *testing.T) {
	codec := NewCodec("secret", time.Hour)

	signed, err := codec.Issue(testUser())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := codec.Parse(signed)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Subject != "alice" {
		t.Fatalf("expected subject alice, got %q", claims.Subject)
	}
	if claims.UserID != "user-1" {
		t.Fatalf("expected userId user-1, got %q", claims.UserID)
	}
	if claims.Roles != "ADMIN,USER" {
		t.Fatalf("unexpected roles snapshot: %q", claims.Roles)
	}
	names := claims.RoleNames()
	if len(names) != 2 || names[0] != "ADMIN" || names[1] != "USER" {
		t.Fatalf("unexpected role names: %v", names)
	}
}

func TestCodec_TamperedToken(t *testing.T) {
	codec := NewCodec("secret", time.Hour)

	signed, err := codec.Issue(testUser())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	// Flip one byte of the signature.
	tampered := []byte(signed)
	last := len(tampered) - 1
	if tampered[last] == 'A' {
		tampered[last] = 'B'
	} else {
		tampered[last] = 'A'
	}

	if _, err := codec.Parse(string(tampered)); err != ErrInvalid {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	if codec.Validate(string(tampered), "alice") {
		t.Fatalf("tampered token must not validate")
	}
}

func TestCodec_WrongKey(t *testing.T) {
	signed, err := NewCodec("secret-a", time.Hour).Issue(testUser())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := NewCodec("secret-b", time.Hour).Parse(signed); err != ErrInvalid {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestCodec_UnsupportedAlgorithm(t *testing.T) {
	codec := NewCodec("secret", time.Hour)

	// Token signed with "none" must be rejected before claims are read.
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "alice",
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := codec.Parse(unsigned); err != ErrInvalid {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestCodec_Malformed(t *testing.T) {
	codec := NewCodec("secret", time.Hour)
	if _, err := codec.Parse("not-a-token"); err != ErrInvalid {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestCodec_Expiry(t *testing.T) {
	codec := NewCodec("secret", 50*time.Millisecond)

	signed, err := codec.Issue(testUser())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if !codec.Validate(signed, "alice") {
		t.Fatalf("token must validate immediately after issuance")
	}

	time.Sleep(80 * time.Millisecond)

	if codec.Validate(signed, "alice") {
		t.Fatalf("token must not validate past its expiry")
	}
	if _, err := codec.Parse(signed); err != ErrExpired {
		t.Fatalf("expected ErrExpired, got %v", err)
	}
}

func TestCodec_Validate_SubjectMismatch(t *testing.T) {
	codec := NewCodec("secret", time.Hour)

	signed, err := codec.Issue(testUser())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if codec.Validate(signed, "bob") {
		t.Fatalf("token must not validate for a different subject")
	}
}

func TestCodec_IsExpired(t *testing.T) {
	codec := NewCodec("secret", time.Hour)

	live := &Claims{RegisteredClaims: jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	}}
	if codec.IsExpired(live) {
		t.Fatalf("claims with future expiry reported expired")
	}

	dead := &Claims{RegisteredClaims: jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	}}
	if !codec.IsExpired(dead) {
		t.Fatalf("claims with past expiry reported live")
	}

	if !codec.IsExpired(&Claims{}) {
		t.Fatalf("claims without expiry must count as expired")
	}
}
