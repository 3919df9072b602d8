package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"missiondonate.org/internal/authz"
)

func TestGenerateAndParse(t *testing.T) {
	tokens, err := NewTokens("test-secret", 15*time.Minute)
	if err != nil {
		t.Fatalf("NewTokens: %v", err)
	}

	signed, expiresAt, err := tokens.Generate("user-42", authz.RoleMissionary)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if time.Until(expiresAt) <= 0 {
		t.Fatalf("expected future expiration, got %v", expiresAt)
	}

	principal, err := tokens.Parse(signed)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if principal.UserID != "user-42" {
		t.Fatalf("unexpected subject: %s", principal.UserID)
	}
	if principal.Role != authz.RoleMissionary {
		t.Fatalf("unexpected role: %v", principal.Role)
	}
}

func TestParseRejectsTamperedToken(t *testing.T) {
	tokens, err := NewTokens("test-secret", time.Minute)
	if err != nil {
		t.Fatalf("NewTokens: %v", err)
	}
	signed, _, err := tokens.Generate("user-1", authz.RoleDonor)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	other, err := NewTokens("different-secret", time.Minute)
	if err != nil {
		t.Fatalf("NewTokens: %v", err)
	}
	if _, err := other.Parse(signed); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}

	mangled := signed[:len(signed)-2] + "xx"
	if _, err := tokens.Parse(mangled); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for mangled token, got %v", err)
	}
	if _, err := tokens.Parse(""); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for empty token, got %v", err)
	}
}

func TestParseExpiredToken(t *testing.T) {
	tokens, err := NewTokens("test-secret", time.Millisecond)
	if err != nil {
		t.Fatalf("NewTokens: %v", err)
	}
	signed, _, err := tokens.Generate("user-1", authz.RoleAdmin)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	time.Sleep(10 * time.Millisecond)
	if _, err := tokens.Parse(signed); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestGenerateRequiresKnownRole(t *testing.T) {
	tokens, err := NewTokens("test-secret", time.Minute)
	if err != nil {
		t.Fatalf("NewTokens: %v", err)
	}
	if _, _, err := tokens.Generate("user-1", authz.RoleUnknown); err == nil {
		t.Fatal("expected error for unknown role")
	}
	if _, _, err := tokens.Generate(" ", authz.RoleDonor); err == nil {
		t.Fatal("expected error for blank user")
	}
}

func TestContextPrincipal(t *testing.T) {
	ctx := context.Background()
	if _, ok := PrincipalFromContext(ctx); ok {
		t.Fatal("unexpected principal on empty context")
	}

	ctx = ContextWithPrincipal(ctx, Principal{UserID: "user-7", Role: authz.RoleDonor})
	principal, ok := PrincipalFromContext(ctx)
	if !ok || principal.UserID != "user-7" || principal.Role != authz.RoleDonor {
		t.Fatalf("unexpected principal: %+v, ok=%v", principal, ok)
	}
}

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret-pw")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if strings.Contains(hash, "s3cret-pw") {
		t.Fatal("hash leaks plaintext")
	}
	if err := VerifyPassword(hash, "s3cret-pw"); err != nil {
		t.Fatalf("VerifyPassword: %v", err)
	}
	if err := VerifyPassword(hash, "wrong"); err == nil {
		t.Fatal("expected mismatch error")
	}
	if _, err := HashPassword(""); err == nil {
		t.Fatal("expected error for empty password")
	}
}
