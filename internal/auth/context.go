package auth

import (
	"context"

	"missiondonate.org/internal/authz"
)

// Principal is a resolved session: who is acting and with which role.
type Principal struct {
	UserID string
	Role   authz.Role
}

type principalContextKey struct{}

// ContextWithPrincipal attaches the authenticated principal to the context.
func ContextWithPrincipal(ctx context.Context, principal Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, &principal)
}

// PrincipalFromContext extracts the authenticated principal. The second
// return value is false for anonymous requests; callers treat that the same
// as an unknown role.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	if ctx == nil {
		return Principal{}, false
	}
	v, ok := ctx.Value(principalContextKey{}).(*Principal)
	if !ok || v == nil {
		return Principal{}, false
	}
	return *v, true
}
