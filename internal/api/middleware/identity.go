package middleware

import (
	"context"
	"net/http"
)

type contextKey string

const (
	identityUserKey contextKey = "identity.user"
	identityRoleKey contextKey = "identity.role"

	headerUserID   = "X-User-Id"
	headerUserRole = "X-User-Role"
)

// IdentityMiddleware copies upstream-provided identity headers into the
// request context. Authentication itself happens upstream; the server only
// surfaces who the caller claims to be, for logging and affordance gating.
func IdentityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if user := r.Header.Get(headerUserID); user != "" {
			ctx = context.WithValue(ctx, identityUserKey, user)
		}
		if role := r.Header.Get(headerUserRole); role != "" {
			ctx = context.WithValue(ctx, identityRoleKey, role)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserFromContext returns the caller id surfaced by IdentityMiddleware.
func UserFromContext(ctx context.Context) (string, bool) {
	user, ok := ctx.Value(identityUserKey).(string)
	return user, ok
}

// RoleFromContext returns the caller role surfaced by IdentityMiddleware.
func RoleFromContext(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(identityRoleKey).(string)
	return role, ok
}
