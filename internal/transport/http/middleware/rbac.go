package middleware

import (
	"context"
	"net/http"

	"herohub/internal/domain/authz"
	"herohub/internal/transport/http/api"
)

type PermissionResolver interface {
	Resolve(ctx context.Context, tenantID string, role authz.Role) (authz.ModulePermissionSet, error)
}

// RequireModule gates a route on the caller's resolved module permission.
// Admins carry full permission sets from the resolver, so there is no
// special-cased bypass here.
func RequireModule(resolver PermissionResolver, module string, action authz.Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := GetUser(r.Context())
			if !ok {
				api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", GetRequestID(r.Context()))
				return
			}

			perms, err := resolver.Resolve(r.Context(), user.TenantID, authz.ParseRole(user.Role))
			if err != nil {
				api.Fail(w, http.StatusInternalServerError, "permission_error", "permission check failed", GetRequestID(r.Context()))
				return
			}
			if !perms.Allows(module, action) {
				api.Fail(w, http.StatusForbidden, "forbidden", "insufficient permissions", GetRequestID(r.Context()))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
