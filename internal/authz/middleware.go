package authz

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/user-management/internal"
	"github.com/frahmantamala/user-management/internal/transport"
)

// Guard gates routes on declared permission requirements. The identity in
// the request context already carries its effective permission set, loaded
// fresh by the auth middleware on this same request.
type Guard struct {
	*transport.BaseHandler
}

func NewGuard(logger *slog.Logger) *Guard {
	return &Guard{BaseHandler: transport.NewBaseHandler(logger)}
}

// Require wraps a route with a permission requirement; unsatisfied
// requirements get a 403 without the underlying handler ever running.
func (g *Guard) Require(req Requirement) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := internal.IdentityFromContext(r.Context())
			if !ok || identity == nil {
				g.WriteError(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			if !req.Satisfied(identity.Permissions) {
				g.Logger.Warn("access denied: insufficient permissions",
					"user_id", identity.ID,
					"required_any_of", req.AnyOf,
					"user_permissions", identity.Permissions)
				g.WriteError(w, http.StatusForbidden, "insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
