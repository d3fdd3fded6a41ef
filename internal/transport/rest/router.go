package rest

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/user-management/internal/auth"
	"github.com/frahmantamala/user-management/internal/authz"
	"github.com/frahmantamala/user-management/internal/permission"
	"github.com/frahmantamala/user-management/internal/ratelimit"
	"github.com/frahmantamala/user-management/internal/role"
	"github.com/frahmantamala/user-management/internal/transport/middleware"
	"github.com/frahmantamala/user-management/internal/transport/swagger"
	"github.com/frahmantamala/user-management/internal/user"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

// Permission names guarding the routes. The catalog is free-text; these
// are the labels the seeder installs.
const (
	PermViewUsers   = "view users"
	PermCreateUsers = "create users"
	PermEditUsers   = "edit users"
	PermDeleteUsers = "delete users"
	PermManageRoles = "manage roles"
	PermViewRoles   = "view roles"
	PermManagePerms = "manage permissions"
	PermViewPerms   = "view permissions"
)

// RegisterAllRoutes wires the full HTTP surface. Every guarded route
// declares its permission requirement here, in one place.
func RegisterAllRoutes(
	router *chi.Mux,
	db *sql.DB,
	authHandler *auth.Handler,
	userHandler *user.Handler,
	roleHandler *role.Handler,
	permissionHandler *permission.Handler,
	guard *authz.Guard,
	loginLimiter ratelimit.Limiter,
	logger *slog.Logger,
) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORS)
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	router.NotFound(notFoundHandler)
	router.MethodNotAllowed(methodNotAllowedHandler)

	// Serve OpenAPI document at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		// Public routes, rate limited per caller
		r.Group(func(pub chi.Router) {
			pub.Use(ratelimit.Middleware(loginLimiter, logger))
			pub.Post("/login", authHandler.Login)
			pub.Post("/register", authHandler.Register)
		})

		// Everything below requires a valid bearer token
		r.Group(func(pr chi.Router) {
			pr.Use(authHandler.AuthMiddleware)

			pr.Post("/logout", authHandler.Logout)
			pr.Get("/me", authHandler.Me)
			pr.Get("/user", authHandler.Me)

			pr.Route("/users", func(ur chi.Router) {
				ur.With(guard.Require(authz.AnyOf(PermViewUsers))).Get("/", userHandler.List)
				ur.With(guard.Require(authz.AnyOf(PermViewUsers))).Get("/stats/overview", userHandler.Stats)
				ur.With(guard.Require(authz.AnyOf(PermViewUsers))).Get("/{id}", userHandler.Get)
				ur.With(guard.Require(authz.AnyOf(PermCreateUsers))).Post("/", userHandler.Create)
				ur.With(guard.Require(authz.AnyOf(PermEditUsers))).Put("/{id}", userHandler.Update)
				ur.With(guard.Require(authz.AnyOf(PermDeleteUsers))).Delete("/{id}", userHandler.Delete)
			})

			pr.Route("/roles", func(rr chi.Router) {
				rr.With(guard.Require(authz.AnyOf(PermManageRoles, PermViewRoles))).Get("/", roleHandler.List)
				rr.With(guard.Require(authz.AnyOf(PermManageRoles, PermViewRoles))).Get("/{id}", roleHandler.Get)
				rr.With(guard.Require(authz.AnyOf(PermManageRoles))).Post("/", roleHandler.Create)
				rr.With(guard.Require(authz.AnyOf(PermManageRoles))).Put("/{id}", roleHandler.Update)
				rr.With(guard.Require(authz.AnyOf(PermManageRoles))).Delete("/{id}", roleHandler.Delete)
				rr.With(guard.Require(authz.AnyOf(PermManageRoles))).Post("/{id}/assign-user", roleHandler.AssignToUser)
				rr.With(guard.Require(authz.AnyOf(PermManageRoles))).Post("/{id}/remove-user", roleHandler.RemoveFromUser)
			})

			pr.Route("/permissions", func(pe chi.Router) {
				pe.With(guard.Require(authz.AnyOf(PermManageRoles, PermViewRoles, PermManagePerms, PermViewPerms))).
					Get("/all", permissionHandler.All)
				pe.With(guard.Require(authz.AnyOf(PermManagePerms))).Get("/grouped", permissionHandler.Grouped)
				pe.With(guard.Require(authz.AnyOf(PermManagePerms, PermViewPerms))).
					Get("/stats/overview", permissionHandler.Stats)

				pe.With(guard.Require(authz.AnyOf(PermManagePerms, PermViewPerms))).Get("/", permissionHandler.List)
				pe.With(guard.Require(authz.AnyOf(PermManagePerms, PermViewPerms))).Get("/{id}", permissionHandler.Get)
				pe.With(guard.Require(authz.AnyOf(PermManagePerms))).Post("/", permissionHandler.Create)
				pe.With(guard.Require(authz.AnyOf(PermManagePerms))).Put("/{id}", permissionHandler.Update)
				pe.With(guard.Require(authz.AnyOf(PermManagePerms))).Delete("/{id}", permissionHandler.Delete)
				pe.With(guard.Require(authz.AnyOf(PermManagePerms))).Post("/{id}/assign-user", permissionHandler.AssignToUser)
				pe.With(guard.Require(authz.AnyOf(PermManagePerms))).Delete("/{id}/remove-user", permissionHandler.RemoveFromUser)
			})
		})
	})
}

func notFoundHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"message": "route not found",
	})
}

func methodNotAllowedHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusMethodNotAllowed)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"message": "method not allowed",
	})
}
