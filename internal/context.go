package internal

import (
	"context"
	"time"
)

// Identity is the authenticated caller resolved by the auth middleware and
// passed explicitly through the request context. Permissions holds the
// caller's effective permission names, recomputed on every request.
type Identity struct {
	ID          int64
	Email       string
	Permissions []string
	TokenID     string
}

func (i *Identity) HasPermission(permission string) bool {
	for _, p := range i.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

func (i *Identity) HasAnyPermission(permissions []string) bool {
	for _, required := range permissions {
		if i.HasPermission(required) {
			return true
		}
	}
	return false
}

type ctxKey string

const contextIdentityKey ctxKey = "identity"

func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(contextIdentityKey).(*Identity)
	return id, ok
}

func ContextWithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, contextIdentityKey, id)
}

// WithTimeout returns a context with timeout, defaulting to 5 seconds if
// duration is zero or negative.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = 5 * time.Second
	}
	return context.WithTimeout(ctx, duration)
}
