package permissions

import (
	"campusroom/shared/constant"
	"campusroom/shared/failure"
	"context"
)

// NewContext stores the authenticated principal for downstream handlers.
func NewContext(ctx context.Context, principal Principal) context.Context {
	return context.WithValue(ctx, constant.ContextKeyPrincipal, principal)
}

// FromContext extracts the principal set by the auth middleware.
func FromContext(ctx context.Context) (Principal, error) {
	principal, ok := ctx.Value(constant.ContextKeyPrincipal).(Principal)
	if !ok || principal.UserID == "" {
		return Principal{}, failure.Unauthorized("missing authentication") // nolint:wrapcheck
	}

	return principal, nil
}
