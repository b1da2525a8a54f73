package user

import "context"

type contextKey string

const principalContextKey contextKey = "principal"

// WithPrincipal returns a copy of ctx carrying the authenticated user.
func WithPrincipal(ctx context.Context, u PublicUser) context.Context {
	return context.WithValue(ctx, principalContextKey, u)
}

// PrincipalFromContext returns the authenticated user stored by the auth
// middleware.
func PrincipalFromContext(ctx context.Context) (PublicUser, bool) {
	u, ok := ctx.Value(principalContextKey).(PublicUser)
	return u, ok
}
