package httpx

import (
	"context"

	domainauth "github.com/inkwell-ai/inkwell-api/internal/domain/auth"
)

// sessionContextKey is an unexported context key type to avoid collisions.
type sessionContextKey struct{}

// SetSessionInContext stores the authenticated session in the request context.
func SetSessionInContext(ctx context.Context, session *domainauth.Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, session)
}

// SessionFromContext retrieves the authenticated session from the context,
// or nil when the request was not authenticated.
func SessionFromContext(ctx context.Context) *domainauth.Session {
	session, _ := ctx.Value(sessionContextKey{}).(*domainauth.Session)
	return session
}
