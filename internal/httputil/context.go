package httputil

import (
	"context"
	"net/http"
)

// Context key type to avoid collisions
type contextKey string

const (
	principalKey contextKey = "principal"
)

// WithPrincipal adds the authenticated principal to the request context
func WithPrincipal(r *http.Request, principal string) *http.Request {
	ctx := context.WithValue(r.Context(), principalKey, principal)
	return r.WithContext(ctx)
}

// GetPrincipal retrieves the principal from context, returns empty string if not found
func GetPrincipal(r *http.Request) string {
	principal, _ := r.Context().Value(principalKey).(string)
	return principal
}
