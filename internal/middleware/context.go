package middleware

import (
	"context"
	"net/http"
)

// context keys are unexported to avoid collisions
type ctxKey string

const ctxKeyRequestPath ctxKey = "req_path"

// WithRequestPath stores the current page path used for active link matching.
func WithRequestPath(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, ctxKeyRequestPath, path)
}

// RequestPath returns the current page path, "/" when unknown.
func RequestPath(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeyRequestPath).(string); ok && v != "" {
		return v
	}
	return "/"
}

// RequestInfo records the request path on the context.
func RequestInfo(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(WithRequestPath(r.Context(), r.URL.Path)))
	})
}
