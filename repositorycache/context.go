package repositorycache

import (
	"context"

	"github.com/google/uuid"
)

type requestIDContextKey struct{}

// WithRequestID attaches a correlation id that accessors add to their log lines and
// to the errors they return. An empty id leaves ctx unchanged.
func WithRequestID(ctx context.Context, id string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDContextKey{}, id)
}

// RequestIDFromContext returns the id set by WithRequestID, if any.
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(requestIDContextKey{}).(string); ok {
		return id
	}
	return ""
}

// ensureRequestID returns ctx carrying a request id, generating one when missing.
func ensureRequestID(ctx context.Context) (context.Context, string) {
	if id := RequestIDFromContext(ctx); id != "" {
		return ctx, id
	}
	id := uuid.NewString()
	return WithRequestID(ctx, id), id
}
