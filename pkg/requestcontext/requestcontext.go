// Package requestcontext carries request-scoped values through context.Context.
package requestcontext

import "context"

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	clientKeyKey contextKey = "client_key"
)

// WithRequestID stores the request ID on the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestID returns the request ID, or "" when none was set.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// WithClientKey stores the key used to attribute the request to a caller
// (verified subject or remote address).
func WithClientKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, clientKeyKey, key)
}

// ClientKey returns the caller key, or "" when none was set.
func ClientKey(ctx context.Context) string {
	key, _ := ctx.Value(clientKeyKey).(string)
	return key
}
