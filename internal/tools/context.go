package tools

import "context"

type contextKey struct{}

var userHandleKey contextKey

// WithUserHandle tags a context with the requesting user's handle so tools
// can resolve the user's wallet.
func WithUserHandle(ctx context.Context, handle string) context.Context {
	return context.WithValue(ctx, userHandleKey, handle)
}

// UserHandleFromContext extracts the requesting user's handle.
func UserHandleFromContext(ctx context.Context) (string, bool) {
	handle, ok := ctx.Value(userHandleKey).(string)
	return handle, ok && handle != ""
}
