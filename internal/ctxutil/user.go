// Package ctxutil carries the acting user through a context.Context.
// It depends on nothing internal so any layer can import it.
package ctxutil

import "context"

// UserKey keys the user ID in a context.
type UserKey struct{}

// WithUserID attaches a user ID to the context.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, UserKey{}, userID)
}

// UserFromContext extracts the user ID, or "" when no user is attached.
func UserFromContext(ctx context.Context) string {
	if v := ctx.Value(UserKey{}); v != nil {
		return v.(string)
	}
	return ""
}
