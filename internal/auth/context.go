package auth

import (
	"context"
	"net/http"
)

type contextKey string

const userIDKey contextKey = "user_id"

// WithUserID returns a copy of ctx carrying the authenticated user's id.
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserID extracts the authenticated user's id from ctx, or 0.
func UserID(ctx context.Context) int64 {
	id, ok := ctx.Value(userIDKey).(int64)
	if !ok {
		return 0
	}
	return id
}

// IsAuthenticated reports whether the request carries a logged-in user.
func IsAuthenticated(r *http.Request) bool {
	return UserID(r.Context()) != 0
}
