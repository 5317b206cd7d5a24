package auth

import "context"

var _ Checker = (*LoginChecker)(nil)

type Checker interface {
	SessionUser(ctx context.Context, token string) (string, error)
}

type ctxKey int

const userIDCtxKey ctxKey = iota

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDCtxKey, userID)
}

// UserIDFromContext returns the authenticated user id set by the auth middleware.
func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDCtxKey).(string)
	return userID, ok && userID != ""
}
