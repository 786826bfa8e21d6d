package middleware

import "context"

type contextKey string

const (
	ctxUserID   contextKey = "user_id"
	ctxRole     contextKey = "actor_role"
	ctxEmail    contextKey = "email"
	ctxAccessID contextKey = "access_id"
)

func UserIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxUserID).(string); ok {
		return v
	}
	return ""
}

func RoleFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxRole).(string); ok {
		return v
	}
	return ""
}

func EmailFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxEmail).(string); ok {
		return v
	}
	return ""
}

// AccessIDFromContext returns the token's jti, the handle to its session.
func AccessIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxAccessID).(string); ok {
		return v
	}
	return ""
}

// WithUserID injects the user identifier into the context.
func WithUserID(ctx context.Context, userID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxUserID, userID)
}

// WithRole injects the actor role into the context.
func WithRole(ctx context.Context, role string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxRole, role)
}

// WithEmail injects the actor email into the context.
func WithEmail(ctx context.Context, email string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxEmail, email)
}

// WithAccessID injects the session access id into the context.
func WithAccessID(ctx context.Context, accessID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxAccessID, accessID)
}
