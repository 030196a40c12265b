package middleware

import (
	"context"

	"github.com/Oleksa-32/car-sharing-app/pkg/enums"
	"github.com/google/uuid"
)

type contextKey string

const (
	ctxUserID contextKey = "user_id"
	ctxRole   contextKey = "actor_role"
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

// Actor is the authenticated caller resolved from the request context.
type Actor struct {
	UserID uuid.UUID
	Role   enums.Role
}

func (a Actor) IsManager() bool {
	return a.Role == enums.RoleManager
}

// ActorFromContext returns false when the request was not authenticated.
func ActorFromContext(ctx context.Context) (Actor, bool) {
	id, err := uuid.Parse(UserIDFromContext(ctx))
	if err != nil {
		return Actor{}, false
	}
	role := enums.Role(RoleFromContext(ctx))
	if !role.IsValid() {
		return Actor{}, false
	}
	return Actor{UserID: id, Role: role}, true
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
