// Package identity carries the authenticated caller between the transport and
// the services.
package identity

import (
	"context"

	"parking/shared/constant"
	"parking/shared/failure"
)

type Actor struct {
	ID    string
	Email string
	Role  string
}

func (a Actor) IsAdmin() bool {
	return a.Role == constant.RoleAdmin || a.Role == constant.RoleSuperAdmin
}

// Owns reports whether the actor is the given user.
func (a Actor) Owns(userID string) bool {
	return a.ID != "" && a.ID == userID
}

// FromContext reads the actor stored by the auth middleware.
func FromContext(ctx context.Context) (Actor, error) {
	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if userID == "" {
		return Actor{}, failure.Unauthorized("unauthorized")
	}

	email, _ := ctx.Value(constant.ContextKeyUserEmail).(string)
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)

	return Actor{ID: userID, Email: email, Role: role}, nil
}

// NewContext stores the actor the same way the auth middleware does.
func NewContext(ctx context.Context, actor Actor) context.Context {
	ctx = context.WithValue(ctx, constant.ContextKeyUserID, actor.ID)
	ctx = context.WithValue(ctx, constant.ContextKeyUserEmail, actor.Email)

	return context.WithValue(ctx, constant.ContextKeyUserRole, actor.Role)
}
