package userctx

import (
	"context"

	"github.com/blogem/vendorflow/models"
	"github.com/blogem/vendorflow/workflow"
)

// Context key type
type contextKey string

const (
	userKey       contextKey = "user"
	membershipKey contextKey = "membership"
)

// SetUser adds the authenticated user to request context
func SetUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// GetUser retrieves the authenticated user, or nil
func GetUser(ctx context.Context) *models.User {
	user, _ := ctx.Value(userKey).(*models.User)
	return user
}

// GetUserEmail retrieves user email from request context
func GetUserEmail(ctx context.Context) string {
	if user := GetUser(ctx); user != nil && user.Email != "" {
		return user.Email
	}
	return "anonymous"
}

// GetUserID retrieves user ID from request context, 0 when anonymous
func GetUserID(ctx context.Context) int64 {
	if user := GetUser(ctx); user != nil {
		return user.ID
	}
	return 0
}

// SetMembership adds the user's membership in the current tenant
func SetMembership(ctx context.Context, m *models.Membership) context.Context {
	return context.WithValue(ctx, membershipKey, m)
}

// GetMembership retrieves the membership in the current tenant, or nil
func GetMembership(ctx context.Context) *models.Membership {
	m, _ := ctx.Value(membershipKey).(*models.Membership)
	return m
}

// Actor builds the workflow actor for the current request. Staff users and
// tenant owners/admins are elevated.
func Actor(ctx context.Context) workflow.Actor {
	user := GetUser(ctx)
	if user == nil {
		return workflow.Actor{}
	}
	elevated := user.IsStaff
	if m := GetMembership(ctx); m != nil && m.IsActive && m.Role.AtLeast(models.RoleAdmin) {
		elevated = true
	}
	return workflow.Actor{UserID: user.ID, Elevated: elevated}
}
