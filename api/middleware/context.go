package middleware

import "context"

type contextKey string

const (
	ctxEmployeeID contextKey = "employee_id"
	ctxRole       contextKey = "actor_role"
)

func EmployeeIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxEmployeeID).(string); ok {
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

// WithEmployeeID injects the acting employee identifier into the context.
func WithEmployeeID(ctx context.Context, employeeID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxEmployeeID, employeeID)
}

// WithRole injects the acting role into the context.
func WithRole(ctx context.Context, role string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxRole, role)
}
