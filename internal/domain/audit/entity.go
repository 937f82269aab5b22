package audit

import (
	"context"
	"time"
)

const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

const (
	ActionPayslipGenerate = "payslip.generate"
	ActionPayslipSend     = "payslip.send"
	ActionPayslipDelete   = "payslip.delete"
	ActionPayslipExport   = "payslip.export"
	ActionIncrementCreate = "increment.create"
	ActionEmployeeDelete  = "employee.delete"
	ActionPunchImport     = "attendance.punch_import"
	ActionReconcile       = "payslip.reconcile"
)

type Entry struct {
	ID         int64
	Actor      string
	Action     string
	EntityType string
	EntityID   *string
	Status     string
	Detail     *string
	CreatedAt  time.Time
}

type actorKey struct{}

// WithActor stores the acting user's identity on ctx.
func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFromContext returns the acting user or "system".
func ActorFromContext(ctx context.Context) string {
	if actor, ok := ctx.Value(actorKey{}).(string); ok && actor != "" {
		return actor
	}
	return "system"
}
