package payroll

import "context"

type DefaultsRepository interface {
	// Get returns ErrDefaultsNotFound when nothing is stored for the employee.
	Get(ctx context.Context, employeeID string) (Defaults, error)
	Upsert(ctx context.Context, d Defaults) (Defaults, error)
}
