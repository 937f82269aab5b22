package employee

import (
	"context"

	"github.com/shopspring/decimal"
)

type EmployeeRepository interface {
	Create(ctx context.Context, newEmployee Employee) (Employee, error)
	GetByID(ctx context.Context, id string) (Employee, error)
	// GetByIDForUpdate locks the row until the surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, id string) (Employee, error)
	GetByCode(ctx context.Context, employeeCode string) (Employee, error)
	List(ctx context.Context, filter EmployeeFilter) ([]Employee, int64, error)
	// ListForPayroll returns the given employees, or every Active employee
	// when ids is empty, ordered by full name.
	ListForPayroll(ctx context.Context, ids []string) ([]Employee, error)
	Update(ctx context.Context, e Employee) (Employee, error)
	UpdateSalary(ctx context.Context, id string, salary decimal.Decimal) error
	Delete(ctx context.Context, id string) error
}
