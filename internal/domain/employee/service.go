package employee

import "context"

// EmployeeService defines business logic for employee records
type EmployeeService interface {
	CreateEmployee(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)
	GetEmployee(ctx context.Context, id string) (EmployeeResponse, error)
	ListEmployees(ctx context.Context, filter EmployeeFilter) (ListEmployeeResponse, error)
	UpdateEmployee(ctx context.Context, req UpdateEmployeeRequest) (EmployeeResponse, error)
	// DeleteEmployee fails with ErrEmployeeHasPayslips once payslips reference the employee.
	DeleteEmployee(ctx context.Context, id string) error
}
