package payroll

import (
	"context"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/employee"
)

type DefaultsService interface {
	GetDefaults(ctx context.Context, employeeID string) (DefaultsResponse, error)
	UpdateDefaults(ctx context.Context, req UpdateDefaultsRequest) (DefaultsResponse, error)
	// Resolve loads the grid used at generation time, with the Basic Salary
	// line guaranteed.
	Resolve(ctx context.Context, emp employee.Employee) (Defaults, error)
}
