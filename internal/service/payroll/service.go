package payroll

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
)

type DefaultsServiceImpl struct {
	defaultsRepo payroll.DefaultsRepository
	employeeRepo employee.EmployeeRepository
}

func NewDefaultsService(defaultsRepo payroll.DefaultsRepository, employeeRepo employee.EmployeeRepository) payroll.DefaultsService {
	return &DefaultsServiceImpl{
		defaultsRepo: defaultsRepo,
		employeeRepo: employeeRepo,
	}
}

// GetDefaults implements payroll.DefaultsService. When nothing is stored the
// response carries only the employee's Basic Salary and Stored is false.
func (s *DefaultsServiceImpl) GetDefaults(ctx context.Context, employeeID string) (payroll.DefaultsResponse, error) {
	if !validator.IsValidUUID(employeeID) {
		return payroll.DefaultsResponse{}, employee.ErrInvalidEmployeeID
	}

	emp, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		return payroll.DefaultsResponse{}, err
	}

	stored := true
	defaults, err := s.defaultsRepo.Get(ctx, employeeID)
	if err != nil {
		if !errors.Is(err, payroll.ErrDefaultsNotFound) {
			return payroll.DefaultsResponse{}, fmt.Errorf("failed to get payroll defaults: %w", err)
		}
		stored = false
		defaults = payroll.Defaults{EmployeeID: employeeID}
	}

	return payroll.ToResponse(defaults.WithBasicSalary(emp.MonthlySalary), stored), nil
}

// UpdateDefaults implements payroll.DefaultsService.
func (s *DefaultsServiceImpl) UpdateDefaults(ctx context.Context, req payroll.UpdateDefaultsRequest) (payroll.DefaultsResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.DefaultsResponse{}, err
	}

	if _, err := s.employeeRepo.GetByID(ctx, req.EmployeeID); err != nil {
		return payroll.DefaultsResponse{}, err
	}

	earnings, deductions := req.Items()
	saved, err := s.defaultsRepo.Upsert(ctx, payroll.Defaults{
		EmployeeID: req.EmployeeID,
		Earnings:   earnings,
		Deductions: deductions,
	})
	if err != nil {
		return payroll.DefaultsResponse{}, fmt.Errorf("failed to save payroll defaults: %w", err)
	}

	return payroll.ToResponse(saved, true), nil
}

// Resolve implements payroll.DefaultsService.
func (s *DefaultsServiceImpl) Resolve(ctx context.Context, emp employee.Employee) (payroll.Defaults, error) {
	defaults, err := s.defaultsRepo.Get(ctx, emp.ID)
	if err != nil {
		if !errors.Is(err, payroll.ErrDefaultsNotFound) {
			return payroll.Defaults{}, fmt.Errorf("failed to get payroll defaults: %w", err)
		}
		defaults = payroll.Defaults{EmployeeID: emp.ID}
	}
	return defaults.WithBasicSalary(emp.MonthlySalary), nil
}
