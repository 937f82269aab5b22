package employee

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/audit"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
)

type EmployeeServiceImpl struct {
	employeeRepo    employee.EmployeeRepository
	audit           audit.Recorder
	defaultCurrency string
}

func NewEmployeeService(employeeRepo employee.EmployeeRepository, recorder audit.Recorder, defaultCurrency string) employee.EmployeeService {
	return &EmployeeServiceImpl{
		employeeRepo:    employeeRepo,
		audit:           recorder,
		defaultCurrency: defaultCurrency,
	}
}

// CreateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) CreateEmployee(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	currency := strings.ToUpper(req.Currency)
	if currency == "" {
		currency = s.defaultCurrency
	}

	created, err := s.employeeRepo.Create(ctx, employee.Employee{
		EmployeeCode:      req.EmployeeCode,
		FullName:          req.FullName,
		Email:             normalizeEmail(req.Email),
		Phone:             req.Phone,
		Designation:       req.Designation,
		Department:        req.Department,
		MonthlySalary:     req.MonthlySalary.Round(2),
		Currency:          currency,
		JoiningDate:       employee.ParseOptionalDate(req.JoiningDate),
		LeavingDate:       employee.ParseOptionalDate(req.LeavingDate),
		ProbationEndDate:  employee.ParseOptionalDate(req.ProbationEndDate),
		Status:            employee.Status(req.Status),
		BankName:          req.BankName,
		BankAccountNumber: req.BankAccountNumber,
		PaymentMethod:     req.PaymentMethod,
	})
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	return employee.ToResponse(created), nil
}

// GetEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetEmployee(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	emp, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.ToResponse(emp), nil
}

// ListEmployees implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ListEmployees(ctx context.Context, filter employee.EmployeeFilter) (employee.ListEmployeeResponse, error) {
	if err := filter.Validate(); err != nil {
		return employee.ListEmployeeResponse{}, err
	}

	employees, total, err := s.employeeRepo.List(ctx, filter)
	if err != nil {
		return employee.ListEmployeeResponse{}, fmt.Errorf("failed to list employees: %w", err)
	}

	responses := make([]employee.EmployeeResponse, 0, len(employees))
	for _, emp := range employees {
		responses = append(responses, employee.ToResponse(emp))
	}

	totalPages := int(math.Ceil(float64(total) / float64(filter.Limit)))
	showing := fmt.Sprintf("%d-%d of %d", (filter.Page-1)*filter.Limit+1, min(filter.Page*filter.Limit, int(total)), total)
	if total == 0 {
		showing = "0 of 0"
	}

	return employee.ListEmployeeResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
		Showing:    showing,
		Employees:  responses,
	}, nil
}

// UpdateEmployee implements employee.EmployeeService. Salary changes made here
// bypass the increment ledger; use increments to keep a history.
func (s *EmployeeServiceImpl) UpdateEmployee(ctx context.Context, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.ID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	if req.EmployeeCode != nil {
		emp.EmployeeCode = strings.TrimSpace(*req.EmployeeCode)
	}
	if req.FullName != nil {
		emp.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.Email != nil {
		emp.Email = normalizeEmail(req.Email)
	}
	if req.Phone != nil {
		emp.Phone = emptyToNil(req.Phone)
	}
	if req.Designation != nil {
		emp.Designation = emptyToNil(req.Designation)
	}
	if req.Department != nil {
		emp.Department = emptyToNil(req.Department)
	}
	if req.MonthlySalary != nil {
		emp.MonthlySalary = req.MonthlySalary.Round(2)
	}
	if req.Currency != nil {
		emp.Currency = strings.ToUpper(*req.Currency)
	}
	if req.JoiningDate != nil {
		emp.JoiningDate = employee.ParseOptionalDate(req.JoiningDate)
	}
	if req.LeavingDate != nil {
		emp.LeavingDate = employee.ParseOptionalDate(req.LeavingDate)
	}
	if req.ProbationEndDate != nil {
		emp.ProbationEndDate = employee.ParseOptionalDate(req.ProbationEndDate)
	}
	if req.Status != nil {
		emp.Status = employee.Status(*req.Status)
	}
	if req.BankName != nil {
		emp.BankName = emptyToNil(req.BankName)
	}
	if req.BankAccountNumber != nil {
		emp.BankAccountNumber = emptyToNil(req.BankAccountNumber)
	}
	if req.PaymentMethod != nil {
		emp.PaymentMethod = *req.PaymentMethod
	}

	if emp.JoiningDate != nil && emp.LeavingDate != nil && emp.LeavingDate.Before(*emp.JoiningDate) {
		return employee.EmployeeResponse{}, validator.ValidationErrors{{Field: "leaving_date", Message: "leaving_date must not be before joining_date"}}
	}

	updated, err := s.employeeRepo.Update(ctx, emp)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.ToResponse(updated), nil
}

// DeleteEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) DeleteEmployee(ctx context.Context, id string) error {
	err := s.employeeRepo.Delete(ctx, id)
	s.audit.Record(ctx, audit.ActionEmployeeDelete, "employee", id, err, "")
	return err
}

func normalizeEmail(email *string) *string {
	if email == nil {
		return nil
	}
	e := strings.ToLower(strings.TrimSpace(*email))
	if e == "" {
		return nil
	}
	return &e
}

func emptyToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
