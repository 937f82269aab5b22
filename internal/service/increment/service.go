package increment

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/audit"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/increment"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
)

type IncrementServiceImpl struct {
	tx            database.Transactor
	employeeRepo  employee.EmployeeRepository
	incrementRepo increment.IncrementRepository
	audit         audit.Recorder
}

func NewIncrementService(tx database.Transactor, employeeRepo employee.EmployeeRepository, incrementRepo increment.IncrementRepository, recorder audit.Recorder) increment.IncrementService {
	return &IncrementServiceImpl{
		tx:            tx,
		employeeRepo:  employeeRepo,
		incrementRepo: incrementRepo,
		audit:         recorder,
	}
}

// CreateIncrement implements increment.IncrementService. The employee row is
// locked so concurrent increments derive from the latest salary.
func (s *IncrementServiceImpl) CreateIncrement(ctx context.Context, req increment.CreateIncrementRequest) (resp increment.IncrementResponse, err error) {
	if err := req.Validate(); err != nil {
		return increment.IncrementResponse{}, err
	}

	defer func() {
		detail := ""
		if err == nil {
			detail = fmt.Sprintf("%s -> %s", resp.OldSalary.StringFixed(2), resp.NewSalary.StringFixed(2))
		}
		s.audit.Record(ctx, audit.ActionIncrementCreate, "employee", req.EmployeeID, err, detail)
	}()

	var created increment.Entry
	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		emp, err := s.employeeRepo.GetByIDForUpdate(txCtx, req.EmployeeID)
		if err != nil {
			return err
		}

		amount, percentage, newSalary, err := increment.Derive(emp.MonthlySalary, req.Change())
		if err != nil {
			return validator.Tag(validator.ValidationErrors{{Field: "increment", Message: err.Error()}}, err)
		}

		actor := audit.ActorFromContext(ctx)
		created, err = s.incrementRepo.Create(txCtx, increment.Entry{
			EmployeeID:          emp.ID,
			OldSalary:           emp.MonthlySalary,
			NewSalary:           newSalary,
			IncrementAmount:     amount,
			IncrementPercentage: percentage,
			EffectiveDate:       req.ParsedEffectiveDate(),
			Reason:              req.Reason,
			CreatedBy:           &actor,
		})
		if err != nil {
			return fmt.Errorf("failed to create increment: %w", err)
		}

		if err := s.employeeRepo.UpdateSalary(txCtx, emp.ID, newSalary); err != nil {
			return fmt.Errorf("failed to update salary: %w", err)
		}
		return nil
	})
	if err != nil {
		return increment.IncrementResponse{}, err
	}

	return increment.ToResponse(created), nil
}

// ListIncrements implements increment.IncrementService, newest first.
func (s *IncrementServiceImpl) ListIncrements(ctx context.Context, employeeID string) ([]increment.IncrementResponse, error) {
	if !validator.IsValidUUID(employeeID) {
		return nil, employee.ErrInvalidEmployeeID
	}
	if _, err := s.employeeRepo.GetByID(ctx, employeeID); err != nil {
		return nil, err
	}

	entries, err := s.incrementRepo.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list increments: %w", err)
	}

	responses := make([]increment.IncrementResponse, 0, len(entries))
	for _, e := range entries {
		responses = append(responses, increment.ToResponse(e))
	}
	return responses, nil
}
