package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const employeeColumns = `id, employee_code, full_name, email, phone, designation, department,
	monthly_salary, currency, joining_date, leaving_date, probation_end_date, status,
	bank_name, bank_account_number, payment_method, created_at, updated_at`

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var emp employee.Employee
	err := row.Scan(
		&emp.ID, &emp.EmployeeCode, &emp.FullName, &emp.Email, &emp.Phone, &emp.Designation,
		&emp.Department, &emp.MonthlySalary, &emp.Currency, &emp.JoiningDate, &emp.LeavingDate,
		&emp.ProbationEndDate, &emp.Status, &emp.BankName, &emp.BankAccountNumber,
		&emp.PaymentMethod, &emp.CreatedAt, &emp.UpdatedAt,
	)
	return emp, err
}

func mapEmployeeWriteError(err error) error {
	switch code, _ := pgErrorCode(err); code {
	case pgUniqueViolation:
		return employee.ErrEmployeeCodeExists
	case pgForeignKeyViolation:
		return employee.ErrEmployeeHasPayslips
	}
	return nil
}

// Create implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	if newEmployee.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return employee.Employee{}, fmt.Errorf("failed to generate employee id: %w", err)
		}
		newEmployee.ID = id.String()
	}

	query := `
		INSERT INTO employees (
			id, employee_code, full_name, email, phone, designation, department,
			monthly_salary, currency, joining_date, leaving_date, probation_end_date, status,
			bank_name, bank_account_number, payment_method
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING ` + employeeColumns

	created, err := scanEmployee(q.QueryRow(ctx, query,
		newEmployee.ID, newEmployee.EmployeeCode, newEmployee.FullName, newEmployee.Email,
		newEmployee.Phone, newEmployee.Designation, newEmployee.Department,
		newEmployee.MonthlySalary, newEmployee.Currency, newEmployee.JoiningDate,
		newEmployee.LeavingDate, newEmployee.ProbationEndDate, newEmployee.Status,
		newEmployee.BankName, newEmployee.BankAccountNumber, newEmployee.PaymentMethod,
	))
	if err != nil {
		if mapped := mapEmployeeWriteError(err); mapped != nil {
			return employee.Employee{}, mapped
		}
		return employee.Employee{}, fmt.Errorf("failed to create employee: %w", err)
	}

	return created, nil
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	return r.getOne(ctx, "SELECT "+employeeColumns+" FROM employees WHERE id = $1", id)
}

// GetByIDForUpdate implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByIDForUpdate(ctx context.Context, id string) (employee.Employee, error) {
	return r.getOne(ctx, "SELECT "+employeeColumns+" FROM employees WHERE id = $1 FOR UPDATE", id)
}

// GetByCode implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByCode(ctx context.Context, employeeCode string) (employee.Employee, error) {
	return r.getOne(ctx, "SELECT "+employeeColumns+" FROM employees WHERE employee_code = $1", employeeCode)
}

func (r *employeeRepositoryImpl) getOne(ctx context.Context, query string, arg string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	emp, err := scanEmployee(q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee %s: %w", arg, err)
	}
	return emp, nil
}

// List implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) List(ctx context.Context, filter employee.EmployeeFilter) ([]employee.Employee, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"TRUE"}
	var args []interface{}
	argIdx := 1

	if filter.Status != nil && *filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.Search != nil && *filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(full_name ILIKE $%d OR employee_code ILIKE $%d OR email ILIKE $%d)", argIdx, argIdx, argIdx))
		args = append(args, "%"+*filter.Search+"%")
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM employees WHERE "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count employees: %w", err)
	}

	offset := (filter.Page - 1) * filter.Limit
	query := fmt.Sprintf(`
		SELECT %s
		FROM employees
		WHERE %s
		ORDER BY full_name ASC, employee_code ASC
		LIMIT $%d OFFSET $%d
	`, employeeColumns, whereClause, argIdx, argIdx+1)
	args = append(args, filter.Limit, offset)

	employees, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list employees: %w", err)
	}
	return employees, total, nil
}

// ListForPayroll implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) ListForPayroll(ctx context.Context, ids []string) ([]employee.Employee, error) {
	var (
		employees []employee.Employee
		err       error
	)
	if len(ids) == 0 {
		employees, err = r.query(ctx,
			"SELECT "+employeeColumns+" FROM employees WHERE status = $1 ORDER BY full_name ASC, employee_code ASC",
			employee.StatusActive)
	} else {
		employees, err = r.query(ctx,
			"SELECT "+employeeColumns+" FROM employees WHERE id::text = ANY($1::text[]) ORDER BY full_name ASC, employee_code ASC",
			ids)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list employees for payroll: %w", err)
	}
	return employees, nil
}

func (r *employeeRepositoryImpl) query(ctx context.Context, query string, args ...interface{}) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return employees, nil
}

// Update implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Update(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE employees SET
			employee_code = $2, full_name = $3, email = $4, phone = $5, designation = $6,
			department = $7, monthly_salary = $8, currency = $9, joining_date = $10,
			leaving_date = $11, probation_end_date = $12, status = $13, bank_name = $14,
			bank_account_number = $15, payment_method = $16, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + employeeColumns

	updated, err := scanEmployee(q.QueryRow(ctx, query,
		e.ID, e.EmployeeCode, e.FullName, e.Email, e.Phone, e.Designation, e.Department,
		e.MonthlySalary, e.Currency, e.JoiningDate, e.LeavingDate, e.ProbationEndDate,
		e.Status, e.BankName, e.BankAccountNumber, e.PaymentMethod,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		if mapped := mapEmployeeWriteError(err); mapped != nil {
			return employee.Employee{}, mapped
		}
		return employee.Employee{}, fmt.Errorf("failed to update employee %s: %w", e.ID, err)
	}
	return updated, nil
}

// UpdateSalary implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) UpdateSalary(ctx context.Context, id string, salary decimal.Decimal) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, "UPDATE employees SET monthly_salary = $2, updated_at = NOW() WHERE id = $1", id, salary)
	if err != nil {
		return fmt.Errorf("failed to update salary for employee %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// Delete implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, "DELETE FROM employees WHERE id = $1", id)
	if err != nil {
		if mapped := mapEmployeeWriteError(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("failed to delete employee %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}
