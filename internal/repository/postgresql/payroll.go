package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type defaultsRepositoryImpl struct {
	db *database.DB
}

func NewPayrollDefaultsRepository(db *database.DB) payroll.DefaultsRepository {
	return &defaultsRepositoryImpl{db: db}
}

// Get implements payroll.DefaultsRepository.
func (r *defaultsRepositoryImpl) Get(ctx context.Context, employeeID string) (payroll.Defaults, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT employee_id, earnings, deductions, updated_at FROM payroll_defaults WHERE employee_id = $1`

	d, err := scanDefaults(q.QueryRow(ctx, query, employeeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Defaults{}, payroll.ErrDefaultsNotFound
		}
		return payroll.Defaults{}, fmt.Errorf("failed to get payroll defaults for employee %s: %w", employeeID, err)
	}
	return d, nil
}

// Upsert implements payroll.DefaultsRepository.
func (r *defaultsRepositoryImpl) Upsert(ctx context.Context, d payroll.Defaults) (payroll.Defaults, error) {
	q := GetQuerier(ctx, r.db)

	earnings, err := marshalItems(d.Earnings)
	if err != nil {
		return payroll.Defaults{}, err
	}
	deductions, err := marshalItems(d.Deductions)
	if err != nil {
		return payroll.Defaults{}, err
	}

	query := `
		INSERT INTO payroll_defaults (employee_id, earnings, deductions)
		VALUES ($1, $2, $3)
		ON CONFLICT (employee_id) DO UPDATE
		SET earnings = EXCLUDED.earnings, deductions = EXCLUDED.deductions, updated_at = NOW()
		RETURNING employee_id, earnings, deductions, updated_at
	`

	saved, err := scanDefaults(q.QueryRow(ctx, query, d.EmployeeID, earnings, deductions))
	if err != nil {
		return payroll.Defaults{}, fmt.Errorf("failed to save payroll defaults for employee %s: %w", d.EmployeeID, err)
	}
	return saved, nil
}

func scanDefaults(row pgx.Row) (payroll.Defaults, error) {
	var (
		d                    payroll.Defaults
		earnings, deductions []byte
	)
	if err := row.Scan(&d.EmployeeID, &earnings, &deductions, &d.UpdatedAt); err != nil {
		return payroll.Defaults{}, err
	}
	if err := json.Unmarshal(earnings, &d.Earnings); err != nil {
		return payroll.Defaults{}, fmt.Errorf("failed to decode earnings: %w", err)
	}
	if err := json.Unmarshal(deductions, &d.Deductions); err != nil {
		return payroll.Defaults{}, fmt.Errorf("failed to decode deductions: %w", err)
	}
	return d, nil
}

func marshalItems(items []payroll.LineItem) ([]byte, error) {
	if items == nil {
		items = []payroll.LineItem{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("failed to encode line items: %w", err)
	}
	return b, nil
}
