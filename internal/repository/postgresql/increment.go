package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/increment"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/database"
	"github.com/google/uuid"
)

const incrementColumns = `id, employee_id, old_salary, new_salary, increment_amount, increment_percentage,
	effective_date, reason, created_by, created_at`

type incrementRepositoryImpl struct {
	db *database.DB
}

func NewIncrementRepository(db *database.DB) increment.IncrementRepository {
	return &incrementRepositoryImpl{db: db}
}

// Create implements increment.IncrementRepository.
func (r *incrementRepositoryImpl) Create(ctx context.Context, e increment.Entry) (increment.Entry, error) {
	q := GetQuerier(ctx, r.db)

	if e.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return increment.Entry{}, fmt.Errorf("failed to generate increment id: %w", err)
		}
		e.ID = id.String()
	}

	query := `
		INSERT INTO increments (id, employee_id, old_salary, new_salary, increment_amount,
			increment_percentage, effective_date, reason, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + incrementColumns

	var created increment.Entry
	err := q.QueryRow(ctx, query,
		e.ID, e.EmployeeID, e.OldSalary, e.NewSalary, e.IncrementAmount,
		e.IncrementPercentage, e.EffectiveDate, e.Reason, e.CreatedBy,
	).Scan(
		&created.ID, &created.EmployeeID, &created.OldSalary, &created.NewSalary, &created.IncrementAmount,
		&created.IncrementPercentage, &created.EffectiveDate, &created.Reason, &created.CreatedBy, &created.CreatedAt,
	)
	if err != nil {
		return increment.Entry{}, fmt.Errorf("failed to create increment for employee %s: %w", e.EmployeeID, err)
	}
	return created, nil
}

// ListByEmployee implements increment.IncrementRepository.
func (r *incrementRepositoryImpl) ListByEmployee(ctx context.Context, employeeID string) ([]increment.Entry, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + incrementColumns + `
		FROM increments
		WHERE employee_id = $1
		ORDER BY effective_date DESC, created_at DESC`

	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list increments for employee %s: %w", employeeID, err)
	}
	defer rows.Close()

	var entries []increment.Entry
	for rows.Next() {
		var e increment.Entry
		if err := rows.Scan(
			&e.ID, &e.EmployeeID, &e.OldSalary, &e.NewSalary, &e.IncrementAmount,
			&e.IncrementPercentage, &e.EffectiveDate, &e.Reason, &e.CreatedBy, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan increment: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
