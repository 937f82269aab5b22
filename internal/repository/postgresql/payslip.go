package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/payslip"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const payslipColumns = `id, employee_id, employee_code, employee_name, designation, period_start, period_end,
	issue_date, earnings, deductions, gross_pay, total_deductions, net_pay, net_pay_words, currency,
	payment_method, notes, attendance_summary, pdf_path, email_sent_at, created_by, created_at, updated_at`

type payslipRepositoryImpl struct {
	db *database.DB
}

func NewPayslipRepository(db *database.DB) payslip.PayslipRepository {
	return &payslipRepositoryImpl{db: db}
}

func scanPayslip(row pgx.Row) (payslip.Payslip, error) {
	var (
		p                    payslip.Payslip
		earnings, deductions []byte
		summary              []byte
	)
	err := row.Scan(
		&p.ID, &p.EmployeeID, &p.EmployeeCode, &p.EmployeeName, &p.Designation, &p.PeriodStart, &p.PeriodEnd,
		&p.IssueDate, &earnings, &deductions, &p.GrossPay, &p.TotalDeductions, &p.NetPay, &p.NetPayWords,
		&p.Currency, &p.PaymentMethod, &p.Notes, &summary, &p.PDFPath, &p.EmailSentAt, &p.CreatedBy,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return payslip.Payslip{}, err
	}
	if err := json.Unmarshal(earnings, &p.Earnings); err != nil {
		return payslip.Payslip{}, fmt.Errorf("failed to decode earnings: %w", err)
	}
	if err := json.Unmarshal(deductions, &p.Deductions); err != nil {
		return payslip.Payslip{}, fmt.Errorf("failed to decode deductions: %w", err)
	}
	if len(summary) > 0 {
		if err := json.Unmarshal(summary, &p.AttendanceSummary); err != nil {
			return payslip.Payslip{}, fmt.Errorf("failed to decode attendance summary: %w", err)
		}
	}
	return p, nil
}

// Create implements payslip.PayslipRepository.
func (r *payslipRepositoryImpl) Create(ctx context.Context, p payslip.Payslip) (payslip.Payslip, error) {
	q := GetQuerier(ctx, r.db)

	earnings, err := marshalItems(p.Earnings)
	if err != nil {
		return payslip.Payslip{}, err
	}
	deductions, err := marshalItems(p.Deductions)
	if err != nil {
		return payslip.Payslip{}, err
	}
	var summary []byte
	if p.AttendanceSummary != nil {
		if summary, err = json.Marshal(p.AttendanceSummary); err != nil {
			return payslip.Payslip{}, fmt.Errorf("failed to encode attendance summary: %w", err)
		}
	}

	query := `
		INSERT INTO payslips (
			id, employee_id, employee_code, employee_name, designation, period_start, period_end,
			issue_date, earnings, deductions, gross_pay, total_deductions, net_pay, net_pay_words,
			currency, payment_method, notes, attendance_summary, pdf_path, created_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		RETURNING ` + payslipColumns

	created, err := scanPayslip(q.QueryRow(ctx, query,
		p.ID, p.EmployeeID, p.EmployeeCode, p.EmployeeName, p.Designation, p.PeriodStart, p.PeriodEnd,
		p.IssueDate, earnings, deductions, p.GrossPay, p.TotalDeductions, p.NetPay, p.NetPayWords,
		p.Currency, p.PaymentMethod, p.Notes, summary, p.PDFPath, p.CreatedBy,
	))
	if err != nil {
		if code, _ := pgErrorCode(err); code == pgUniqueViolation {
			return payslip.Payslip{}, payslip.ErrPayslipAlreadyExists
		}
		return payslip.Payslip{}, fmt.Errorf("failed to create payslip: %w", err)
	}
	return created, nil
}

// GetByID implements payslip.PayslipRepository.
func (r *payslipRepositoryImpl) GetByID(ctx context.Context, id string) (payslip.Payslip, error) {
	q := GetQuerier(ctx, r.db)

	p, err := scanPayslip(q.QueryRow(ctx, "SELECT "+payslipColumns+" FROM payslips WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payslip.Payslip{}, payslip.ErrPayslipNotFound
		}
		return payslip.Payslip{}, fmt.Errorf("failed to get payslip %s: %w", id, err)
	}
	return p, nil
}

// GetByEmployeePeriod implements payslip.PayslipRepository.
func (r *payslipRepositoryImpl) GetByEmployeePeriod(ctx context.Context, employeeID string, start, end time.Time) (payslip.Payslip, error) {
	q := GetQuerier(ctx, r.db)

	query := "SELECT " + payslipColumns + " FROM payslips WHERE employee_id = $1 AND period_start = $2 AND period_end = $3"

	p, err := scanPayslip(q.QueryRow(ctx, query, employeeID, start, end))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payslip.Payslip{}, payslip.ErrPayslipNotFound
		}
		return payslip.Payslip{}, fmt.Errorf("failed to get payslip for employee %s: %w", employeeID, err)
	}
	return p, nil
}

// List implements payslip.PayslipRepository.
func (r *payslipRepositoryImpl) List(ctx context.Context, filter payslip.PayslipFilter) ([]payslip.Payslip, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"TRUE"}
	var args []interface{}
	argIdx := 1

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		conditions = append(conditions, fmt.Sprintf("employee_id = $%d", argIdx))
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.From != nil && *filter.From != "" {
		conditions = append(conditions, fmt.Sprintf("period_start >= $%d::date", argIdx))
		args = append(args, *filter.From)
		argIdx++
	}
	if filter.To != nil && *filter.To != "" {
		conditions = append(conditions, fmt.Sprintf("period_end <= $%d::date", argIdx))
		args = append(args, *filter.To)
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM payslips WHERE "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count payslips: %w", err)
	}

	validSortColumns := map[string]string{
		"issue_date":    "issue_date",
		"period_start":  "period_start",
		"employee_name": "employee_name",
		"net_pay":       "net_pay",
		"created_at":    "created_at",
	}
	sortColumn, ok := validSortColumns[filter.SortBy]
	if !ok {
		sortColumn = "issue_date"
	}
	sortOrder := "DESC"
	if strings.ToUpper(filter.SortOrder) == "ASC" {
		sortOrder = "ASC"
	}

	offset := (filter.Page - 1) * filter.Limit
	query := fmt.Sprintf(`
		SELECT %s
		FROM payslips
		WHERE %s
		ORDER BY %s %s, id %s
		LIMIT $%d OFFSET $%d
	`, payslipColumns, whereClause, sortColumn, sortOrder, sortOrder, argIdx, argIdx+1)
	args = append(args, filter.Limit, offset)

	payslips, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payslips: %w", err)
	}
	return payslips, total, nil
}

// ListByIDs implements payslip.PayslipRepository.
func (r *payslipRepositoryImpl) ListByIDs(ctx context.Context, ids []string) ([]payslip.Payslip, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := "SELECT " + payslipColumns + " FROM payslips WHERE id::text = ANY($1::text[]) ORDER BY employee_name ASC, period_start ASC"

	payslips, err := r.query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to list payslips by id: %w", err)
	}
	return payslips, nil
}

func (r *payslipRepositoryImpl) query(ctx context.Context, query string, args ...interface{}) ([]payslip.Payslip, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payslips []payslip.Payslip
	for rows.Next() {
		p, err := scanPayslip(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payslip: %w", err)
		}
		payslips = append(payslips, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return payslips, nil
}

// MarkEmailSent implements payslip.PayslipRepository.
func (r *payslipRepositoryImpl) MarkEmailSent(ctx context.Context, id string, sentAt time.Time) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, "UPDATE payslips SET email_sent_at = $2, updated_at = NOW() WHERE id = $1", id, sentAt)
	if err != nil {
		return fmt.Errorf("failed to mark payslip %s as sent: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return payslip.ErrPayslipNotFound
	}
	return nil
}

// Delete implements payslip.PayslipRepository.
func (r *payslipRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, "DELETE FROM payslips WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete payslip %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return payslip.ErrPayslipNotFound
	}
	return nil
}

// PDFPaths implements payslip.PayslipRepository.
func (r *payslipRepositoryImpl) PDFPaths(ctx context.Context) (map[string]struct{}, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, "SELECT pdf_path FROM payslips")
	if err != nil {
		return nil, fmt.Errorf("failed to list payslip documents: %w", err)
	}
	defer rows.Close()

	paths := make(map[string]struct{})
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, fmt.Errorf("failed to scan payslip document: %w", err)
		}
		paths[path] = struct{}{}
	}
	return paths, rows.Err()
}
