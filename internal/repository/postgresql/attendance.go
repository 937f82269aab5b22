package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/database"
)

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{db: db}
}

// Upsert implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Upsert(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance_records (employee_id, date, status, notes, source)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (employee_id, date) DO UPDATE
		SET status = EXCLUDED.status, notes = EXCLUDED.notes, source = EXCLUDED.source, updated_at = NOW()
		RETURNING employee_id, date, status, notes, source, created_at, updated_at
	`

	var saved attendance.Record
	err := q.QueryRow(ctx, query, rec.EmployeeID, rec.Date, rec.Status, rec.Notes, rec.Source).Scan(
		&saved.EmployeeID, &saved.Date, &saved.Status, &saved.Notes, &saved.Source, &saved.CreatedAt, &saved.UpdatedAt,
	)
	if err != nil {
		return attendance.Record{}, fmt.Errorf("failed to save attendance for employee %s: %w", rec.EmployeeID, err)
	}
	return saved, nil
}

// MarkPresent implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) MarkPresent(ctx context.Context, employeeID string, date time.Time, source string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance_records (employee_id, date, status, source)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (employee_id, date) DO UPDATE
		SET status = EXCLUDED.status, source = EXCLUDED.source, updated_at = NOW()
		WHERE attendance_records.status <> $5
	`

	tag, err := q.Exec(ctx, query, employeeID, date, attendance.StatusPresent, source, attendance.StatusLeave)
	if err != nil {
		return false, fmt.Errorf("failed to mark attendance for employee %s: %w", employeeID, err)
	}
	return tag.RowsAffected() > 0, nil
}

// ListByRange implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListByRange(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT employee_id, date, status, notes, source, created_at, updated_at
		FROM attendance_records
		WHERE employee_id = $1 AND date BETWEEN $2 AND $3
		ORDER BY date ASC
	`

	rows, err := q.Query(ctx, query, employeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance for employee %s: %w", employeeID, err)
	}
	defer rows.Close()

	var records []attendance.Record
	for rows.Next() {
		var rec attendance.Record
		if err := rows.Scan(&rec.EmployeeID, &rec.Date, &rec.Status, &rec.Notes, &rec.Source, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// InsertPunchLog implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) InsertPunchLog(ctx context.Context, log attendance.PunchLog) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO punch_logs (employee_id, direction, punched_at, source)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (employee_id, punched_at) DO NOTHING
	`

	tag, err := q.Exec(ctx, query, log.EmployeeID, log.Direction, log.PunchedAt, log.Source)
	if err != nil {
		return false, fmt.Errorf("failed to store punch log for employee %s: %w", log.EmployeeID, err)
	}
	return tag.RowsAffected() > 0, nil
}
