package attendance

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/audit"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/spreadsheet"
)

type AttendanceServiceImpl struct {
	attendanceRepo attendance.AttendanceRepository
	employeeRepo   employee.EmployeeRepository
	audit          audit.Recorder
}

func NewAttendanceService(attendanceRepo attendance.AttendanceRepository, employeeRepo employee.EmployeeRepository, recorder audit.Recorder) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		audit:          recorder,
	}
}

// Upsert implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Upsert(ctx context.Context, req attendance.UpsertAttendanceRequest) (attendance.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.RecordResponse{}, err
	}
	if _, err := s.employeeRepo.GetByID(ctx, req.EmployeeID); err != nil {
		return attendance.RecordResponse{}, err
	}

	record, err := s.attendanceRepo.Upsert(ctx, attendance.Record{
		EmployeeID: req.EmployeeID,
		Date:       req.ParsedDate(),
		Status:     attendance.Status(req.Status),
		Notes:      req.Notes,
		Source:     attendance.SourceManual,
	})
	if err != nil {
		return attendance.RecordResponse{}, fmt.Errorf("failed to save attendance: %w", err)
	}
	return attendance.ToResponse(record), nil
}

// List implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) List(ctx context.Context, filter attendance.RangeFilter) ([]attendance.RecordResponse, error) {
	records, err := s.records(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]attendance.RecordResponse, 0, len(records))
	for _, r := range records {
		responses = append(responses, attendance.ToResponse(r))
	}
	return responses, nil
}

// Summary implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Summary(ctx context.Context, filter attendance.RangeFilter) (attendance.Summary, error) {
	records, err := s.records(ctx, filter)
	if err != nil {
		return attendance.Summary{}, err
	}
	return attendance.Summarize(records), nil
}

func (s *AttendanceServiceImpl) records(ctx context.Context, filter attendance.RangeFilter) ([]attendance.Record, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.employeeRepo.GetByID(ctx, filter.EmployeeID); err != nil {
		return nil, err
	}

	from, to := filter.Range()
	records, err := s.attendanceRepo.ListByRange(ctx, filter.EmployeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	return records, nil
}

// punch is a parsed log ready to store; row is 1-based within the request.
type punch struct {
	row       int
	code      string
	direction string
	at        time.Time
}

// IngestPunchLogs implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) IngestPunchLogs(ctx context.Context, req attendance.IngestPunchLogsRequest) (attendance.IngestResult, error) {
	if err := req.Validate(); err != nil {
		return attendance.IngestResult{}, err
	}

	result := attendance.IngestResult{Received: len(req.Logs)}
	punches := make([]punch, 0, len(req.Logs))
	for i, in := range req.Logs {
		code := strings.TrimSpace(in.EmployeeCode)
		if code == "" {
			result.Errors = append(result.Errors, attendance.RowError{Row: i + 1, Message: "employee_code is required"})
			continue
		}
		at, err := spreadsheet.ParseTimestamp(strings.TrimSpace(in.Timestamp))
		if err != nil {
			result.Errors = append(result.Errors, attendance.RowError{Row: i + 1, EmployeeCode: code, Message: err.Error()})
			continue
		}
		punches = append(punches, punch{row: i + 1, code: code, direction: in.Direction, at: at})
	}

	source := req.Source
	if source == "" {
		source = attendance.SourcePunch
	}
	return s.ingest(ctx, punches, source, result)
}

// ImportPunchLogs implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ImportPunchLogs(ctx context.Context, r io.Reader) (attendance.IngestResult, error) {
	rows, err := spreadsheet.ReadPunchLogs(r)
	if err != nil {
		return attendance.IngestResult{}, fmt.Errorf("%w: %v", attendance.ErrInvalidSpreadsheet, err)
	}
	if len(rows) == 0 {
		return attendance.IngestResult{}, attendance.ErrNoPunchLogs
	}

	result := attendance.IngestResult{Received: len(rows)}
	punches := make([]punch, 0, len(rows))
	for _, row := range rows {
		if row.Err != "" {
			result.Errors = append(result.Errors, attendance.RowError{Row: row.Row, EmployeeCode: row.EmployeeCode, Message: row.Err})
			continue
		}
		punches = append(punches, punch{row: row.Row, code: row.EmployeeCode, direction: row.Direction, at: row.Timestamp})
	}

	return s.ingest(ctx, punches, attendance.SourceSpreadsheet, result)
}

// ingest stores each punch and marks the employee present on every day that
// has at least one punch. Unknown employees and bad directions are reported
// per row; storage failures abort the run.
func (s *AttendanceServiceImpl) ingest(ctx context.Context, punches []punch, source string, result attendance.IngestResult) (res attendance.IngestResult, err error) {
	defer func() {
		detail := fmt.Sprintf("received=%d stored=%d duplicates=%d days_marked=%d errors=%d",
			res.Received, res.Stored, res.Duplicates, res.DaysMarked, len(res.Errors))
		s.audit.Record(ctx, audit.ActionPunchImport, "attendance", "", err, detail)
	}()

	employees := make(map[string]employee.Employee)
	marked := make(map[string]bool)

	for _, p := range punches {
		direction, ok := attendance.NormalizeDirection(p.direction)
		if !ok {
			result.Errors = append(result.Errors, attendance.RowError{Row: p.row, EmployeeCode: p.code, Message: fmt.Sprintf("invalid direction %q", p.direction)})
			continue
		}

		emp, ok := employees[p.code]
		if !ok {
			emp, err = s.employeeRepo.GetByCode(ctx, p.code)
			if err != nil {
				if errors.Is(err, employee.ErrEmployeeNotFound) {
					result.Errors = append(result.Errors, attendance.RowError{Row: p.row, EmployeeCode: p.code, Message: "unknown employee code"})
					err = nil
					continue
				}
				return result, fmt.Errorf("failed to look up employee %s: %w", p.code, err)
			}
			employees[p.code] = emp
		}

		stored, err := s.attendanceRepo.InsertPunchLog(ctx, attendance.PunchLog{
			EmployeeID: emp.ID,
			Direction:  direction,
			PunchedAt:  p.at,
			Source:     source,
		})
		if err != nil {
			return result, fmt.Errorf("failed to store punch log: %w", err)
		}
		if !stored {
			result.Duplicates++
			continue
		}
		result.Stored++

		day := attendance.Day(p.at)
		key := emp.ID + "/" + day.Format("2006-01-02")
		if marked[key] {
			continue
		}
		marked[key] = true

		written, err := s.attendanceRepo.MarkPresent(ctx, emp.ID, day, source)
		if err != nil {
			return result, fmt.Errorf("failed to mark attendance: %w", err)
		}
		if written {
			result.DaysMarked++
		} else {
			slog.Debug("punch on a leave day left attendance unchanged", "employee_id", emp.ID, "date", day.Format("2006-01-02"))
		}
	}

	return result, nil
}
