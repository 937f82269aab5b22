package attendance

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
)

type UpsertAttendanceRequest struct {
	EmployeeID string  `json:"-"`
	Date       string  `json:"-"`
	Status     string  `json:"status"`
	Notes      *string `json:"notes,omitempty"`

	date time.Time
}

func (r *UpsertAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "employee_id must be a valid UUID"})
	}
	d, ok := validator.IsValidDate(r.Date)
	if !ok {
		errs = append(errs, validator.ValidationError{Field: "date", Message: "date must be in YYYY-MM-DD format"})
	}
	if !validator.IsInSlice(r.Status, Statuses) {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "status must be one of Present, Absent, Leave"})
	}

	if len(errs) > 0 {
		return errs
	}
	r.date = d
	return nil
}

func (r *UpsertAttendanceRequest) ParsedDate() time.Time { return r.date }

type RangeFilter struct {
	EmployeeID string
	From       string
	To         string

	from time.Time
	to   time.Time
}

func (f *RangeFilter) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(f.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "employee_id must be a valid UUID"})
	}
	from, okFrom := validator.IsValidDate(f.From)
	if !okFrom {
		errs = append(errs, validator.ValidationError{Field: "from", Message: "from must be in YYYY-MM-DD format"})
	}
	to, okTo := validator.IsValidDate(f.To)
	if !okTo {
		errs = append(errs, validator.ValidationError{Field: "to", Message: "to must be in YYYY-MM-DD format"})
	}
	if okFrom && okTo && from.After(to) {
		errs = append(errs, validator.ValidationError{Field: "from", Message: ErrInvalidDateRange.Error()})
	}

	if len(errs) > 0 {
		return errs
	}
	f.from, f.to = from, to
	return nil
}

func (f *RangeFilter) Range() (time.Time, time.Time) { return f.from, f.to }

type RecordResponse struct {
	EmployeeID string    `json:"employee_id"`
	Date       string    `json:"date"`
	Status     string    `json:"status"`
	Notes      *string   `json:"notes,omitempty"`
	Source     string    `json:"source"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func ToResponse(r Record) RecordResponse {
	return RecordResponse{
		EmployeeID: r.EmployeeID,
		Date:       r.Date.Format("2006-01-02"),
		Status:     string(r.Status),
		Notes:      r.Notes,
		Source:     r.Source,
		UpdatedAt:  r.UpdatedAt,
	}
}

type PunchLogInput struct {
	EmployeeCode string `json:"employee_code"`
	Direction    string `json:"direction"`
	Timestamp    string `json:"timestamp"`
}

type IngestPunchLogsRequest struct {
	Logs   []PunchLogInput `json:"logs"`
	Source string          `json:"-"`
}

func (r *IngestPunchLogsRequest) Validate() error {
	if len(r.Logs) == 0 {
		return validator.ValidationErrors{{Field: "logs", Message: ErrNoPunchLogs.Error()}}
	}
	if len(r.Logs) > 10000 {
		return validator.ValidationErrors{{Field: "logs", Message: "at most 10000 punch logs per request"}}
	}
	return nil
}

// NormalizeDirection accepts in/out in any case plus the common device
// spellings check-in/check-out.
func NormalizeDirection(s string) (Direction, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "in", "check-in", "checkin", "0":
		return DirectionIn, true
	case "out", "check-out", "checkout", "1":
		return DirectionOut, true
	}
	return "", false
}

type RowError struct {
	Row          int    `json:"row"`
	EmployeeCode string `json:"employee_code,omitempty"`
	Message      string `json:"message"`
}

type IngestResult struct {
	Received   int        `json:"received"`
	Stored     int        `json:"stored"`
	Duplicates int        `json:"duplicates"`
	DaysMarked int        `json:"days_marked"`
	Errors     []RowError `json:"errors,omitempty"`
}
