package attendance

import (
	"context"
	"time"
)

type AttendanceRepository interface {
	// Upsert overwrites any record for the same employee and date.
	Upsert(ctx context.Context, r Record) (Record, error)
	// MarkPresent records Present for the day unless a Leave record exists,
	// reporting whether a row was written.
	MarkPresent(ctx context.Context, employeeID string, date time.Time, source string) (bool, error)
	ListByRange(ctx context.Context, employeeID string, from, to time.Time) ([]Record, error)
	// InsertPunchLog reports false when the same punch was already stored.
	InsertPunchLog(ctx context.Context, log PunchLog) (bool, error)
}
