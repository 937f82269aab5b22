package attendance

import (
	"context"
	"io"
)

type AttendanceService interface {
	Upsert(ctx context.Context, req UpsertAttendanceRequest) (RecordResponse, error)
	List(ctx context.Context, filter RangeFilter) ([]RecordResponse, error)
	Summary(ctx context.Context, filter RangeFilter) (Summary, error)
	IngestPunchLogs(ctx context.Context, req IngestPunchLogsRequest) (IngestResult, error)
	// ImportPunchLogs reads an xlsx workbook with Employee Code, Direction and
	// Timestamp columns.
	ImportPunchLogs(ctx context.Context, r io.Reader) (IngestResult, error)
}
