package attendance

import "time"

type Status string

const (
	StatusPresent Status = "Present"
	StatusAbsent  Status = "Absent"
	StatusLeave   Status = "Leave"
)

var Statuses = []string{string(StatusPresent), string(StatusAbsent), string(StatusLeave)}

const (
	SourceManual      = "manual"
	SourcePunch       = "punch"
	SourceSpreadsheet = "spreadsheet"
)

// Record is the single attendance status of an employee on a calendar day.
type Record struct {
	EmployeeID string
	Date       time.Time
	Status     Status
	Notes      *string
	Source     string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type Direction string

const (
	DirectionIn  Direction = "in"
	DirectionOut Direction = "out"
)

// PunchLog is a raw biometric clock event.
type PunchLog struct {
	ID         int64
	EmployeeID string
	Direction  Direction
	PunchedAt  time.Time
	Source     string
	CreatedAt  time.Time
}

// Day truncates a timestamp to its calendar date in the timestamp's own zone.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

type Summary struct {
	Present int `json:"present"`
	Absent  int `json:"absent"`
	Leave   int `json:"leave"`
	Total   int `json:"total"`
}

// Summarize tallies records by status.
func Summarize(records []Record) Summary {
	var s Summary
	for _, r := range records {
		switch r.Status {
		case StatusPresent:
			s.Present++
		case StatusAbsent:
			s.Absent++
		case StatusLeave:
			s.Leave++
		}
		s.Total++
	}
	return s
}
