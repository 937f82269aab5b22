package spreadsheet

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

var (
	ErrEmptyWorkbook  = errors.New("workbook has no sheets")
	ErrMissingColumns = errors.New("header must contain Employee Code, Direction and Timestamp columns")
)

// PunchRow is one parsed row of a punch-log workbook. Err is set when the row
// could not be parsed; Row is the 1-based spreadsheet row.
type PunchRow struct {
	Row          int
	EmployeeCode string
	Direction    string
	Timestamp    time.Time
	Err          string
}

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
}

// ReadPunchLogs parses the first sheet of an xlsx workbook whose header row
// names the Employee Code, Direction and Timestamp columns in any order.
func ReadPunchLogs(r io.Reader) ([]PunchRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyWorkbook
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrMissingColumns
	}

	codeCol, dirCol, tsCol := -1, -1, -1
	for i, h := range rows[0] {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "employee code", "employee_code", "employee id":
			codeCol = i
		case "direction", "type":
			dirCol = i
		case "timestamp", "time", "punched at":
			tsCol = i
		}
	}
	if codeCol < 0 || dirCol < 0 || tsCol < 0 {
		return nil, ErrMissingColumns
	}

	var out []PunchRow
	for i, row := range rows[1:] {
		code := strings.TrimSpace(cell(row, codeCol))
		dir := strings.TrimSpace(cell(row, dirCol))
		ts := strings.TrimSpace(cell(row, tsCol))
		if code == "" && dir == "" && ts == "" {
			continue
		}

		pr := PunchRow{Row: i + 2, EmployeeCode: code, Direction: dir}
		switch {
		case code == "":
			pr.Err = "employee code is required"
		case ts == "":
			pr.Err = "timestamp is required"
		default:
			t, err := ParseTimestamp(ts)
			if err != nil {
				pr.Err = err.Error()
			} else {
				pr.Timestamp = t
			}
		}
		out = append(out, pr)
	}

	return out, nil
}

func cell(row []string, idx int) string {
	if idx < len(row) {
		return row[idx]
	}
	return ""
}

// ParseTimestamp accepts an Excel serial number or one of the supported text
// layouts.
func ParseTimestamp(s string) (time.Time, error) {
	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
		}
		return t.Round(time.Second), nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}
