package attendance

import "errors"

var (
	ErrInvalidDateRange   = errors.New("from must not be after to")
	ErrInvalidSpreadsheet = errors.New("punch log spreadsheet could not be read")
	ErrNoPunchLogs        = errors.New("no punch logs supplied")
)
