package dataset

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyFile     = errors.New("file has no header row")
	ErrMissingColumn = errors.New("required column missing")
	ErrNoRecords     = errors.New("no valid records found")
	ErrInvalidDate   = errors.New("invalid date")
	ErrInvalidNumber = errors.New("invalid number")
	ErrDiscountRange = errors.New("discount outside 0..1")
	ErrMalformedRow  = errors.New("malformed row")
)

// LoadError reports why the dataset could not be loaded. Line and Column are
// set when the failure is tied to a specific cell.
type LoadError struct {
	Path   string
	Line   int
	Column string
	Err    error
}

func (e *LoadError) Error() string {
	msg := "load " + e.Path
	if e.Line > 0 {
		msg += fmt.Sprintf(" line %d", e.Line)
	}
	if e.Column != "" {
		msg += fmt.Sprintf(" column %q", e.Column)
	}
	return msg + ": " + e.Err.Error()
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
