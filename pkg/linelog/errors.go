package linelog

import (
	"errors"
	"fmt"
)

// Sentinel errors wrapped by ParseError.
var (
	ErrMissingField  = errors.New("required field is empty")
	ErrNotNumeric    = errors.New("field is not numeric")
	ErrOutOfRange    = errors.New("field is out of range")
	ErrBadTimestamp  = errors.New("cannot derive timestamp")
	ErrMissingColumn = errors.New("required column missing from header")
)

// ParseError describes a single malformed row. The row is skipped and the
// rest of the log is still ingested.
type ParseError struct {
	Row    int
	Column string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("row %d: column %q: %v", e.Row, e.Column, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func rowError(row int, column string, err error) *ParseError {
	return &ParseError{Row: row, Column: column, Err: err}
}
