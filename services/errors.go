package services

import (
	"errors"
	"fmt"
)

var (
	// ErrParse is matched by every *ParseError.
	ErrParse = errors.New("unparseable field")
	// ErrInsufficientData reports a zero denominator: no rows in a group or no contacts at all.
	ErrInsufficientData = errors.New("insufficient data")
	// ErrInvalidArgument reports an out-of-range parameter such as a cutoff percentage.
	ErrInvalidArgument = errors.New("invalid argument")
)

// ParseError describes a field that could not be parsed. Row is the 1-based
// data row, not counting the header.
type ParseError struct {
	Dataset string
	Row     int
	Column  int
	Value   string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s row %d column %d: cannot parse %q: %v", e.Dataset, e.Row, e.Column, e.Value, e.Err)
	}
	return fmt.Sprintf("%s row %d column %d: cannot parse %q", e.Dataset, e.Row, e.Column, e.Value)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrParse) true for any ParseError.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}
