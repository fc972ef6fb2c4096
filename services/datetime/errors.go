package datetime

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDateFormat matches any *InvalidDateFormatError
	ErrInvalidDateFormat = errors.New("invalid date format")
	// ErrInvalidTimeFormat matches any *InvalidTimeFormatError
	ErrInvalidTimeFormat = errors.New("invalid time format")
)

// InvalidDateFormatError reports a date that could not be converted
type InvalidDateFormatError struct {
	Input string
}

func (e *InvalidDateFormatError) Error() string {
	return fmt.Sprintf("invalid date format: %s", e.Input)
}

func (e *InvalidDateFormatError) Is(target error) bool {
	return target == ErrInvalidDateFormat
}

// InvalidTimeFormatError reports a time that could not be converted
type InvalidTimeFormatError struct {
	Input string
}

func (e *InvalidTimeFormatError) Error() string {
	return fmt.Sprintf("invalid time format: %s", e.Input)
}

func (e *InvalidTimeFormatError) Is(target error) bool {
	return target == ErrInvalidTimeFormat
}
