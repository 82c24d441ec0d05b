package service

import (
	"errors"
	"fmt"
)

// Custom error types
var (
	ErrInvalidRange = errors.New("value out of range")
	ErrMissingDate  = errors.New("date is required")
)

// RangeError reports an out-of-range day count or offset. It unwraps to ErrInvalidRange.
type RangeError struct {
	Field string
	Value int
	Min   int
	Max   int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s must be between %d and %d, got %d", e.Field, e.Min, e.Max, e.Value)
}

func (e *RangeError) Unwrap() error {
	return ErrInvalidRange
}

func checkRange(field string, value int) error {
	if value < MinDays || value > MaxDays {
		return &RangeError{Field: field, Value: value, Min: MinDays, Max: MaxDays}
	}
	return nil
}
