package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Lookup errors
	ErrColumnNotFound = errors.New("column not found")
	ErrNoDataset      = errors.New("no dataset loaded")

	// Type errors
	ErrConversion      = errors.New("value cannot be coerced to target type")
	ErrUnsupportedType = errors.New("operation not supported for column type")

	// Input errors
	ErrUnknownMethod    = errors.New("unknown method")
	ErrLengthMismatch   = errors.New("column length mismatch")
	ErrInsufficientData = errors.New("insufficient data for analysis")
	ErrInvalidArgument  = errors.New("invalid argument")
)

// ConversionError reports the first cell that could not be coerced to the target type.
type ConversionError struct {
	Column string
	Row    int
	Value  string
	Target string
	Cause  error
}

func (e *ConversionError) Error() string {
	msg := fmt.Sprintf("cannot convert column %q to %s: row %d value %q", e.Column, e.Target, e.Row, e.Value)
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap lets errors.Is match ErrConversion.
func (e *ConversionError) Unwrap() error {
	return ErrConversion
}

// UnsupportedTypeError is returned when an operation is requested on a column of an incompatible type.
type UnsupportedTypeError struct {
	Column    string
	Type      string
	Operation string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("%s is not supported for column %q of type %s", e.Operation, e.Column, e.Type)
}

func (e *UnsupportedTypeError) Unwrap() error {
	return ErrUnsupportedType
}

// Error constructors with context
func NewColumnNotFoundError(name string) error {
	return fmt.Errorf("%w: %s", ErrColumnNotFound, name)
}

func NewUnknownMethodError(kind, method string) error {
	return fmt.Errorf("%w: %s %q", ErrUnknownMethod, kind, method)
}

func NewInsufficientDataError(operation string, have, need int) error {
	return fmt.Errorf("%w: %s needs %d values, got %d", ErrInsufficientData, operation, need, have)
}

// Error checking helpers
func IsConversionError(err error) bool {
	return errors.Is(err, ErrConversion)
}

func IsUnsupportedTypeError(err error) bool {
	return errors.Is(err, ErrUnsupportedType)
}

func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrColumnNotFound) || errors.Is(err, ErrNoDataset)
}

func IsInputError(err error) bool {
	return errors.Is(err, ErrUnknownMethod) ||
		errors.Is(err, ErrLengthMismatch) ||
		errors.Is(err, ErrInsufficientData) ||
		errors.Is(err, ErrInvalidArgument)
}
