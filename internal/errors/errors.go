package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrTypeFileNotFound         ErrorType = "FILE_NOT_FOUND"
	ErrTypeInvalidTimezone      ErrorType = "INVALID_TIMEZONE"
	ErrTypeMissingColumns       ErrorType = "MISSING_COLUMNS"
	ErrTypeAmbiguousAggregation ErrorType = "AMBIGUOUS_AGGREGATION"
	ErrTypeMalformedTimestamp   ErrorType = "MALFORMED_TIMESTAMP"
	ErrTypeMalformedNumber      ErrorType = "MALFORMED_NUMBER"
	ErrTypeUnresolvableUnit     ErrorType = "UNRESOLVABLE_UNIT"
	ErrTypeParsing              ErrorType = "PARSING"
	ErrTypeValidation           ErrorType = "VALIDATION"
	ErrTypeConfig               ErrorType = "CONFIG"
)

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// IsType reports whether err is (or wraps) an AppError of the given type
func IsType(err error, errType ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == errType
	}
	return false
}

// Helper functions for the import error taxonomy

// NewFileNotFoundError signals that the input path does not exist
func NewFileNotFoundError(path string) *AppError {
	return NewAppError(ErrTypeFileNotFound, fmt.Sprintf("path %s does not exist", path), nil).
		WithContext("path", path)
}

// NewInvalidTimezoneError signals an unresolvable timezone identifier
func NewInvalidTimezoneError(identifier string, cause error) *AppError {
	return NewAppError(ErrTypeInvalidTimezone, fmt.Sprintf("invalid timezone_identifier: %s", identifier), cause).
		WithContext("timezone_identifier", identifier)
}

// NewMissingColumnsError signals that required columns are absent from the input
func NewMissingColumnsError(columns []string) *AppError {
	return NewAppError(ErrTypeMissingColumns, fmt.Sprintf("missing required columns: %v", columns), nil).
		WithContext("columns", columns)
}

// NewAmbiguousAggregationError signals that the mean/sum column invariant is violated
func NewAmbiguousAggregationError(message string) *AppError {
	return NewAppError(ErrTypeAmbiguousAggregation, message, nil)
}

// NewMalformedTimestampError signals a timestamp that does not match the resolved format
func NewMalformedTimestampError(raw string, cause error) *AppError {
	return NewAppError(ErrTypeMalformedTimestamp, fmt.Sprintf("cannot parse timestamp %q", raw), cause).
		WithContext("raw", raw)
}

// NewMalformedNumberError signals a numeric field that cannot be parsed
func NewMalformedNumberError(column, raw string, cause error) *AppError {
	return NewAppError(ErrTypeMalformedNumber, fmt.Sprintf("cannot parse number %q in column %s", raw, column), cause).
		WithContext("column", column).
		WithContext("raw", raw)
}

// NewUnresolvableUnitError signals a failed source-system unit lookup
func NewUnresolvableUnitError(statisticID string, cause error) *AppError {
	return NewAppError(ErrTypeUnresolvableUnit, fmt.Sprintf("cannot resolve unit for %s from source system", statisticID), cause).
		WithContext("statistic_id", statisticID)
}

// NewParsingError creates a parsing-related error
func NewParsingError(message string, cause error) *AppError {
	return NewAppError(ErrTypeParsing, message, cause)
}

// NewValidationError creates a validation-related error
func NewValidationError(message string, cause error) *AppError {
	return NewAppError(ErrTypeValidation, message, cause)
}

// NewConfigError creates a configuration-related error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}
