// Package errors provides error handling utilities.
package errors

import (
	"fmt"
)

// Type identifies the category of error
type Type string

const (
	// TypeInvalidInput indicates an input validation error
	TypeInvalidInput Type = "INVALID_INPUT"

	// TypeDimension indicates a shape or size mismatch between operands
	TypeDimension Type = "DIMENSION_MISMATCH"

	// TypePortIndex indicates a port index outside a network's port range
	TypePortIndex Type = "PORT_INDEX_OUT_OF_RANGE"

	// TypeUnsupported indicates an unsupported operation
	TypeUnsupported Type = "UNSUPPORTED_OPERATION"

	// TypeParsing indicates a parsing error
	TypeParsing Type = "PARSE_ERROR"

	// TypeModel indicates a predictor model error
	TypeModel Type = "MODEL_ERROR"

	// TypeConfig indicates a configuration error
	TypeConfig Type = "CONFIG_ERROR"

	// TypeStorage indicates a run storage error
	TypeStorage Type = "STORAGE_ERROR"

	// TypeNotFound indicates a resource not found error
	TypeNotFound Type = "NOT_FOUND"

	// TypeInternal indicates an internal error
	TypeInternal Type = "INTERNAL_ERROR"
)

// Error represents a domain error with context
type Error struct {
	Type    Type                   `json:"type"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is checks if the error is of a specific type
func (e *Error) Is(t Type) bool {
	return e.Type == t
}

// WithContext adds context to the error
func (e *Error) WithContext(key string, value interface{}) *Error {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// New creates a new error
func New(errType Type, message string) *Error {
	return &Error{
		Type:    errType,
		Message: message,
	}
}

// Newf creates a new formatted error
func Newf(errType Type, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps an error with context
func Wrap(errType Type, message string, cause error) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Cause:   cause,
	}
}

// Wrapf wraps an error with formatted context
func Wrapf(errType Type, cause error, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// IsType checks if an error is of a specific type
func IsType(err error, t Type) bool {
	if e, ok := err.(*Error); ok {
		return e.Type == t
	}
	return false
}

// Input creates an invalid input error
func Input(message string) *Error {
	return New(TypeInvalidInput, message)
}

// Inputf creates a formatted invalid input error
func Inputf(format string, args ...interface{}) *Error {
	return Newf(TypeInvalidInput, format, args...)
}

// Dimension creates a dimension mismatch error
func Dimension(message string) *Error {
	return New(TypeDimension, message)
}

// Dimensionf creates a formatted dimension mismatch error
func Dimensionf(format string, args ...interface{}) *Error {
	return Newf(TypeDimension, format, args...)
}

// PortIndex creates a port range error for a network with the given port count
func PortIndex(port, ports int) *Error {
	return Newf(TypePortIndex, "port index %d out of range for %d-port network", port, ports)
}

// Unsupported creates an unsupported operation error
func Unsupported(operation string) *Error {
	return Newf(TypeUnsupported, "operation not supported: %s", operation)
}

// Parsing creates a parsing error
func Parsing(message string, cause error) *Error {
	return Wrap(TypeParsing, message, cause)
}

// Model creates a predictor model error
func Model(message string, cause error) *Error {
	return Wrap(TypeModel, message, cause)
}

// Storage creates a run storage error
func Storage(message string, cause error) *Error {
	return Wrap(TypeStorage, message, cause)
}

// NotFound creates a not found error
func NotFound(resourceType, identifier string) *Error {
	return Newf(TypeNotFound, "%s not found: %s", resourceType, identifier)
}

// Internal creates an internal error
func Internal(message string, cause error) *Error {
	return Wrap(TypeInternal, message, cause)
}
