// Package domain holds the error taxonomy shared by every summarease component.
package domain

import (
	"errors"
	"fmt"
)

// ErrorType classifies a failure so boundaries can report it without inspecting messages.
type ErrorType string

const (
	ErrorTypeExtraction ErrorType = "extraction"
	ErrorTypeService    ErrorType = "service"
	ErrorTypeParse      ErrorType = "parse"
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeConfig     ErrorType = "config"
)

// DomainError represents a classified failure with an optional cause.
type DomainError struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewError creates a new domain error
func NewError(errType ErrorType, message string, err error) *DomainError {
	return &DomainError{
		Type:    errType,
		Message: message,
		Err:     err,
	}
}

// ExtractionError reports an unreadable document.
func ExtractionError(message string, err error) *DomainError {
	return NewError(ErrorTypeExtraction, message, err)
}

// ServiceError reports a failed or empty model call.
func ServiceError(message string, err error) *DomainError {
	return NewError(ErrorTypeService, message, err)
}

// ParseError reports a model reply that does not decode into the expected shape.
func ParseError(message string, err error) *DomainError {
	return NewError(ErrorTypeParse, message, err)
}

func ValidationError(message string, err error) *DomainError {
	return NewError(ErrorTypeValidation, message, err)
}

func ConfigError(message string, err error) *DomainError {
	return NewError(ErrorTypeConfig, message, err)
}

// TypeOf returns the type of the first DomainError in err's chain, or "" if there is none.
func TypeOf(err error) ErrorType {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Type
	}
	return ""
}

// Is reports whether err carries a DomainError of the given type.
func Is(err error, t ErrorType) bool {
	return err != nil && TypeOf(err) == t
}

// Message returns the user-facing message of a DomainError, or err.Error() otherwise.
func Message(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		if de.Err != nil {
			return de.Message + ": " + de.Err.Error()
		}
		return de.Message
	}
	return err.Error()
}
