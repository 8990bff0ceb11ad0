package booking

import (
	"errors"
	"fmt"
)

// Error codes for booking operations.
const (
	CodeValidation   = "validation"
	CodeNotFound     = "notFound"
	CodeConflict     = "conflict"
	CodeInvalidState = "invalidState"
	CodePayment      = "payment"
)

// ServiceError is the typed error returned across the booking API boundary.
type ServiceError struct {
	Code    string
	Message string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewValidationError(format string, args ...interface{}) error {
	return &ServiceError{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

func NewNotFoundError(format string, args ...interface{}) error {
	return &ServiceError{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

func NewConflictError(format string, args ...interface{}) error {
	return &ServiceError{Code: CodeConflict, Message: fmt.Sprintf(format, args...)}
}

func NewInvalidStateError(format string, args ...interface{}) error {
	return &ServiceError{Code: CodeInvalidState, Message: fmt.Sprintf(format, args...)}
}

func NewPaymentError(format string, args ...interface{}) error {
	return &ServiceError{Code: CodePayment, Message: fmt.Sprintf(format, args...)}
}

// CodeOf extracts the service error code, or "" for untyped errors.
func CodeOf(err error) string {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}
