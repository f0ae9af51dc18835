package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrForbidden indicates that the actor is not allowed to perform the operation.
var ErrForbidden = errors.New("forbidden")

// ErrAlreadyProcessed indicates that a settlement request has already reached a
// terminal state and cannot be decided again.
var ErrAlreadyProcessed = errors.New("request already processed")

// ErrInsufficientBalance indicates that a withdrawal would exceed the user's
// current withdrawable balance.
var ErrInsufficientBalance = errors.New("insufficient balance")

// ErrNegativeBalance indicates that applying a balance delta would drive some
// balance field below zero. Always fatal to the operation; balances are never
// clamped.
var ErrNegativeBalance = errors.New("balance would become negative")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")

// AppError carries an HTTP-ish status code alongside a message and the
// wrapped cause. Repositories use it to surface persistence failures in a
// form handlers can map without string matching.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError wrapping the given cause.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates an AppError that matches ErrNotFound via errors.Is.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: 404, Message: message, Err: ErrNotFound}
}
