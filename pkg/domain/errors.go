package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Common domain errors
var (
	// ErrNotFound is returned when a requested resource is not found
	ErrNotFound = errors.New("resource not found")
	// ErrAlreadyExists is returned when trying to create a resource that already exists
	ErrAlreadyExists = errors.New("resource already exists")
	// ErrValidation is returned when input validation fails
	ErrValidation = errors.New("validation error")
	// ErrUnauthorized is returned when the caller could not be identified
	ErrUnauthorized = errors.New("unauthorized")
	// ErrAccessDenied is returned when the caller does not own the requested resource
	ErrAccessDenied = errors.New("access denied")
	// ErrInvalidState is returned when an account is not in a state that allows the operation
	ErrInvalidState = errors.New("invalid state")
	// ErrInvalidOperation is returned for requests that can never succeed, such as
	// a transfer to the same account or a request missing a required account reference
	ErrInvalidOperation = errors.New("invalid operation")
	// ErrInsufficientFunds is returned when a debit would take a balance below its overdraft floor
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrLimitExceeded is returned when a limit window rejects a transaction
	ErrLimitExceeded = errors.New("limit exceeded")
	// ErrTransient is returned when the store failed in a way that may succeed on retry
	ErrTransient = errors.New("transient store failure")
)

// LimitExceededError carries the details of a rejected limit check.
// It matches ErrLimitExceeded with errors.Is.
type LimitExceededError struct {
	Window       string
	Reason       string
	CurrentUsage decimal.Decimal
	Limit        decimal.Decimal
	Requested    decimal.Decimal
}

func (e *LimitExceededError) Error() string {
	if e.Reason == "" {
		return ErrLimitExceeded.Error()
	}
	return e.Reason
}

func (e *LimitExceededError) Unwrap() error {
	return ErrLimitExceeded
}
