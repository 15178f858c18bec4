package apperror

import (
	"errors"
	"fmt"
)

// Sentinel categories. Services wrap these so callers can branch with
// errors.Is without parsing messages.
var (
	ErrValidation    = errors.New("validation error")
	ErrProvider      = errors.New("provider error")
	ErrQuery         = errors.New("query error")
	ErrPayment       = errors.New("payment error")
	ErrDuplicatePlan = errors.New("duplicate plan")
	ErrNoUser        = errors.New("no user")
	ErrProvisioning  = errors.New("provisioning incomplete")
	ErrNotFound      = errors.New("not found")
)

type AppError struct {
	Err     error  // category sentinel or underlying cause
	Message string // human-readable, safe to show the user
	Field   string // optional: field causing a validation error

	// TransactionID is set on provisioning failures that happened after a
	// successful payment, so support can reconcile the charge.
	TransactionID string
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{Err: ErrValidation, Message: message, Field: field}
}

func ProviderFailed(message string, cause error) *AppError {
	return &AppError{Err: errors.Join(ErrProvider, cause), Message: message}
}

func QueryFailed(message string, cause error) *AppError {
	return &AppError{Err: errors.Join(ErrQuery, cause), Message: message}
}

func PaymentFailed(message string) *AppError {
	return &AppError{Err: ErrPayment, Message: message}
}

func DuplicatePlan() *AppError {
	return &AppError{Err: ErrDuplicatePlan, Message: "You have an existing plan already"}
}

func NoUser() *AppError {
	return &AppError{Err: ErrNoUser, Message: "No user found. Please create account first."}
}

// ProvisioningIncomplete flags a paid-but-not-provisioned account. The
// caller must not swallow this; it carries the transaction id for manual
// reconciliation.
func ProvisioningIncomplete(transactionID string, cause error) *AppError {
	return &AppError{
		Err:           errors.Join(ErrProvisioning, cause),
		Message:       fmt.Sprintf("Payment succeeded (transaction %s) but account provisioning failed. Contact support.", transactionID),
		TransactionID: transactionID,
	}
}

func NotFound(resource string) *AppError {
	return &AppError{Err: ErrNotFound, Message: resource + " not found"}
}
