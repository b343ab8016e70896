package errors

import "fmt"

// ErrorCode represents a CalorieSnap error code.
type ErrorCode string

const (
	ErrInvalidRequest   ErrorCode = "INVALID_REQUEST"   // 400
	ErrNotFound         ErrorCode = "NOT_FOUND"         // 404
	ErrCapacityExceeded ErrorCode = "CAPACITY_EXCEEDED" // 409
	ErrValidation       ErrorCode = "VALIDATION_FAILED" // 422
	ErrInternal         ErrorCode = "INTERNAL"          // 500
	ErrExternalService  ErrorCode = "EXTERNAL_SERVICE"  // 502
	ErrStorage          ErrorCode = "STORAGE_FAILED"    // 507
)

// SnapError represents a structured error with code, status, and details.
type SnapError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *SnapError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause when one was recorded.
func (e *SnapError) Unwrap() error {
	if cause, ok := e.Details["cause"].(error); ok {
		return cause
	}
	return nil
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *SnapError {
	return &SnapError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for when a record cannot be found.
func NewNotFound(identifier string) *SnapError {
	return &SnapError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("entry not found: %s", identifier),
		Details: map[string]any{"identifier": identifier},
	}
}

// NewCapacityExceeded creates a 409 error for a full log or day-bucket.
// The caller is expected to tell the user to delete old entries.
func NewCapacityExceeded(collection string, limit int) *SnapError {
	return &SnapError{
		Code:    ErrCapacityExceeded,
		Status:  409,
		Message: fmt.Sprintf("%s is full (limit %d); delete old entries first", collection, limit),
		Details: map[string]any{"collection": collection, "limit": limit},
	}
}

// NewValidation creates a 422 error naming the field and the constraint that failed.
func NewValidation(field, constraint string) *SnapError {
	return &SnapError{
		Code:    ErrValidation,
		Status:  422,
		Message: fmt.Sprintf("invalid %s: %s", field, constraint),
		Details: map[string]any{"field": field},
	}
}

// NewStorage creates a 507 error for a full or unavailable persistence medium.
// The previous in-memory state remains authoritative for the session.
func NewStorage(err error) *SnapError {
	msg := "local storage is unavailable"
	details := map[string]any{}
	if err != nil {
		msg = fmt.Sprintf("local storage write failed: %v", err)
		details["cause"] = err
	}
	return &SnapError{
		Code:    ErrStorage,
		Status:  507,
		Message: msg,
		Details: details,
	}
}

// NewExternalService creates a 502 error for a failed collaborator call.
// These never block local log operations; the user may retry.
func NewExternalService(service string, err error) *SnapError {
	msg := fmt.Sprintf("%s request failed", service)
	details := map[string]any{"service": service}
	if err != nil {
		msg = fmt.Sprintf("%s request failed: %v", service, err)
		details["cause"] = err
	}
	return &SnapError{
		Code:    ErrExternalService,
		Status:  502,
		Message: msg,
		Details: details,
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *SnapError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &SnapError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// Is checks if an error is a SnapError with the given code.
func Is(err error, code ErrorCode) bool {
	if sErr, ok := err.(*SnapError); ok {
		return sErr.Code == code
	}
	return false
}
