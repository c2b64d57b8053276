package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError is the unified client error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried by the caller.
	Retryable bool `json:"retryable"`
	// Details contains additional context for the error. For APPLICATION_ERROR
	// it is the platform response envelope.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any, len(details))
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Retryable: IsRetryableCode(code),
	}
}

// --- Constructors ---

// Validation creates a VALIDATION_ERROR.
func Validation(message string) *AppError {
	return &AppError{Code: ErrCodeValidation, Message: message}
}

// MissingField creates an error for a required field that is absent or empty.
func MissingField(field string) *AppError {
	return &AppError{
		Code: ErrCodeMissingField, Message: fmt.Sprintf("missing required field: %s", field),
		Details: map[string]any{"field": field},
	}
}

// TypeMismatch creates an error for a field whose value has the wrong type.
func TypeMismatch(field, expected string, got any) *AppError {
	return &AppError{
		Code: ErrCodeTypeMismatch, Message: fmt.Sprintf("field %s must be %s, got %T", field, expected, got),
		Details: map[string]any{"field": field, "expected": expected},
	}
}

// Signing creates a SIGNING_ERROR. The request that produced it was not sent.
func Signing(reason string) *AppError {
	return &AppError{Code: ErrCodeSigning, Message: reason}
}

// Encoding creates an ENCODING_ERROR for a body that could not be serialized.
func Encoding(cause error) *AppError {
	return &AppError{Code: ErrCodeEncoding, Message: "encode request body", Cause: cause}
}

// System creates a SYSTEM_ERROR wrapping a transport failure.
func System(cause error) *AppError {
	msg := "transport failure"
	if cause != nil {
		msg = cause.Error()
	}
	return &AppError{
		Code: ErrCodeSystem, Message: msg, Retryable: true, Cause: cause,
		Details: map[string]any{"type": "SystemError"},
	}
}

// Application creates an APPLICATION_ERROR carrying the platform envelope.
func Application(payload map[string]any) *AppError {
	msg := "platform returned an error"
	if m, ok := payload["message"].(string); ok && m != "" {
		msg = m
	}
	return &AppError{Code: ErrCodeApplication, Message: msg, Details: payload}
}

// Internal creates an INTERNAL_ERROR wrapping an unexpected failure.
func Internal(cause error) *AppError {
	return &AppError{Code: ErrCodeInternal, Message: "internal error", Cause: cause}
}

// --- Inspection ---

// IsAppError checks if an error is an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HasCode reports whether err is an AppError with the given code.
func HasCode(err error, code ErrorCode) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}

// IsValidation reports whether err is a VALIDATION_ERROR.
func IsValidation(err error) bool { return HasCode(err, ErrCodeValidation) }

// IsSigning reports whether err is a SIGNING_ERROR.
func IsSigning(err error) bool { return HasCode(err, ErrCodeSigning) }

// IsSystem reports whether err is a SYSTEM_ERROR.
func IsSystem(err error) bool { return HasCode(err, ErrCodeSystem) }

// IsApplication reports whether err is an APPLICATION_ERROR.
func IsApplication(err error) bool { return HasCode(err, ErrCodeApplication) }

// IsRetryable reports whether err is an AppError marked retryable.
func IsRetryable(err error) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Retryable
}

// Payload returns the platform envelope carried by an APPLICATION_ERROR,
// or nil for any other error.
func Payload(err error) map[string]any {
	appErr, ok := AsAppError(err)
	if !ok || appErr.Code != ErrCodeApplication {
		return nil
	}
	return appErr.Details
}
