package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Construction errors
const (
	// ErrCodeValidation indicates the credential or configuration failed validation.
	ErrCodeValidation ErrorCode = "VALIDATION_ERROR"
	// ErrCodeMissingField indicates a required field is absent or empty.
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"
	// ErrCodeTypeMismatch indicates a field value does not match its declared type.
	ErrCodeTypeMismatch ErrorCode = "TYPE_MISMATCH"
)

// Per-call errors
const (
	// ErrCodeSigning indicates the request could not be signed.
	ErrCodeSigning ErrorCode = "SIGNING_ERROR"
	// ErrCodeEncoding indicates the request body could not be serialized.
	ErrCodeEncoding ErrorCode = "ENCODING_ERROR"
	// ErrCodeSystem indicates a transport-level failure.
	ErrCodeSystem ErrorCode = "SYSTEM_ERROR"
	// ErrCodeApplication indicates the platform returned a non-zero status code.
	ErrCodeApplication ErrorCode = "APPLICATION_ERROR"
)

// Transport detail codes, carried in SYSTEM_ERROR details.
const (
	// ErrCodeTimeout indicates the round trip exceeded the client timeout.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
	// ErrCodeConnectionFailed indicates the platform could not be reached.
	ErrCodeConnectionFailed ErrorCode = "CONNECTION_FAILED"
	// ErrCodeInternal indicates an unexpected internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeSystem:           true,
	ErrCodeTimeout:          true,
	ErrCodeConnectionFailed: true,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
