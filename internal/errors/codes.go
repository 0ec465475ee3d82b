package errors

import (
	"fmt"
)

// ErrorCode represents a specific error type in the reply pipeline.
type ErrorCode string

const (
	// ErrCodeTransientProvider indicates a single provider attempt failed
	// (timeout or upstream 5xx) and the router moved to the next candidate.
	ErrCodeTransientProvider ErrorCode = "TRANSIENT_PROVIDER"
	// ErrCodeAllProvidersExhausted indicates every configured provider failed
	// and the canned fallback reply was used.
	ErrCodeAllProvidersExhausted ErrorCode = "ALL_PROVIDERS_EXHAUSTED"
	// ErrCodeContextStoreUnavailable indicates the context store failed and the
	// pipeline proceeded without conversational memory.
	ErrCodeContextStoreUnavailable ErrorCode = "CONTEXT_STORE_UNAVAILABLE"
	// ErrCodeKnowledgeMiss indicates no knowledge items were available for the
	// tenant; the reply was produced without enrichment.
	ErrCodeKnowledgeMiss ErrorCode = "KNOWLEDGE_MISS"
	// ErrCodeInvalidProfile indicates the tenant personality profile was
	// missing required fields and a fallback profile was used.
	ErrCodeInvalidProfile ErrorCode = "INVALID_PROFILE"
	// ErrCodeUnauthorized indicates webhook authentication failure.
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	// ErrCodeRateLimitExceeded indicates the tenant exceeded its message rate.
	ErrCodeRateLimitExceeded ErrorCode = "RATE_LIMIT_EXCEEDED"
	// ErrCodeInvalidArgument indicates invalid input parameters.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	// ErrCodeContextCanceled indicates the caller went away mid-pipeline.
	ErrCodeContextCanceled ErrorCode = "CONTEXT_CANCELED"
	// ErrCodeTimeout indicates the operation exceeded its time budget.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
)

// ServiceError represents a structured error for pipeline operations.
type ServiceError struct {
	Code    ErrorCode
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *ServiceError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error.
func (e *ServiceError) WithContext(key string, value interface{}) *ServiceError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// Convenience constructors for common error types.

// TransientProvider creates a transient provider error.
func TransientProvider(provider string, cause error) *ServiceError {
	return &ServiceError{
		Code:    ErrCodeTransientProvider,
		Message: fmt.Sprintf("provider attempt failed: %s", provider),
		Cause:   cause,
	}
}

// AllProvidersExhausted creates an all-providers-exhausted error.
func AllProvidersExhausted(attempts int) *ServiceError {
	return &ServiceError{
		Code:    ErrCodeAllProvidersExhausted,
		Message: fmt.Sprintf("all %d provider attempts failed", attempts),
	}
}

// ContextStoreUnavailable creates a context store unavailable error.
func ContextStoreUnavailable(cause error) *ServiceError {
	return &ServiceError{Code: ErrCodeContextStoreUnavailable, Message: "context store unavailable", Cause: cause}
}

// InvalidProfile creates an invalid profile error.
func InvalidProfile(tenant string, cause error) *ServiceError {
	return &ServiceError{
		Code:    ErrCodeInvalidProfile,
		Message: fmt.Sprintf("invalid personality profile for tenant %s", tenant),
		Cause:   cause,
	}
}

// Unauthorized creates an unauthorized error.
func Unauthorized(msg string) *ServiceError {
	return &ServiceError{Code: ErrCodeUnauthorized, Message: msg}
}

// RateLimitExceeded creates a rate limit exceeded error.
func RateLimitExceeded(tenant string) *ServiceError {
	return &ServiceError{
		Code:    ErrCodeRateLimitExceeded,
		Message: fmt.Sprintf("rate limit exceeded for tenant %s", tenant),
	}
}

// InvalidArgument creates an invalid argument error.
func InvalidArgument(msg string) *ServiceError {
	return &ServiceError{Code: ErrCodeInvalidArgument, Message: msg}
}

// ContextCanceled creates a context canceled error.
func ContextCanceled(cause error) *ServiceError {
	return &ServiceError{Code: ErrCodeContextCanceled, Message: "operation canceled", Cause: cause}
}

// Timeout creates a timeout error.
func Timeout(msg string) *ServiceError {
	return &ServiceError{Code: ErrCodeTimeout, Message: msg}
}

// Wrap wraps an existing error with additional context.
func Wrap(cause error, code ErrorCode, msg string) *ServiceError {
	return &ServiceError{Code: code, Message: msg, Cause: cause}
}

// IsCode checks if an error is of a specific code.
func IsCode(err error, code ErrorCode) bool {
	if svcErr, ok := err.(*ServiceError); ok {
		return svcErr.Code == code
	}
	return false
}

// GetCodeFromError extracts the error code from any error.
// Returns the provided default code if the error is not a ServiceError.
func GetCodeFromError(err error, defaultCode ErrorCode) ErrorCode {
	if svcErr, ok := err.(*ServiceError); ok {
		return svcErr.Code
	}
	return defaultCode
}
