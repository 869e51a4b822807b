package apperrors

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Kind is the machine-readable error category returned to clients.
type Kind string

const (
	KindAuthRejected          Kind = "auth_rejected"
	KindQuotaExceeded         Kind = "quota_exceeded"
	KindQueryTooLarge         Kind = "query_too_large"
	KindRetrievalError        Kind = "retrieval_error"
	KindGenerationError       Kind = "generation_error"
	KindDependencyUnavailable Kind = "dependency_unavailable"
	KindInternal              Kind = "internal_server_error"
)

// AppError carries a safe client-facing message alongside the wrapped cause.
// The cause is logged internally and never serialized to the client.
type AppError struct {
	Kind       Kind
	Message    string // Human-readable, safe for clients
	StatusCode int
	RetryAfter int // Seconds; 0 means no Retry-After header
	cause      error
}

func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.cause
}

// As extracts an *AppError from an error chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func NewAuthRejected(message string, status int) *AppError {
	return &AppError{Kind: KindAuthRejected, Message: message, StatusCode: status}
}

func NewQuotaExceeded(message string) *AppError {
	return &AppError{
		Kind:       KindQuotaExceeded,
		Message:    message,
		StatusCode: fiber.StatusTooManyRequests,
		RetryAfter: 86400,
	}
}

func NewQueryTooLarge(message string) *AppError {
	return &AppError{Kind: KindQueryTooLarge, Message: message, StatusCode: fiber.StatusBadRequest}
}

func NewRetrievalError(cause error) *AppError {
	return &AppError{
		Kind:       KindRetrievalError,
		Message:    "Arama servisi şu anda yanıt veremiyor. Lütfen tekrar deneyin.",
		StatusCode: fiber.StatusServiceUnavailable,
		cause:      cause,
	}
}

func NewGenerationError(cause error) *AppError {
	return &AppError{
		Kind:       KindGenerationError,
		Message:    "Yanıt oluşturulamadı. Lütfen tekrar deneyin.",
		StatusCode: fiber.StatusServiceUnavailable,
		cause:      cause,
	}
}

func NewDependencyUnavailable(dependency string, cause error) *AppError {
	return &AppError{
		Kind:       KindDependencyUnavailable,
		Message:    fmt.Sprintf("Servis geçici olarak erişilemiyor: %s. Lütfen tekrar deneyin.", dependency),
		StatusCode: fiber.StatusServiceUnavailable,
		cause:      cause,
	}
}

func NewInternal(cause error) *AppError {
	return &AppError{
		Kind:       KindInternal,
		Message:    "An unexpected error occurred. Please try again later.",
		StatusCode: fiber.StatusInternalServerError,
		cause:      cause,
	}
}
