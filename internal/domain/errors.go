package domain

import "fmt"

// Machine-readable error codes returned to the transport layer.
const (
	CodeEmptyMessage   = "EMPTY_MESSAGE"
	CodeMessageTooLong = "MESSAGE_TOO_LONG"
	CodeAuthError      = "AUTH_ERROR"
	CodeRateLimit      = "RATE_LIMIT"
	CodeServerError    = "SERVER_ERROR"
	CodeUnknownError   = "UNKNOWN_ERROR"
)

// ValidationError rejects user input before it touches the transcript.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// GenerationKind distinguishes the failure modes of the text-generation
// service that the caller may want to handle differently.
type GenerationKind string

const (
	GenerationAuth      GenerationKind = "auth"
	GenerationRateLimit GenerationKind = "rate_limit"
	GenerationServer    GenerationKind = "server"
	GenerationUnknown   GenerationKind = "unknown"
)

// GenerationError wraps a failed call to the generation service.
// In the conversation path it aborts the turn; the classifier absorbs it
// into a fallback classification instead.
type GenerationError struct {
	Kind   GenerationKind
	Status int
	Err    error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation service error (kind=%s, status=%d): %v", e.Kind, e.Status, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// ErrorCode maps a GenerationError kind onto the transport error codes.
func (e *GenerationError) ErrorCode() string {
	switch e.Kind {
	case GenerationAuth:
		return CodeAuthError
	case GenerationRateLimit:
		return CodeRateLimit
	case GenerationServer:
		return CodeServerError
	default:
		return CodeUnknownError
	}
}
