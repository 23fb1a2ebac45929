// File: internal/services/ai/errors.go
package ai

import (
	"context"
	"errors"
	"fmt"
)

type ErrorType string

const (
	ErrTypeUnavailable   ErrorType = "UNAVAILABLE"
	ErrTypeNotFound      ErrorType = "NOT_FOUND"
	ErrTypeProvider      ErrorType = "PROVIDER"
	ErrTypeTimeout       ErrorType = "TIMEOUT"
	ErrTypeTranscription ErrorType = "TRANSCRIPTION"
	ErrTypeConfig        ErrorType = "CONFIG"
)

type AIError struct {
	Type      ErrorType
	Operation string
	Message   string
	Cause     error
}

func (e *AIError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("AI %s error in %s: %s (caused by: %v)",
			e.Type, e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("AI %s error in %s: %s", e.Type, e.Operation, e.Message)
}

func (e *AIError) Unwrap() error { return e.Cause }

func NewUnavailableError(operation string) *AIError {
	return &AIError{Type: ErrTypeUnavailable, Operation: operation, Message: "no AI provider is available"}
}

func NewNotFoundError(operation, path string) *AIError {
	return &AIError{Type: ErrTypeNotFound, Operation: operation, Message: fmt.Sprintf("file not found: %s", path)}
}

func NewProviderError(operation, msg string, cause error) *AIError {
	// Timeouts are a ProviderError variant; the gateway does not treat
	// them differently, the type only aids diagnostics.
	t := ErrTypeProvider
	if errors.Is(cause, context.DeadlineExceeded) {
		t = ErrTypeTimeout
	}
	return &AIError{Type: t, Operation: operation, Message: msg, Cause: cause}
}

func NewTranscriptionError(msg string, cause error) *AIError {
	return &AIError{Type: ErrTypeTranscription, Operation: "transcribe", Message: msg, Cause: cause}
}

func NewConfigError(msg string) *AIError {
	return &AIError{Type: ErrTypeConfig, Operation: "config", Message: msg}
}

// IsNotFound reports whether err is a NOT_FOUND AIError.
func IsNotFound(err error) bool {
	var aiErr *AIError
	return errors.As(err, &aiErr) && aiErr.Type == ErrTypeNotFound
}
