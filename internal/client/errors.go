package client

import (
	"fmt"

	"github.com/mtlprog/agentdesk/internal/handler/dto"
)

// APIError is a non-2xx response decoded from the API error envelope.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("agentdesk: %s (%d): %s", e.Code, e.StatusCode, e.Message)
}

// Unwrap exposes the matching domain sentinel so callers can use errors.Is.
func (e *APIError) Unwrap() error {
	return dto.CodeToError(e.Code)
}

// UserMessage returns the server's message without status decoration.
func (e *APIError) UserMessage() string {
	return e.Message
}
