package dto

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/mtlprog/agentdesk/internal/domain"
	"github.com/mtlprog/agentdesk/internal/logger"
)

// Error codes returned in the error envelope.
const (
	CodeAgentNotFound   = "AGENT_NOT_FOUND"
	CodeVersionNotFound = "VERSION_NOT_FOUND"
	CodeVersionConflict = "VERSION_CONFLICT"
	CodeAccessDenied    = "INSUFFICIENT_ACCESS"
	CodeFieldRestricted = "FIELD_RESTRICTED"
	CodeInvalidToken    = "INVALID_TOKEN"
	CodeAccountInactive = "ACCOUNT_INACTIVE"
	CodeValidation      = "VALIDATION_ERROR"
	CodeInvalidJSON     = "INVALID_JSON"
	CodeInvalidRequest  = "INVALID_REQUEST"
	CodeInternal        = "INTERNAL_ERROR"
)

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error code and message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewErrorResponse creates a new error response.
func NewErrorResponse(code, message string) ErrorResponse {
	return ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	}
}

// MapDomainError maps domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code string, message string) {
	message = err.Error()

	switch {
	// Agent errors
	case errors.Is(err, domain.ErrAgentNotFound):
		return http.StatusNotFound, CodeAgentNotFound, message
	case errors.Is(err, domain.ErrVersionNotFound):
		return http.StatusNotFound, CodeVersionNotFound, message
	case errors.Is(err, domain.ErrVersionConflict):
		return http.StatusConflict, CodeVersionConflict, message

	// Permission errors
	case errors.Is(err, domain.ErrFieldRestricted):
		return http.StatusForbidden, CodeFieldRestricted, message
	case errors.Is(err, domain.ErrPermissionDenied):
		return http.StatusForbidden, CodeAccessDenied, message

	// Account errors
	case errors.Is(err, domain.ErrAccountNotFound):
		return http.StatusUnauthorized, CodeInvalidToken, message
	case errors.Is(err, domain.ErrInvalidToken):
		return http.StatusUnauthorized, CodeInvalidToken, message
	case errors.Is(err, domain.ErrAccountInactive):
		return http.StatusUnauthorized, CodeAccountInactive, message

	// Validation errors
	case errors.Is(err, domain.ErrEmptyName),
		errors.Is(err, domain.ErrNameTooLong),
		errors.Is(err, domain.ErrInvalidMCP),
		errors.Is(err, domain.ErrInvalidAvatar),
		errors.Is(err, domain.ErrEmptyChangeNote):
		return http.StatusUnprocessableEntity, CodeValidation, message

	default:
		log := logger.Get("api")
		log.Error().
			Err(err).
			Str("error_type", fmt.Sprintf("%T", err)).
			Msg("unmapped domain error returned to client")
		return http.StatusInternalServerError, CodeInternal, "Internal server error"
	}
}

// CodeToError maps an error code from the envelope back to its domain sentinel.
// Returns nil for codes without a sentinel.
func CodeToError(code string) error {
	switch code {
	case CodeAgentNotFound:
		return domain.ErrAgentNotFound
	case CodeVersionNotFound:
		return domain.ErrVersionNotFound
	case CodeVersionConflict:
		return domain.ErrVersionConflict
	case CodeFieldRestricted:
		return domain.ErrFieldRestricted
	case CodeAccessDenied:
		return domain.ErrPermissionDenied
	case CodeInvalidToken:
		return domain.ErrInvalidToken
	case CodeAccountInactive:
		return domain.ErrAccountInactive
	}
	return nil
}
