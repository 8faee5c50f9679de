package domain

import "errors"

// Domain-specific errors for business logic validation.
var (
	// Agent errors
	ErrAgentNotFound   = errors.New("agent not found")
	ErrAgentNotLoaded  = errors.New("agent not loaded")
	ErrVersionNotFound = errors.New("version not found")
	ErrVersionConflict = errors.New("agent version changed concurrently")

	// Permission errors
	ErrPermissionDenied  = errors.New("permission denied")
	ErrFieldRestricted   = errors.New("field cannot be modified")
	ErrHistoricalVersion = errors.New("cannot edit a previous version")
	ErrSaveInProgress    = errors.New("save already in progress")

	// Account errors
	ErrAccountNotFound = errors.New("account not found")
	ErrAccountInactive = errors.New("account is inactive")
	ErrInvalidToken    = errors.New("invalid authentication token")

	// Validation errors
	ErrEmptyName       = errors.New("agent name is required")
	ErrNameTooLong     = errors.New("agent name is too long")
	ErrInvalidMCP      = errors.New("invalid MCP configuration")
	ErrInvalidAvatar   = errors.New("invalid avatar color")
	ErrEmptyChangeNote = errors.New("change description is required")
)
