package service

import "errors"

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrSessionNotFound = errors.New("session not found")
	ErrDraftNotFound   = errors.New("recipe draft not found")
	ErrItemNotFound    = errors.New("inventory item not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrUnauthorized    = errors.New("unauthorized")

	// ErrExternalService marks failures of the AI or vision collaborators.
	// Callers substitute a fallback instead of surfacing it.
	ErrExternalService = errors.New("external service unavailable")
)
