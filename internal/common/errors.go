package common

import "errors"

// Business logic errors
var (
	// General errors
	ErrNotFound  = errors.New("resource not found")
	ErrForbidden = errors.New("forbidden")

	// Mailbox errors
	ErrRecipientUnresolved    = errors.New("recipient not reachable")
	ErrAttachmentUploadFailed = errors.New("attachment upload failed")
	ErrUnauthorizedView       = errors.New("not authorized to view this message")

	// Auth errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("expired token")

	// Validation errors
	ErrInvalidInput = errors.New("invalid input")
)
