package handlers

import "errors"

var (
	// common error code
	ErrInternalServer = errors.New("INTERNAL_SERVER_ERROR")
	ErrInvalidRequest = errors.New("VALIDATION_FAILED")
	ErrInvalidJson    = errors.New("INVALID_JSON_FORMAT")
	ErrNotFound       = errors.New("NOT_FOUND")
	ErrMethodNotAllow = errors.New("METHOD_NOT_ALLOWED")
	ErrTooMany        = errors.New("TOO_MANY_REQUESTS")
	ErrBodyTooLarge   = errors.New("PAYLOAD_TOO_LARGE")

	// auth error code
	ErrAuthFailed   = errors.New("AUTH_FAILED")
	ErrInvalidToken = errors.New("INVALID_TOKEN")
	ErrTokenExpired = errors.New("TOKEN_EXPIRED")
	ErrBadPassword  = errors.New("INVALID_PASSWORD")

	// user error code
	ErrUserExists   = errors.New("USER_EXISTS")
	ErrUserNotFound = errors.New("USER_NOT_FOUND")
)
