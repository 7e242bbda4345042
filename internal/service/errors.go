package service

import "errors"

// Expected failures, surfaced to clients through Result.Message.
var (
	ErrUserExists           = errors.New("User already exists with this email address")
	ErrInvalidCredentials   = errors.New("Login failed, Invalid email or password")
	ErrUserNotFound         = errors.New("User not found.")
	ErrOldPasswordIncorrect = errors.New("Old password is incorrect.")
	ErrPasswordTooLong      = errors.New("Password must be at most 72 bytes.")
	ErrIDMissing            = errors.New("user id is missing")
)
