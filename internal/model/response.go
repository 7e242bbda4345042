package model

import "time"

// Metadata for the response
type Metadata struct {
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"requestId"`
}

// Error details
type ErrorDetails struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

type APIError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details []ErrorDetails `json:"details,omitempty"`
}

// APIResponse is the envelope every endpoint answers with.
// Data is null on failures.
type APIResponse[T any] struct {
	IsSuccess bool      `json:"isSuccess"`
	Status    string    `json:"status"`
	Message   string    `json:"message,omitempty"`
	Metadata  Metadata  `json:"metadata"`
	Error     *APIError `json:"error,omitempty"`
	Data      T         `json:"data"`
}
