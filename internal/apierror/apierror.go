// Package apierror provides standardized error response structures for the API.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, DB errors, etc.).
package apierror

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func New(msg string) *APIError {
	return &APIError{Success: false, Error: msg}
}

// ValidationError wraps multiple field errors.
type ValidationError struct {
	Success bool              `json:"success"`
	Error   string            `json:"error"`
	Fields  map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Success: false, Error: "validation failed", Fields: fields}
}

// Created is the body returned by manual write endpoints on success.
type Created struct {
	Success bool `json:"success"`
	ID      uint `json:"id"`
}

func NewCreated(id uint) *Created {
	return &Created{Success: true, ID: id}
}
