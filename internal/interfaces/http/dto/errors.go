package dto

import (
	"net/http"
	"strings"
)

// General error codes emitted by the HTTP layer itself
const (
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "INTERNAL_ERROR"
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "BAD_REQUEST"
	// ErrCodeValidation is used when request binding or validation fails
	ErrCodeValidation = "VALIDATION_ERROR"
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "NOT_FOUND"
	// ErrCodeConflict is used for general resource conflicts
	ErrCodeConflict = "CONFLICT"
)

// errorCodeHTTPStatus maps domain error codes to HTTP status codes.
// Codes not listed here fall through to the category rules in GetHTTPStatus.
var errorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:   http.StatusInternalServerError,
	ErrCodeBadRequest: http.StatusBadRequest,
	ErrCodeValidation: http.StatusBadRequest,

	// Resource errors
	"NOT_FOUND":            http.StatusNotFound,
	"ALREADY_EXISTS":       http.StatusConflict,
	"CONFLICT":             http.StatusConflict,
	"CONCURRENCY_CONFLICT": http.StatusConflict,
	"INVOICE_CONFLICT":     http.StatusConflict,
	"DUPLICATE_SLOT":       http.StatusConflict,

	// Business rule errors -> 422 Unprocessable Entity
	"INVALID_STATE":        http.StatusUnprocessableEntity,
	"INSUFFICIENT_CREDIT":  http.StatusUnprocessableEntity,
	"INVOICE_HAS_PAYMENTS": http.StatusUnprocessableEntity,
	"CUSTOMER_HAS_CREDIT":  http.StatusUnprocessableEntity,
	"CUSTOMER_INACTIVE":    http.StatusUnprocessableEntity,
	"NO_RECORDS":           http.StatusUnprocessableEntity,
	"BATCH_TOO_EARLY":      http.StatusUnprocessableEntity,
	"ALREADY_PAID":         http.StatusUnprocessableEntity,
	"ALREADY_RESOLVED":     http.StatusUnprocessableEntity,
}

// GetHTTPStatus returns the HTTP status code for a domain error code.
// Unlisted INVALID_* codes are treated as bad input and unknown codes as
// internal errors.
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	if strings.HasPrefix(code, "INVALID_") {
		return http.StatusBadRequest
	}
	if strings.HasSuffix(code, "_NOT_FOUND") {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
