package dto

import "net/http"

// General error codes
const (
	ErrCodeInternal     = "INTERNAL"
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeValidation   = "VALIDATION_ERROR"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeNotFound     = "NOT_FOUND"
)

// domainCodeHTTPStatus maps domain error codes to HTTP status codes.
// Codes not listed here fall back to 422: they are business rule
// violations raised by the domain layer.
var domainCodeHTTPStatus = map[string]int{
	ErrCodeInternal:     http.StatusInternalServerError,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeNotFound:     http.StatusNotFound,

	// Reconciliation and approval
	"AMOUNT_MISMATCH":    http.StatusUnprocessableEntity,
	"NON_POSITIVE_TOTAL": http.StatusUnprocessableEntity,
	"MISSING_OPERATOR":   http.StatusUnauthorized,

	// State machine violations
	"INVALID_STATE":        http.StatusConflict,
	"ALREADY_BATCHED":      http.StatusConflict,
	"CONCURRENCY_CONFLICT": http.StatusConflict,
	"ALREADY_EXISTS":       http.StatusConflict,

	// Batching and cart
	"BATCH_NOT_OPEN":  http.StatusConflict,
	"ALREADY_IN_CART": http.StatusConflict,
	"EMPTY_CART":      http.StatusBadRequest,

	// Input validation
	"INVALID_INPUT":           http.StatusBadRequest,
	"INVALID_BILL_NUMBER":     http.StatusBadRequest,
	"INVALID_CONSUMER_NUMBER": http.StatusBadRequest,
	"INVALID_BILL_DATES":      http.StatusBadRequest,
	"INVALID_AMOUNT":          http.StatusBadRequest,
	"INVALID_BATCH":           http.StatusBadRequest,
	"INVALID_VALIDATE_AT":     http.StatusBadRequest,
	"INVALID_RECHARGE_DATE":   http.StatusBadRequest,
	"INVALID_BILL":            http.StatusBadRequest,
}

// GetHTTPStatus returns the HTTP status code for a domain error code
func GetHTTPStatus(code string) int {
	if status, ok := domainCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusUnprocessableEntity
}
