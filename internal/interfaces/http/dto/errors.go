package dto

import "net/http"

// HTTP-facing error codes. Every code the API can emit is declared here and
// follows the ERR_<CATEGORY> convention so clients can switch on prefixes.
const (
	ErrCodeUnknown  = "ERR_UNKNOWN"
	ErrCodeInternal = "ERR_INTERNAL"

	ErrCodeValidation         = "ERR_VALIDATION"
	ErrCodeValidationRequired = "ERR_VALIDATION_REQUIRED"
	ErrCodeValidationFormat   = "ERR_VALIDATION_FORMAT"
	ErrCodeValidationRange    = "ERR_VALIDATION_RANGE"

	// ErrCodeUnauthorized means tenant identification is missing or invalid.
	// ErrCodeForbidden covers cross-tenant access attempts.
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	ErrCodeForbidden    = "ERR_FORBIDDEN"

	ErrCodeNotFound            = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists       = "ERR_ALREADY_EXISTS"
	ErrCodeConflict            = "ERR_CONFLICT"
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"

	ErrCodeInvalidState      = "ERR_INVALID_STATE"
	ErrCodeBusinessRule      = "ERR_BUSINESS_RULE"
	ErrCodeInsufficientStock = "ERR_INSUFFICIENT_STOCK"

	ErrCodeBadRequest   = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	ErrCodeInvalidJSON  = "ERR_INVALID_JSON"

	ErrCodeRequestTooLarge = "ERR_REQUEST_TOO_LARGE"
)

// ErrorCodeHTTPStatus maps each error code to its HTTP status. Built from
// status groups so adding a code means adding it to exactly one list.
var ErrorCodeHTTPStatus = buildStatusMap(map[int][]string{
	http.StatusInternalServerError: {ErrCodeUnknown, ErrCodeInternal},
	http.StatusBadRequest: {
		ErrCodeValidation, ErrCodeValidationRequired, ErrCodeValidationFormat, ErrCodeValidationRange,
		ErrCodeBadRequest, ErrCodeInvalidInput, ErrCodeInvalidJSON,
	},
	http.StatusUnauthorized: {ErrCodeUnauthorized},
	http.StatusForbidden:    {ErrCodeForbidden},
	http.StatusNotFound:     {ErrCodeNotFound},
	http.StatusConflict:     {ErrCodeAlreadyExists, ErrCodeConflict, ErrCodeConcurrencyConflict},
	// Business rule violations are well-formed requests the ledger refuses.
	http.StatusUnprocessableEntity:   {ErrCodeInvalidState, ErrCodeBusinessRule, ErrCodeInsufficientStock},
	http.StatusRequestEntityTooLarge: {ErrCodeRequestTooLarge},
})

func buildStatusMap(groups map[int][]string) map[string]int {
	m := make(map[string]int)
	for status, codes := range groups {
		for _, code := range codes {
			m[code] = status
		}
	}
	return m
}

// GetHTTPStatus returns the HTTP status for an error code, defaulting to 500
// for codes the map does not know.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping translates domain error codes to the HTTP-facing
// ones. Domain UNAUTHORIZED means the resource belongs to another tenant,
// which surfaces as 403 Forbidden rather than a missing-credentials 401.
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":            ErrCodeNotFound,
	"ALREADY_EXISTS":       ErrCodeAlreadyExists,
	"INVALID_INPUT":        ErrCodeInvalidInput,
	"INVALID_STATE":        ErrCodeInvalidState,
	"UNAUTHORIZED":         ErrCodeForbidden,
	"CONCURRENCY_CONFLICT": ErrCodeConcurrencyConflict,
	"INSUFFICIENT_STOCK":   ErrCodeInsufficientStock,
	"VALIDATION_ERROR":     ErrCodeValidation,
	"BAD_REQUEST":          ErrCodeBadRequest,
	"INTERNAL_ERROR":       ErrCodeInternal,
}

// NormalizeErrorCode converts a domain error code to the HTTP-facing format.
// Codes already in that format, or unknown ones, pass through unchanged.
func NormalizeErrorCode(code string) string {
	if httpCode, ok := DomainErrorCodeMapping[code]; ok {
		return httpCode
	}
	return code
}
