package dto

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := map[string]int{
		ErrCodeUnknown:             http.StatusInternalServerError,
		ErrCodeInternal:            http.StatusInternalServerError,
		ErrCodeValidation:          http.StatusBadRequest,
		ErrCodeValidationRequired:  http.StatusBadRequest,
		ErrCodeUnauthorized:        http.StatusUnauthorized,
		ErrCodeForbidden:           http.StatusForbidden,
		ErrCodeNotFound:            http.StatusNotFound,
		ErrCodeAlreadyExists:       http.StatusConflict,
		ErrCodeConflict:            http.StatusConflict,
		ErrCodeConcurrencyConflict: http.StatusConflict,
		ErrCodeInvalidState:        http.StatusUnprocessableEntity,
		ErrCodeBusinessRule:        http.StatusUnprocessableEntity,
		ErrCodeInsufficientStock:   http.StatusUnprocessableEntity,
		ErrCodeBadRequest:          http.StatusBadRequest,
		ErrCodeInvalidInput:        http.StatusBadRequest,
	}

	for code, want := range tests {
		t.Run(code, func(t *testing.T) {
			assert.Equal(t, want, GetHTTPStatus(code))
		})
	}

	t.Run("unmapped code falls back to 500", func(t *testing.T) {
		assert.Equal(t, http.StatusInternalServerError, GetHTTPStatus("ERR_MYSTERY"))
	})
}

func TestNormalizeErrorCode(t *testing.T) {
	domainToHTTP := map[string]string{
		"NOT_FOUND":            ErrCodeNotFound,
		"ALREADY_EXISTS":       ErrCodeAlreadyExists,
		"INVALID_INPUT":        ErrCodeInvalidInput,
		"INVALID_STATE":        ErrCodeInvalidState,
		"CONCURRENCY_CONFLICT": ErrCodeConcurrencyConflict,
		"INSUFFICIENT_STOCK":   ErrCodeInsufficientStock,
		"VALIDATION_ERROR":     ErrCodeValidation,
		"BAD_REQUEST":          ErrCodeBadRequest,
		"INTERNAL_ERROR":       ErrCodeInternal,
	}

	for domain, want := range domainToHTTP {
		t.Run(domain, func(t *testing.T) {
			assert.Equal(t, want, NormalizeErrorCode(domain))
		})
	}

	t.Run("cross-tenant access maps to forbidden", func(t *testing.T) {
		assert.Equal(t, ErrCodeForbidden, NormalizeErrorCode("UNAUTHORIZED"))
	})

	t.Run("already normalized codes pass through", func(t *testing.T) {
		assert.Equal(t, ErrCodeNotFound, NormalizeErrorCode(ErrCodeNotFound))
		assert.Equal(t, ErrCodeValidation, NormalizeErrorCode(ErrCodeValidation))
	})

	t.Run("unknown codes pass through", func(t *testing.T) {
		assert.Equal(t, "LEDGER_CLOSED", NormalizeErrorCode("LEDGER_CLOSED"))
	})
}

func TestEveryErrorCodeHasAStatus(t *testing.T) {
	allCodes := []string{
		ErrCodeUnknown, ErrCodeInternal,
		ErrCodeValidation, ErrCodeValidationRequired, ErrCodeValidationFormat, ErrCodeValidationRange,
		ErrCodeUnauthorized, ErrCodeForbidden,
		ErrCodeNotFound, ErrCodeAlreadyExists, ErrCodeConflict, ErrCodeConcurrencyConflict,
		ErrCodeInvalidState, ErrCodeBusinessRule, ErrCodeInsufficientStock,
		ErrCodeBadRequest, ErrCodeInvalidInput, ErrCodeInvalidJSON,
	}

	for _, code := range allCodes {
		status, ok := ErrorCodeHTTPStatus[code]
		assert.True(t, ok, "code %s missing from ErrorCodeHTTPStatus", code)
		assert.GreaterOrEqual(t, status, 400, "code %s should map to an error status", code)
		assert.Contains(t, code, "ERR_")
	}

	t.Run("every normalization target is mapped", func(t *testing.T) {
		for domain, httpCode := range DomainErrorCodeMapping {
			_, ok := ErrorCodeHTTPStatus[httpCode]
			assert.True(t, ok, "domain code %s normalizes to unmapped %s", domain, httpCode)
		}
	})
}

func TestNewErrorResponseNormalizesDomainCode(t *testing.T) {
	before := time.Now()
	resp := NewErrorResponse("NOT_FOUND", "Stock batch not found")

	assert.False(t, resp.Success)
	assert.Nil(t, resp.Data)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeNotFound, resp.Error.Code)
	assert.Equal(t, "Stock batch not found", resp.Error.Message)
	assert.False(t, resp.Error.Timestamp.Before(before))
	assert.False(t, resp.Error.Timestamp.After(time.Now()))
}

func TestNewErrorResponseWithRequestID(t *testing.T) {
	resp := NewErrorResponseWithRequestID(ErrCodeConcurrencyConflict, "Batch was modified concurrently", "req-ledger-42")

	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeConcurrencyConflict, resp.Error.Code)
	assert.Equal(t, "Batch was modified concurrently", resp.Error.Message)
	assert.Equal(t, "req-ledger-42", resp.Error.RequestID)
	assert.NotZero(t, resp.Error.Timestamp)
}

func TestNewValidationErrorResponse(t *testing.T) {
	details := []ValidationDetail{
		{Field: "consume_mode", Message: "Must be one of: fifo lifo"},
		{Field: "quantity", Message: "Must be greater than 0"},
	}

	resp := NewValidationErrorResponse("Request validation failed", "req-ledger-7", details)

	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
	assert.Equal(t, "Request validation failed", resp.Error.Message)
	assert.Equal(t, "req-ledger-7", resp.Error.RequestID)
	require.Len(t, resp.Error.Details, 2)
	assert.Equal(t, "consume_mode", resp.Error.Details[0].Field)
	assert.Equal(t, "Must be one of: fifo lifo", resp.Error.Details[0].Message)
}

func TestNewErrorResponseWithHelp(t *testing.T) {
	help := "https://docs.example.com/errors/tenancy"
	resp := NewErrorResponseWithHelp(ErrCodeUnauthorized, "Missing tenant header", "req-001", help)

	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeUnauthorized, resp.Error.Code)
	assert.Equal(t, "Missing tenant header", resp.Error.Message)
	assert.Equal(t, help, resp.Error.Help)
}

func TestErrorResponseRoundTripsJSON(t *testing.T) {
	resp := NewErrorResponseWithRequestID(ErrCodeNotFound, "Replenishment request not found", "req-ledger-9")

	data, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded Response
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.False(t, decoded.Success)
	require.NotNil(t, decoded.Error)
	assert.Equal(t, ErrCodeNotFound, decoded.Error.Code)
	assert.Equal(t, "Replenishment request not found", decoded.Error.Message)
	assert.Equal(t, "req-ledger-9", decoded.Error.RequestID)
}

func TestNewSuccessResponse(t *testing.T) {
	resp := NewSuccessResponse(map[string]string{"batch_id": "b-1"})

	assert.True(t, resp.Success)
	assert.NotNil(t, resp.Data)
	assert.Nil(t, resp.Error)
	assert.Nil(t, resp.Meta)
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	tests := []struct {
		name      string
		total     int64
		pageSize  int
		wantPages int
		wantSize  int
	}{
		{"even split", 100, 10, 10, 10},
		{"partial last page", 101, 10, 11, 10},
		{"empty result", 0, 10, 0, 10},
		{"single partial page", 9, 10, 1, 10},
		{"exactly one page", 10, 10, 1, 10},
		{"just over one page", 11, 10, 2, 10},
		{"zero size defaults to 20", 100, 0, 5, 20},
		{"negative size defaults to 20", 100, -1, 5, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := NewSuccessResponseWithMeta([]string{"row"}, tt.total, 1, tt.pageSize)

			assert.True(t, resp.Success)
			require.NotNil(t, resp.Meta)
			assert.Equal(t, tt.total, resp.Meta.Total)
			assert.Equal(t, 1, resp.Meta.Page)
			assert.Equal(t, tt.wantSize, resp.Meta.PageSize)
			assert.Equal(t, tt.wantPages, resp.Meta.TotalPages)
		})
	}
}
