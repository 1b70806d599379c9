package dto

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrCodeUnknown, http.StatusInternalServerError},
		{ErrCodeInternal, http.StatusInternalServerError},
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeAmountMismatch, http.StatusBadRequest},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeInvalidCredentials, http.StatusUnauthorized},
		{ErrCodeForbidden, http.StatusForbidden},
		{ErrCodeTokenExpired, http.StatusUnauthorized},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeAlreadyExists, http.StatusConflict},
		{ErrCodeConcurrencyConflict, http.StatusConflict},
		{ErrCodeDuplicateRequest, http.StatusConflict},
		{ErrCodeRequestTooLarge, http.StatusRequestEntityTooLarge},
		{ErrCodeRateLimited, http.StatusTooManyRequests},
		{"ERR_INVALID_WEIGHT", http.StatusBadRequest},
		{"ERR_INVALID_TOUCH", http.StatusBadRequest},
		{"ERR_PASSWORD_HASH_ERROR", http.StatusInternalServerError},
		{"UNKNOWN_CODE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestNormalizeErrorCode(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"NOT_FOUND", ErrCodeNotFound},
		{"ALREADY_EXISTS", ErrCodeAlreadyExists},
		{"CONCURRENCY_CONFLICT", ErrCodeConcurrencyConflict},
		{"DUPLICATE_REQUEST", ErrCodeDuplicateRequest},
		{"AMOUNT_MISMATCH", ErrCodeAmountMismatch},
		{"INVALID_CREDENTIALS", ErrCodeInvalidCredentials},
		{"INVALID_TOKEN", ErrCodeTokenInvalid},
		{"TOKEN_EXPIRED", ErrCodeTokenExpired},
		{"INVALID_WEIGHT", "ERR_INVALID_WEIGHT"},
		{ErrCodeNotFound, ErrCodeNotFound},
		{"", ErrCodeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeErrorCode(tt.input))
		})
	}
}

func TestDomainCodesMapToSpecifiedStatuses(t *testing.T) {
	tests := map[string]int{
		"INVALID_ITEMS":        http.StatusBadRequest,
		"AMOUNT_MISMATCH":      http.StatusBadRequest,
		"NOT_FOUND":            http.StatusNotFound,
		"ALREADY_EXISTS":       http.StatusConflict,
		"INVALID_CREDENTIALS":  http.StatusUnauthorized,
		"FORBIDDEN":            http.StatusForbidden,
		"DUPLICATE_REQUEST":    http.StatusConflict,
		"CONCURRENCY_CONFLICT": http.StatusConflict,
	}
	for code, status := range tests {
		assert.Equal(t, status, GetHTTPStatus(NormalizeErrorCode(code)), code)
	}
}

func TestNewErrorResponseWithRequestID(t *testing.T) {
	before := time.Now()
	resp := NewErrorResponseWithRequestID("NOT_FOUND", "Customer not found", "req-123")

	assert.False(t, resp.Success)
	assert.Nil(t, resp.Data)
	if assert.NotNil(t, resp.Error) {
		assert.Equal(t, ErrCodeNotFound, resp.Error.Code)
		assert.Equal(t, "Customer not found", resp.Error.Message)
		assert.Equal(t, "req-123", resp.Error.RequestID)
		assert.False(t, resp.Error.Timestamp.Before(before))
	}
}

func TestNewValidationErrorResponse(t *testing.T) {
	details := []ValidationDetail{
		{Field: "customerId", Message: "This field is required"},
		{Field: "items", Message: "Must be at least 1"},
	}
	resp := NewValidationErrorResponse("Request validation failed", "req-789", details)

	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
	assert.Equal(t, "req-789", resp.Error.RequestID)
	assert.Len(t, resp.Error.Details, 2)
	assert.Equal(t, "customerId", resp.Error.Details[0].Field)
}

func TestErrorResponseJSON(t *testing.T) {
	data, err := json.Marshal(NewErrorResponseWithRequestID(ErrCodeNotFound, "Bill not found", "req-1"))
	assert.NoError(t, err)

	var decoded map[string]interface{}
	assert.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, false, decoded["success"])
	errObj := decoded["error"].(map[string]interface{})
	assert.Equal(t, "req-1", errObj["request_id"])
	assert.NotContains(t, errObj, "details")
	assert.NotContains(t, decoded, "data")
}

func TestNewPageResponse(t *testing.T) {
	resp := NewPageResponse([]string{"a", "b"}, 2, 3, 50)

	assert.True(t, resp.Success)
	assert.Nil(t, resp.Error)
	if assert.NotNil(t, resp.Meta) {
		assert.Equal(t, 3, resp.Meta.Page)
		assert.Equal(t, 50, resp.Meta.PageSize)
		assert.Equal(t, 2, resp.Meta.Count)
	}
}

func TestListRequest_Normalize(t *testing.T) {
	r := ListRequest{}.Normalize()
	assert.Equal(t, 1, r.Page)
	assert.Equal(t, DefaultPageSize, r.PageSize)
	assert.Equal(t, "desc", r.OrderDir)

	r = ListRequest{Page: 3, PageSize: 1000, OrderDir: "asc"}.Normalize()
	assert.Equal(t, 3, r.Page)
	assert.Equal(t, MaxPageSize, r.PageSize)
	assert.Equal(t, "asc", r.OrderDir)
}
