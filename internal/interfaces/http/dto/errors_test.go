package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusForbidden, GetHTTPStatus(ErrCodeForbidden))
	assert.Equal(t, http.StatusNotFound, GetHTTPStatus(ErrCodeNotFound))
	assert.Equal(t, http.StatusConflict, GetHTTPStatus(ErrCodeAlreadyProcessed))
	assert.Equal(t, http.StatusConflict, GetHTTPStatus(ErrCodeConcurrencyConflict))
	assert.Equal(t, http.StatusUnprocessableEntity, GetHTTPStatus(ErrCodeInsufficientStock))
	assert.Equal(t, http.StatusUnprocessableEntity, GetHTTPStatus(ErrCodeInvariantViolation))
	assert.Equal(t, http.StatusBadRequest, GetHTTPStatus(ErrCodeInvalidInput))

	t.Run("unknown codes fall back to 500", func(t *testing.T) {
		assert.Equal(t, http.StatusInternalServerError, GetHTTPStatus("ERR_SOMETHING_NEW"))
	})
}

func TestNormalizeErrorCode(t *testing.T) {
	assert.Equal(t, ErrCodeNotFound, NormalizeErrorCode("NOT_FOUND"))
	assert.Equal(t, ErrCodeForbidden, NormalizeErrorCode("FORBIDDEN"))
	assert.Equal(t, ErrCodeAlreadyProcessed, NormalizeErrorCode("ALREADY_PROCESSED"))
	assert.Equal(t, ErrCodeInsufficientStock, NormalizeErrorCode("INSUFFICIENT_STOCK"))
	assert.Equal(t, ErrCodeInvalidInput, NormalizeErrorCode("INVALID_QUANTITY"))
	assert.Equal(t, ErrCodeInvalidInput, NormalizeErrorCode("INVALID_PAYLOAD"))

	t.Run("unknown codes pass through", func(t *testing.T) {
		assert.Equal(t, "CUSTOM_CODE", NormalizeErrorCode("CUSTOM_CODE"))
	})
}
