package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{&ValidationError{Fields: []FieldError{{Field: "guests"}}}, http.StatusUnprocessableEntity},
		{fmt.Errorf("%w: bad sheet", ErrBadRequest), http.StatusBadRequest},
		{ErrInvalidCredentials, http.StatusUnauthorized},
		{ErrMissingCredentials, http.StatusUnauthorized},
		{ErrInvalidToken, http.StatusUnauthorized},
		{ErrTokenExpired, http.StatusUnauthorized},
		{ErrForbidden, http.StatusForbidden},
		{ErrNotFound, http.StatusNotFound},
		{ErrTooManyRequests, http.StatusTooManyRequests},
		{NewStoreFailure(errors.New("connection refused")), http.StatusInternalServerError},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, StatusFor(tc.err), tc.err.Error())
	}
}

func TestStoreFailureTruncatesDiagnostic(t *testing.T) {
	cause := errors.New(strings.Repeat("x", 80))
	err := NewStoreFailure(cause)

	assert.ErrorIs(t, err, ErrStore)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "database error: "+strings.Repeat("x", 50), err.Error())
}

func TestTruncateCountsRunes(t *testing.T) {
	assert.Equal(t, "Kokum & Coast – C", Truncate("Kokum & Coast – Coastal", 17))
	assert.Equal(t, "short", Truncate("short", 50))
}

func TestRespondAppError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/reservations", nil)

	RespondAppError(c, &ValidationError{Fields: []FieldError{
		{Field: "guests", Rule: "max", Message: "must be at most 20"},
	}})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.True(t, c.IsAborted())

	var resp JSONResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Status)
	assert.Equal(t, "Validation failed", resp.Message)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "guests", resp.Errors[0].Field)
}

func TestRespondAppErrorHidesStoreDetails(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/orders", nil)

	RespondAppError(c, NewStoreFailure(errors.New("server selection error: context deadline exceeded, current topology")))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var resp JSONResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "database error: server selection error: context deadline exceeded,", resp.Message)
}

func TestRespondErrorKeepsChainRunning(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/health", nil)

	RespondError(c, http.StatusServiceUnavailable, NewStoreFailure(errors.New("sql: database is closed")))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.False(t, c.IsAborted())
	var resp JSONResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Status)
	assert.Equal(t, "database error: sql: database is closed", resp.Message)
}
