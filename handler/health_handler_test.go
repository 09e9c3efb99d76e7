package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"reading-list-api/router"

	"github.com/stretchr/testify/assert"
)

func TestHealthCheck(t *testing.T) {
	r := router.NewRouter(nil, nil, nil, nil)

	req := httptest.NewRequest("GET", "/health", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status": "API is healthy and running"}`, rr.Body.String())
}
