package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestLoggingMiddleware(t *testing.T) {
	middleware := LoggingMiddleware(zap.NewNop())

	handlerCalled := false
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		if _, err := w.Write([]byte(`{"shortUrl":"http://localhost:8080/abc1234"}`)); err != nil {
			t.Logf("Failed to write response: %v", err)
		}
	})

	req := httptest.NewRequest(http.MethodPost, "/api/shorten", nil)
	w := httptest.NewRecorder()

	middleware(handler).ServeHTTP(w, req)

	// Middleware не меняет ответ обработчика
	assert.True(t, handlerCalled)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, `{"shortUrl":"http://localhost:8080/abc1234"}`, w.Body.String())
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
}

func TestLoggingMiddleware_StatusCodes(t *testing.T) {
	middleware := LoggingMiddleware(zap.NewNop())

	statusCodes := []int{http.StatusOK, http.StatusCreated, http.StatusFound, http.StatusBadRequest, http.StatusNotFound, http.StatusInternalServerError}

	for _, statusCode := range statusCodes {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(statusCode)
		})

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		w := httptest.NewRecorder()

		middleware(handler).ServeHTTP(w, req)

		assert.Equal(t, statusCode, w.Code)
	}
}

func TestResponseInfo(t *testing.T) {
	w := httptest.NewRecorder()
	info := &responseInfo{ResponseWriter: w, status: http.StatusOK}

	info.WriteHeader(http.StatusNotFound)
	assert.Equal(t, http.StatusNotFound, info.status)
	assert.Equal(t, http.StatusNotFound, w.Code)

	n, err := info.Write([]byte("not found"))
	assert.NoError(t, err)
	assert.Equal(t, 9, n)
	assert.Equal(t, 9, info.bytes)

	// Размер накапливается между вызовами Write
	_, err = info.Write([]byte(" page"))
	assert.NoError(t, err)
	assert.Equal(t, 14, info.bytes)
	assert.Equal(t, "not found page", w.Body.String())
}
