package router

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"restaurante/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeHealth struct{ err error }

func (f fakeHealth) HealthCheck(context.Context) error { return f.err }

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	gin.SetMode(gin.TestMode)

	ok := NewRouter(Handlers{}, Config{Health: fakeHealth{}}, logger.Discard())
	w := serve(ok, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	down := NewRouter(Handlers{}, Config{Health: fakeHealth{err: errors.New("dial tcp: refused")}}, logger.Discard())
	w = serve(down, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRequestIDIsPropagated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(Handlers{}, Config{}, logger.Discard())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w := serve(r, req)
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
}

func TestCORS(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(Handlers{}, Config{CORSOrigins: []string{"http://localhost:5173"}}, logger.Discard())

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/stock", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := serve(r, req)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = serve(r, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
