package cors

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newRouter(p Policy) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(New(p))
	r.GET("/state/classroom", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/classroom", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestCORSScopedToPrefixes(t *testing.T) {
	r := newRouter(Policy{AllowedOrigins: []string{"https://ops.example.com/"}, PathPrefixes: []string{"/state/"}})

	req := httptest.NewRequest(http.MethodGet, "/state/classroom", nil)
	req.Header.Set("Origin", "https://ops.example.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "https://ops.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/classroom", nil)
	req.Header.Set("Origin", "https://ops.example.com")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSRejectsUnknownOrigin(t *testing.T) {
	r := newRouter(Policy{AllowedOrigins: []string{"https://ops.example.com"}})

	req := httptest.NewRequest(http.MethodGet, "/state/classroom", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSPreflight(t *testing.T) {
	r := newRouter(Policy{})

	req := httptest.NewRequest(http.MethodOptions, "/state/classroom", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
