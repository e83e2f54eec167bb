package middlewares

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticAuth map[string]uint

func (a staticAuth) Authenticate(_ context.Context, token string) (uint, error) {
	if id, ok := a[token]; ok {
		return id, nil
	}
	return 0, errors.New("unknown token")
}

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw...)
	r.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userID": c.GetUint("userID")})
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	r := newEngine(AuthMiddleware(staticAuth{"good": 7}))

	tests := []struct {
		name   string
		header string
		query  string
		ws     bool
		status int
	}{
		{"missing header", "", "", false, http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", "", false, http.StatusUnauthorized},
		{"unknown token", "Bearer bad", "", false, http.StatusUnauthorized},
		{"valid bearer", "Bearer good", "", false, http.StatusOK},
		{"query token ignored for plain requests", "", "good", false, http.StatusUnauthorized},
		{"query token on websocket upgrade", "", "good", true, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me?token="+tt.query, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.ws {
				req.Header.Set("Upgrade", "websocket")
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.JSONEq(t, `{"userID":7}`, w.Body.String())
			}
		})
	}
}

func TestRequestLogger(t *testing.T) {
	log, hook := test.NewNullLogger()
	r := newEngine(RequestLogger(log))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "req-1", w.Header().Get(RequestIDHeader))
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "req-1", hook.LastEntry().Data["request_id"])
	assert.Equal(t, 200, hook.LastEntry().Data["status"])

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
}

func TestCORS(t *testing.T) {
	r := newEngine(CORS([]string{"https://app.example.com"}))

	req := httptest.NewRequest(http.MethodOptions, "/me", nil)
	req.Header.Set("Origin", "https://app.example.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
