package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.InfoLevel)

	router := gin.New()
	router.Use(RequestLogger(zap.New(core)))
	router.GET("/things/:id", func(c *gin.Context) {
		loggerFrom(c).Info("inside handler")
		c.Status(http.StatusNoContent)
	})

	t.Run("assigns a request id", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/things/1", nil))

		id := w.Header().Get(RequestIDHeader)
		_, err := uuid.Parse(id)
		require.NoError(t, err)

		entries := logs.TakeAll()
		require.Len(t, entries, 2)
		assert.Equal(t, "inside handler", entries[0].Message)
		assert.Equal(t, id, entries[0].ContextMap()["request_id"])
		assert.Equal(t, "request", entries[1].Message)
		assert.Equal(t, "/things/:id", entries[1].ContextMap()["path"])
		assert.EqualValues(t, http.StatusNoContent, entries[1].ContextMap()["status"])
	})

	t.Run("keeps a valid incoming id", func(t *testing.T) {
		incoming := uuid.NewString()
		req := httptest.NewRequest("GET", "/things/1", nil)
		req.Header.Set(RequestIDHeader, incoming)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, incoming, w.Header().Get(RequestIDHeader))
		logs.TakeAll()
	})

	t.Run("replaces a malformed incoming id", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/things/1", nil)
		req.Header.Set(RequestIDHeader, "<script>")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.NotEqual(t, "<script>", w.Header().Get(RequestIDHeader))
		logs.TakeAll()
	})
}

func TestSecurityHeaders(t *testing.T) {
	env := setupTestEnv(t)

	w := env.do(t, "GET", "/ping", nil)

	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
}

func TestLoggerFrom_OutsideMiddleware(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.NotNil(t, loggerFrom(c))
}
