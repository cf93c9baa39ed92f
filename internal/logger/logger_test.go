package logger

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(&LogConfig{Level: "debug", Environment: "development", ServiceName: "test"}))
	assert.True(t, GetLogger().Core().Enabled(zap.DebugLevel))

	require.NoError(t, InitLogger(&LogConfig{Level: "warn", Environment: "production", ServiceName: "test"}))
	assert.False(t, GetLogger().Core().Enabled(zap.InfoLevel))
	assert.True(t, GetLogger().Core().Enabled(zap.WarnLevel))
}

func TestFromContext(t *testing.T) {
	assert.Same(t, GetLogger(), FromContext(context.Background()))

	core, _ := observer.New(zap.InfoLevel)
	l := zap.New(core)
	ctx := WithContext(context.Background(), l)
	assert.Same(t, l, FromContext(ctx))
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zap.InfoLevel)
	requestLogger := zap.New(core)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Request = c.Request.WithContext(WithContext(c.Request.Context(), requestLogger))
		c.Next()
	})
	r.Use(Middleware())
	r.GET("/ping", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping", nil))

	entries := logs.FilterMessage("HTTP Request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "/ping", fields["path"])
	assert.Equal(t, int64(http.StatusOK), fields["status"])
}
