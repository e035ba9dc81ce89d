package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/shortnote/shortnote-bot/api/middlewares"
	"github.com/shortnote/shortnote-bot/config"
	"github.com/shortnote/shortnote-bot/logger"
	"github.com/shortnote/shortnote-bot/tests/mocks"
)

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw...)
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestTelemetryMiddleware(t *testing.T) {
	ctrl := gomock.NewController(t)
	telemetry := mocks.NewMockOpenTelemetry(ctrl)

	mw, err := middlewares.NewTelemetryMiddleware(config.Config{}, telemetry, logger.NewNoOpLogger())
	require.NoError(t, err)
	r := newEngine(mw.Middleware())

	telemetry.EXPECT().RecordHTTPRequest(gomock.Any(), http.MethodGet, "/health", http.StatusOK)
	telemetry.EXPECT().RecordHTTPRequest(gomock.Any(), http.MethodGet, "unmatched", http.StatusNotFound)

	for _, path := range []string{"/health", "/missing"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}
}

func TestTelemetryMiddleware_Disabled(t *testing.T) {
	mw, err := middlewares.NewTelemetryMiddleware(config.Config{}, nil, logger.NewNoOpLogger())
	require.NoError(t, err)

	w := httptest.NewRecorder()
	newEngine(mw.Middleware()).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLoggerMiddleware(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	var log logger.Logger = mockLogger

	mw, err := middlewares.NewLoggerMiddleware(&log)
	require.NoError(t, err)

	mockLogger.EXPECT().Debug("request served", gomock.Any()).
		Do(func(message string, fields ...interface{}) {
			kv := map[interface{}]interface{}{}
			for i := 0; i+1 < len(fields); i += 2 {
				kv[fields[i]] = fields[i+1]
			}
			assert.Equal(t, http.MethodGet, kv["method"])
			assert.Equal(t, "/health", kv["path"])
			assert.Equal(t, http.StatusOK, kv["status"])
		})

	newEngine(mw.Middleware()).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
}

func TestNewLoggerMiddleware_RequiresLogger(t *testing.T) {
	_, err := middlewares.NewLoggerMiddleware(nil)
	assert.Error(t, err)

	var empty logger.Logger
	_, err = middlewares.NewLoggerMiddleware(&empty)
	assert.Error(t, err)
}
