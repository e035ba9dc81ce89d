package middlewares

import (
	"github.com/gin-gonic/gin"

	"github.com/shortnote/shortnote-bot/config"
	"github.com/shortnote/shortnote-bot/logger"
	"github.com/shortnote/shortnote-bot/otel"
)

type Telemetry interface {
	Middleware() gin.HandlerFunc
}

type TelemetryImpl struct {
	cfg       config.Config
	telemetry otel.OpenTelemetry
	logger    logger.Logger
}

func NewTelemetryMiddleware(cfg config.Config, telemetry otel.OpenTelemetry, logger logger.Logger) (Telemetry, error) {
	return &TelemetryImpl{
		cfg:       cfg,
		telemetry: telemetry,
		logger:    logger,
	}, nil
}

// Middleware counts served requests by method, matched route and status.
// Requests that match no route share the "unmatched" label so that the
// series stay bounded.
func (t *TelemetryImpl) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if t.telemetry == nil {
			return
		}
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		t.telemetry.RecordHTTPRequest(c.Request.Context(), c.Request.Method, route, c.Writer.Status())
	}
}
