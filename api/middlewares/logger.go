package middlewares

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shortnote/shortnote-bot/logger"
)

type Logger interface {
	Middleware() gin.HandlerFunc
}

type LoggerImpl struct {
	logger logger.Logger
}

func NewLoggerMiddleware(log *logger.Logger) (Logger, error) {
	if log == nil || *log == nil {
		return nil, errors.New("logger middleware requires a logger")
	}
	return &LoggerImpl{logger: *log}, nil
}

// Middleware logs one line per request once it has been served.
func (l *LoggerImpl) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []interface{}{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start).String(),
			"clientIp", c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			l.logger.Error("request failed", c.Errors.Last(), fields...)
			return
		}
		l.logger.Debug("request served", fields...)
	}
}
