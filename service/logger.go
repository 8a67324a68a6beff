package service

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
		}
		if operation := c.GetString(OPERATION_KEY); operation != "" {
			fields = append(fields, zap.String("operation", operation))
		}

		if len(c.Errors) > 0 {
			logger.Error(c.Errors.String(), fields...)
			return
		}

		logger.Info("request", fields...)
	}
}
