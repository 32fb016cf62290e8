package logging

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/kawasemi/timesheet-api/internal/config"
)

const contextKeyLogger = "logger"

var log *zap.Logger = zap.NewNop()

// Init builds the process-wide zap logger from configuration.
func Init(cfg *config.Config) error {
	var level zapcore.Level
	switch cfg.LogLevel {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var err error
	if cfg.Environment == "production" {
		prodConfig := zap.NewProductionConfig()
		prodConfig.Level = zap.NewAtomicLevelAt(level)
		prodConfig.EncoderConfig.TimeKey = "timestamp"
		prodConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		log, err = prodConfig.Build(zap.Fields(
			zap.String("service", cfg.ServiceName),
			zap.String("environment", cfg.Environment),
		))
	} else {
		devConfig := zap.NewDevelopmentConfig()
		devConfig.Level = zap.NewAtomicLevelAt(level)
		devConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		log, err = devConfig.Build(zap.Fields(
			zap.String("service", cfg.ServiceName),
		))
	}
	if err != nil {
		return err
	}

	zap.ReplaceGlobals(log)
	return nil
}

// L returns the process-wide logger.
func L() *zap.Logger {
	return log
}

// FromContext returns the request-scoped logger set by Middleware, falling
// back to the process-wide logger.
func FromContext(c *gin.Context) *zap.Logger {
	if l, ok := c.Get(contextKeyLogger); ok {
		if logger, ok := l.(*zap.Logger); ok {
			return logger
		}
	}
	return log
}

// Middleware attaches a request-id scoped logger to the gin context and logs
// each request after it completes.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header("X-Request-ID", requestID)

		ctxLogger := log.With(zap.String("request_id", requestID))
		c.Set(contextKeyLogger, ctxLogger)

		c.Next()

		ctxLogger.Info("HTTP Request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
		)
	}
}
