package middleware

import (
	"time"

	"github.com/haierkeys/fast-note-pad/pkg/app"
	"github.com/haierkeys/fast-note-pad/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AccessLogWithLogger 访问日志中间件
func AccessLogWithLogger(lg *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		startTime := time.Now()
		c.Next()
		timeCost := time.Since(startTime)

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("url", path+"?"+query),
			zap.Int("status", c.Writer.Status()),
			zap.Duration(logger.FieldDuration, timeCost),
			zap.String("ip", c.ClientIP()),
			zap.String("user-agent", c.Request.UserAgent()),
			zap.String(logger.FieldTraceID, GetTraceIDFromGin(c)),
		}
		if uid := app.GetUID(c); uid != "" {
			fields = append(fields, zap.String(logger.FieldUID, uid))
		}
		if errs := c.Errors.ByType(gin.ErrorTypePrivate).String(); errs != "" {
			fields = append(fields, zap.String("errors", errs))
		}
		lg.Info(path, fields...)
	}
}
