package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/haierkeys/fast-note-pad/pkg/app"
	"github.com/haierkeys/fast-note-pad/pkg/code"
	"github.com/haierkeys/fast-note-pad/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RecoveryWithLogger 捕获 panic，记录堆栈并返回统一的错误响应
func RecoveryWithLogger(lg *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			fields := []zap.Field{
				zap.String("router", c.Request.URL.Path),
				zap.String("method", c.Request.Method),
				zap.String("query", c.Request.URL.RawQuery),
				zap.String("ip", c.ClientIP()),
				zap.String(logger.FieldTraceID, GetTraceIDFromGin(c)),
				zap.String("stack", string(debug.Stack())),
			}
			var errorMsg string
			switch v := r.(type) {
			case error:
				errorMsg = v.Error()
				lg.Error("Recovered from panic", append(fields, zap.Error(v))...)
			default:
				errorMsg = fmt.Sprintf("%v", v)
				lg.Error("Recovered from unknown panic", append(fields, zap.String("panic_value", errorMsg))...)
			}

			app.NewResponse(c).ToResponse(code.ErrorServerInternal.WithDetails(errorMsg))
			c.Abort()
		}()

		c.Next()
	}
}
