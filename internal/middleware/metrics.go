package middleware

import (
	"time"

	"github.com/haierkeys/fast-note-pad/internal/metrics"

	"github.com/gin-gonic/gin"
)

// Metrics 记录请求耗时，m 为 nil 时跳过
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()
		m.ObserveRequest(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}
