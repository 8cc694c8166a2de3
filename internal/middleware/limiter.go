package middleware

import (
	"github.com/haierkeys/fast-note-pad/pkg/app"
	"github.com/haierkeys/fast-note-pad/pkg/code"
	"github.com/haierkeys/fast-note-pad/pkg/limiter"

	"github.com/gin-gonic/gin"
)

// RateLimiter 令牌桶限流中间件，l 为 nil 时不限流
func RateLimiter(l limiter.Face) gin.HandlerFunc {
	return func(c *gin.Context) {
		if l == nil {
			c.Next()
			return
		}
		if bucket, ok := l.GetBucket(l.Key(c)); ok {
			if bucket.TakeAvailable(1) == 0 {
				app.NewResponse(c).ToResponse(code.ErrorTooManyRequests)
				c.Abort()
				return
			}
		}
		c.Next()
	}
}
