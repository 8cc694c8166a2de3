package middleware

import (
	"github.com/gin-gonic/gin"
)

// AppInfoWithConfig 在响应头中返回应用名称与版本
func AppInfoWithConfig(name, version string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-App-Name", name)
		c.Header("X-App-Version", version)
		c.Next()
	}
}
