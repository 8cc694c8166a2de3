package middleware

import (
	"github.com/haierkeys/fast-note-pad/pkg/app"
	"github.com/haierkeys/fast-note-pad/pkg/code"

	"github.com/gin-gonic/gin"
)

// NoFound 404 处理
func NoFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		app.NewResponse(c).ToResponse(code.ErrorNotFoundAPI.WithDetails(c.Request.Method + " " + c.Request.URL.Path))
		c.Abort()
	}
}
