package middleware

import (
	"strings"

	"github.com/haierkeys/fast-note-pad/pkg/app"
	"github.com/haierkeys/fast-note-pad/pkg/code"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

// GetToken 依次从 Authorization 请求头、token 请求头与 token 查询参数读取 Token
func GetToken(c *gin.Context) string {
	if s := c.GetHeader("Authorization"); s != "" {
		return strings.TrimSpace(strings.TrimPrefix(s, "Bearer "))
	}
	if s := c.GetHeader("Token"); s != "" {
		return s
	}
	if s, ok := c.GetQuery("token"); ok {
		return s
	}
	return ""
}

// UserAuthToken 校验 Token 并将用户写入上下文
func UserAuthToken(authorize app.Authorizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := authorize(GetToken(c))
		if err != nil {
			var codeErr *code.Code
			if !errors.As(err, &codeErr) {
				codeErr = code.ErrorInvalidUserAuthToken
			}
			app.NewResponse(c).ToResponse(codeErr)
			c.Abort()
			return
		}
		c.Set(app.ContextUserTokenKey, user)
		c.Next()
	}
}
