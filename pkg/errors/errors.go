// Package errors 将业务错误转换为统一响应
package errors

import (
	"errors"
	"net/http"
	"strings"

	"github.com/haierkeys/fast-note-pad/internal/middleware"
	"github.com/haierkeys/fast-note-pad/pkg/app"
	"github.com/haierkeys/fast-note-pad/pkg/code"

	"github.com/gin-gonic/gin"
)

// AppError 错误响应结构，字段与成功响应的 code/status/message 保持一致
type AppError struct {
	Code    int    `json:"code"`
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
	// TraceID 请求追踪ID
	TraceID string `json:"traceId,omitempty"`
	// Cause 原始错误（不序列化到JSON）
	Cause error `json:"-"`
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// FromError finds the *code.Code in err's chain; anything else becomes ErrorServerInternal
// without leaking the cause text to the client.
// FromError 从错误链中取出 Code，未知错误统一为服务内部错误
func FromError(err error) *AppError {
	return FromErrorIn(err, "")
}

// FromErrorIn 同 FromError，消息使用指定语言
func FromErrorIn(err error, language string) *AppError {
	var codeErr *code.Code
	if !errors.As(err, &codeErr) {
		codeErr = code.ErrorServerInternal
	}
	return &AppError{
		Code:    codeErr.Code(),
		Status:  codeErr.Status(),
		Message: codeErr.MsgIn(language),
		Details: strings.Join(codeErr.Details(), ","),
		Cause:   err,
	}
}

// ErrorResponse 统一错误响应处理，附带请求 TraceID
func ErrorResponse(c *gin.Context, err error) {
	appErr := FromErrorIn(err, c.GetString(app.ContextLangKey))
	appErr.TraceID = middleware.GetTraceIDFromGin(c)
	c.Set(app.ContextStatusCodeKey, http.StatusOK)
	c.JSON(http.StatusOK, appErr)
}

// IsAppError 检查错误是否为 AppError 类型
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}
