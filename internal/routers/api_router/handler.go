// Package api_router 提供 HTTP API 路由处理器
package api_router

import (
	"context"

	"github.com/haierkeys/fast-note-pad/internal/app"
	"github.com/haierkeys/fast-note-pad/internal/middleware"
	pkgapp "github.com/haierkeys/fast-note-pad/pkg/app"
	"github.com/haierkeys/fast-note-pad/pkg/code"
	"github.com/haierkeys/fast-note-pad/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Handler 基础 Handler，所有 API Handler 嵌入此结构体获得 App Container
type Handler struct {
	App *app.App
}

// NewHandler 创建基础 Handler 实例
func NewHandler(a *app.App) *Handler {
	return &Handler{App: a}
}

// bind 绑定并校验参数，失败时直接写出 ErrorInvalidParams
func (h *Handler) bind(c *gin.Context, method string, params any) bool {
	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Warn(method+".BindAndValid err", zap.Error(errs))
		pkgapp.NewResponse(c).ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()...).WithData(errs.MapsToString()))
		return false
	}
	return true
}

// logError 业务错误记录为 warn，其余记录为 error
func (h *Handler) logError(ctx context.Context, method string, err error) {
	fields := []zap.Field{
		zap.String(logger.FieldMethod, method),
		zap.String(logger.FieldTraceID, middleware.GetTraceID(ctx)),
		zap.Error(err),
	}
	var codeErr *code.Code
	if errors.As(err, &codeErr) && codeErr.Code() != code.ErrorServerInternal.Code() {
		h.App.Logger().Warn("request failed", fields...)
		return
	}
	h.App.Logger().Error("request failed", fields...)
}

// success 按配置决定是否返回成功提示
func (h *Handler) success(c *gin.Context, ok *code.Code, data any) {
	if data == nil && !h.App.IsReturnSuccess() {
		pkgapp.NewResponse(c).ToResponse(code.Success)
		return
	}
	pkgapp.NewResponse(c).ToResponse(ok.WithData(data))
}
