package api_router

import (
	"github.com/haierkeys/fast-note-pad/internal/app"
	"github.com/haierkeys/fast-note-pad/internal/dto"
	pkgapp "github.com/haierkeys/fast-note-pad/pkg/app"
	"github.com/haierkeys/fast-note-pad/pkg/code"
	apperrors "github.com/haierkeys/fast-note-pad/pkg/errors"

	"github.com/gin-gonic/gin"
)

// UserHandler 会话 API 路由处理器
type UserHandler struct {
	*Handler
}

// NewUserHandler 创建 UserHandler 实例
func NewUserHandler(a *app.App) *UserHandler {
	return &UserHandler{Handler: NewHandler(a)}
}

// Login 模拟登录，等待配置的延迟后返回用户与 Token
// @Router /api/user/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	params := &dto.UserLoginRequest{}
	if !h.bind(c, "UserHandler.Login", params) {
		return
	}

	ctx := c.Request.Context()
	user, err := h.App.UserService.SignIn(ctx, params, pkgapp.GetRequestIP(c))
	if err != nil {
		h.logError(ctx, "UserHandler.Login", err)
		apperrors.ErrorResponse(c, err)
		return
	}
	h.success(c, code.SuccessSignIn, user)
}

// Logout 退出登录，未登录时同样成功
// @Router /api/user/logout [post]
func (h *UserHandler) Logout(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.App.UserService.SignOut(ctx); err != nil {
		h.logError(ctx, "UserHandler.Logout", err)
		apperrors.ErrorResponse(c, err)
		return
	}
	h.success(c, code.SuccessSignOut, nil)
}

// Info 当前会话用户
// @Router /api/user/info [get]
func (h *UserHandler) Info(c *gin.Context) {
	ctx := c.Request.Context()
	user, err := h.App.UserService.Current(ctx)
	if err != nil {
		h.logError(ctx, "UserHandler.Info", err)
		apperrors.ErrorResponse(c, err)
		return
	}
	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(user))
}
