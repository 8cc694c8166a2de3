package api_router

import (
	"github.com/haierkeys/fast-note-pad/internal/app"
	pkgapp "github.com/haierkeys/fast-note-pad/pkg/app"
	"github.com/haierkeys/fast-note-pad/pkg/code"

	"github.com/gin-gonic/gin"
)

// VersionHandler 版本信息处理器
type VersionHandler struct {
	*Handler
}

// NewVersionHandler 创建 VersionHandler 实例
func NewVersionHandler(a *app.App) *VersionHandler {
	return &VersionHandler{Handler: NewHandler(a)}
}

// ServerVersion 服务端版本号
// @Router /api/version [get]
func (h *VersionHandler) ServerVersion(c *gin.Context) {
	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(h.App.Version()))
}
