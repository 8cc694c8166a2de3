package api_router

import (
	"github.com/haierkeys/fast-note-pad/internal/app"
	"github.com/haierkeys/fast-note-pad/internal/dto"
	pkgapp "github.com/haierkeys/fast-note-pad/pkg/app"
	"github.com/haierkeys/fast-note-pad/pkg/code"
	apperrors "github.com/haierkeys/fast-note-pad/pkg/errors"

	"github.com/gin-gonic/gin"
)

// ShareHandler 共享笔记（只读）API 路由处理器
type ShareHandler struct {
	*Handler
}

// NewShareHandler 创建 ShareHandler 实例
func NewShareHandler(a *app.App) *ShareHandler {
	return &ShareHandler{Handler: NewHandler(a)}
}

// List 共享笔记列表，关键字同时匹配分享者
// @Router /api/shares [get]
func (h *ShareHandler) List(c *gin.Context) {
	params := &dto.ShareListRequest{}
	if !h.bind(c, "ShareHandler.List", params) {
		return
	}

	ctx := c.Request.Context()
	notes, err := h.App.ShareService.List(ctx, params)
	if err != nil {
		h.logError(ctx, "ShareHandler.List", err)
		apperrors.ErrorResponse(c, err)
		return
	}
	pkgapp.NewResponse(c).ToResponseList(code.Success, pkgapp.Paginate(c, notes), len(notes))
}

// Get 单条共享笔记
// @Router /api/share [get]
func (h *ShareHandler) Get(c *gin.Context) {
	params := &dto.NoteGetRequest{}
	if !h.bind(c, "ShareHandler.Get", params) {
		return
	}

	ctx := c.Request.Context()
	note, err := h.App.ShareService.Get(ctx, params.ID)
	if err != nil {
		h.logError(ctx, "ShareHandler.Get", err)
		apperrors.ErrorResponse(c, err)
		return
	}
	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(note))
}
