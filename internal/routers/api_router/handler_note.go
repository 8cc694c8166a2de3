package api_router

import (
	"github.com/haierkeys/fast-note-pad/internal/app"
	"github.com/haierkeys/fast-note-pad/internal/dto"
	pkgapp "github.com/haierkeys/fast-note-pad/pkg/app"
	"github.com/haierkeys/fast-note-pad/pkg/code"
	apperrors "github.com/haierkeys/fast-note-pad/pkg/errors"

	"github.com/gin-gonic/gin"
)

// NoteHandler 个人笔记 API 路由处理器
type NoteHandler struct {
	*Handler
}

// NewNoteHandler 创建 NoteHandler 实例
func NewNoteHandler(a *app.App) *NoteHandler {
	return &NoteHandler{Handler: NewHandler(a)}
}

// List 笔记列表，支持关键字搜索与标签 glob 过滤
// @Router /api/notes [get]
func (h *NoteHandler) List(c *gin.Context) {
	params := &dto.NoteListRequest{}
	if !h.bind(c, "NoteHandler.List", params) {
		return
	}

	ctx := c.Request.Context()
	notes, err := h.App.NoteService.List(ctx, params)
	if err != nil {
		h.logError(ctx, "NoteHandler.List", err)
		apperrors.ErrorResponse(c, err)
		return
	}
	pkgapp.NewResponse(c).ToResponseList(code.Success, pkgapp.Paginate(c, notes), len(notes))
}

// Get 单条笔记
// @Router /api/note [get]
func (h *NoteHandler) Get(c *gin.Context) {
	params := &dto.NoteGetRequest{}
	if !h.bind(c, "NoteHandler.Get", params) {
		return
	}

	ctx := c.Request.Context()
	note, err := h.App.NoteService.Get(ctx, params.ID)
	if err != nil {
		h.logError(ctx, "NoteHandler.Get", err)
		apperrors.ErrorResponse(c, err)
		return
	}
	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(note))
}

// Create 新建笔记
// @Router /api/note [post]
func (h *NoteHandler) Create(c *gin.Context) {
	params := &dto.NoteCreateRequest{}
	if !h.bind(c, "NoteHandler.Create", params) {
		return
	}

	ctx := c.Request.Context()
	note, err := h.App.NoteService.Create(ctx, params)
	if err != nil {
		h.logError(ctx, "NoteHandler.Create", err)
		apperrors.ErrorResponse(c, err)
		return
	}
	h.success(c, code.SuccessCreate, note)
}

// Update 局部更新笔记
// @Router /api/note [put]
func (h *NoteHandler) Update(c *gin.Context) {
	params := &dto.NoteUpdateRequest{}
	if !h.bind(c, "NoteHandler.Update", params) {
		return
	}

	ctx := c.Request.Context()
	note, err := h.App.NoteService.Update(ctx, params)
	if err != nil {
		h.logError(ctx, "NoteHandler.Update", err)
		apperrors.ErrorResponse(c, err)
		return
	}
	h.success(c, code.SuccessUpdate, note)
}

// Delete 删除笔记
// @Router /api/note [delete]
func (h *NoteHandler) Delete(c *gin.Context) {
	params := &dto.NoteGetRequest{}
	if !h.bind(c, "NoteHandler.Delete", params) {
		return
	}

	ctx := c.Request.Context()
	if err := h.App.NoteService.Delete(ctx, params.ID); err != nil {
		h.logError(ctx, "NoteHandler.Delete", err)
		apperrors.ErrorResponse(c, err)
		return
	}
	h.success(c, code.SuccessDelete, nil)
}
