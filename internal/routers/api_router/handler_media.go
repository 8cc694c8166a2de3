package api_router

import (
	"github.com/haierkeys/fast-note-pad/internal/app"
	"github.com/haierkeys/fast-note-pad/internal/domain"
	"github.com/haierkeys/fast-note-pad/internal/dto"
	pkgapp "github.com/haierkeys/fast-note-pad/pkg/app"
	"github.com/haierkeys/fast-note-pad/pkg/code"
	apperrors "github.com/haierkeys/fast-note-pad/pkg/errors"

	"github.com/gin-gonic/gin"
)

// MediaHandler 媒体上传 API 路由处理器
type MediaHandler struct {
	*Handler
}

// NewMediaHandler 创建 MediaHandler 实例
func NewMediaHandler(a *app.App) *MediaHandler {
	return &MediaHandler{Handler: NewHandler(a)}
}

// Upload 上传图片或视频，返回可写入笔记 media 字段的附件
// multipart 字段：kind、file
// @Router /api/media [post]
func (h *MediaHandler) Upload(c *gin.Context) {
	params := &dto.MediaUploadRequest{}
	if !h.bind(c, "MediaHandler.Upload", params) {
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		pkgapp.NewResponse(c).ToResponse(code.ErrorInvalidParams.WithDetails("file: " + err.Error()))
		return
	}
	f, err := fh.Open()
	if err != nil {
		pkgapp.NewResponse(c).ToResponse(code.ErrorMediaUpload.WithDetails(err.Error()))
		return
	}
	defer f.Close()

	ctx := c.Request.Context()
	out, err := h.App.MediaService.Upload(ctx, domain.MediaKind(params.Kind), fh.Filename, fh.Size, f)
	if err != nil {
		h.logError(ctx, "MediaHandler.Upload", err)
		apperrors.ErrorResponse(c, err)
		return
	}
	h.success(c, code.SuccessUpload, out)
}
