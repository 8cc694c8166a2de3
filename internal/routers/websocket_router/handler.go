// Package websocket_router 提供 WebSocket 消息处理器
package websocket_router

import (
	"context"

	"github.com/haierkeys/fast-note-pad/internal/app"
	"github.com/haierkeys/fast-note-pad/internal/dto"
	pkgapp "github.com/haierkeys/fast-note-pad/pkg/app"
	"github.com/haierkeys/fast-note-pad/pkg/code"
	"github.com/haierkeys/fast-note-pad/pkg/logger"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// 客户端可发送的消息类型
const (
	ActionNoteList  = "NoteList"
	ActionShareList = "ShareList"
	ActionUserInfo  = "UserInfo"
)

// NoteWSHandler 通过 WebSocket 提供当前快照，连接后客户端据此与推送事件对齐
type NoteWSHandler struct {
	App *app.App
}

// NewNoteWSHandler 创建 NoteWSHandler 实例
func NewNoteWSHandler(a *app.App) *NoteWSHandler {
	return &NoteWSHandler{App: a}
}

// Register 注册消息处理器
func (h *NoteWSHandler) Register(wss *pkgapp.WebsocketServer) {
	wss.Use(ActionNoteList, h.NoteList)
	wss.Use(ActionShareList, h.ShareList)
	wss.Use(ActionUserInfo, h.UserInfo)
}

// NoteList 返回个人笔记列表，负载可为空或 {"keyword","tag"}
func (h *NoteWSHandler) NoteList(c *pkgapp.WebsocketClient, msg *pkgapp.WebSocketMessage) {
	params := &dto.NoteListRequest{}
	if !h.bind(c, msg, params) {
		return
	}
	notes, err := h.App.NoteService.List(context.Background(), params)
	h.respond(c, msg.Type, notes, err)
}

// ShareList 返回共享笔记列表
func (h *NoteWSHandler) ShareList(c *pkgapp.WebsocketClient, msg *pkgapp.WebSocketMessage) {
	params := &dto.ShareListRequest{}
	if !h.bind(c, msg, params) {
		return
	}
	notes, err := h.App.ShareService.List(context.Background(), params)
	h.respond(c, msg.Type, notes, err)
}

// UserInfo 返回当前会话用户
func (h *NoteWSHandler) UserInfo(c *pkgapp.WebsocketClient, msg *pkgapp.WebSocketMessage) {
	user, err := h.App.UserService.Current(context.Background())
	h.respond(c, msg.Type, user, err)
}

func (h *NoteWSHandler) bind(c *pkgapp.WebsocketClient, msg *pkgapp.WebSocketMessage, params any) bool {
	if len(msg.Data) == 0 {
		return true
	}
	valid, errs := c.BindAndValid(msg.Data, params)
	if !valid {
		_ = c.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()...), msg.Type)
		return false
	}
	return true
}

func (h *NoteWSHandler) respond(c *pkgapp.WebsocketClient, action string, data any, err error) {
	if err != nil {
		var codeErr *code.Code
		if !errors.As(err, &codeErr) {
			h.App.Logger().Error("websocket handler failed", zap.String(logger.FieldAction, action), zap.Error(err))
			codeErr = code.ErrorServerInternal
		}
		_ = c.ToResponse(codeErr, action)
		return
	}
	if err := c.ToResponse(code.Success.WithData(data), action); err != nil {
		h.App.Logger().Debug("websocket write failed", zap.String(logger.FieldAction, action), zap.Error(err))
	}
}
