package app

import (
	"github.com/haierkeys/fast-note-pad/internal/domain"
	"github.com/haierkeys/fast-note-pad/internal/service"
	"github.com/haierkeys/fast-note-pad/pkg/logger"

	"go.uber.org/zap"
)

// ActionStoreEvent 推送给客户端的事件消息类型
const ActionStoreEvent = "StoreEvent"

// startEventBridge forwards store events to websocket clients of the signed-in user.
// Forwarding happens on a single goroutine so clients see events in Seq order.
//
// startEventBridge 订阅存储事件并推送给当前会话用户的 WebSocket 客户端
func (a *App) startEventBridge() {
	events, cancel := a.Store.Subscribe(a.config.App.EventBuffer)
	a.cancelEvent = cancel

	current := ""
	if u, ok := a.Store.CurrentUser(); ok {
		current = u.ID
	}

	done := a.TrackOperation()
	go func() {
		defer done()
		for ev := range events {
			current = a.forwardEvent(current, ev)
		}
		a.logger.Debug("store event bridge stopped")
	}()
}

// forwardEvent 推送单个事件并返回推送后的当前会话用户 ID
func (a *App) forwardEvent(current string, ev domain.Event) string {
	payload := service.EventToDTO(ev)

	switch ev.Type {
	case domain.EventSignedIn:
		if current != "" && current != ev.User.ID {
			a.Websocket.Kick(current, "session replaced")
		}
		current = ev.User.ID
	case domain.EventSignedOut:
		a.send(ev.User.ID, payload.Type, payload)
		a.Websocket.Kick(ev.User.ID, "signed out")
		return ""
	}

	if current != "" {
		a.send(current, payload.Type, payload)
	}
	return current
}

func (a *App) send(uid, eventType string, payload any) {
	n, err := a.Websocket.BroadcastUser(uid, ActionStoreEvent, payload)
	if err != nil {
		a.logger.Warn("store event push failed", zap.String(logger.FieldEvent, eventType), zap.Error(err))
		return
	}
	a.logger.Debug("store event pushed", zap.String(logger.FieldEvent, eventType), zap.Int("clients", n))
}
