package app

import (
	"strings"
	"sync"
	"time"

	"github.com/haierkeys/fast-note-pad/pkg/code"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/lxzan/gws"
	"go.uber.org/zap"
)

const (
	WebSocketServerPingInterval = 25 * time.Second
	WebSocketServerPingWait     = 40 * time.Second
	WebSocketAuthFailDelay      = 2 * time.Second

	// ActionAuthorization 客户端发送 "Authorization|<token>" 完成认证
	ActionAuthorization = "Authorization"
)

// WebSocketMessage 一帧 "Type|Data" 消息
type WebSocketMessage struct {
	Type string `json:"type"`
	Data []byte `json:"data"`
}

// ParseMessage splits a "Type|payload" text frame. Frames without a separator or
// with an empty type are rejected.
// ParseMessage 解析 "Type|payload" 文本帧
func ParseMessage(frame string) (*WebSocketMessage, bool) {
	idx := strings.Index(frame, "|")
	if idx <= 0 {
		return nil, false
	}
	return &WebSocketMessage{Type: frame[:idx], Data: []byte(frame[idx+1:])}, true
}

// EncodeMessage 编码为 "Type|json" 帧，action 为空时只输出 json
func EncodeMessage(action string, content any) ([]byte, error) {
	body, err := sonic.Marshal(content)
	if err != nil {
		return nil, err
	}
	if action == "" {
		return body, nil
	}
	out := make([]byte, 0, len(action)+1+len(body))
	out = append(out, action...)
	out = append(out, '|')
	return append(out, body...), nil
}

// Authorizer 校验客户端提交的 token，返回用户
type Authorizer func(token string) (*UserEntity, error)

type WebsocketServerConfig struct {
	GWSOption     gws.ServerOption
	PingInterval  time.Duration
	PingWait      time.Duration
	AuthFailDelay time.Duration
}

// WebsocketClient 单个 WebSocket 连接及其状态
type WebsocketClient struct {
	conn  *gws.Conn
	done  chan struct{}
	once  sync.Once
	trans ut.Translator
	lang  string

	mu   sync.RWMutex
	user *UserEntity
}

// User 返回已认证的用户，未认证时为 nil
func (c *WebsocketClient) User() *UserEntity {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.user
}

func (c *WebsocketClient) setUser(u *UserEntity) {
	c.mu.Lock()
	c.user = u
	c.mu.Unlock()
}

func (c *WebsocketClient) stop() {
	c.once.Do(func() { close(c.done) })
}

// BindAndValid 解析 JSON 负载并按 binding 标签校验
func (c *WebsocketClient) BindAndValid(data []byte, obj any) (bool, ValidErrors) {
	var errs ValidErrors
	if err := sonic.Unmarshal(data, obj); err != nil {
		errs = append(errs, &ValidError{Key: "body", Message: "Invalid message format"})
		return false, errs
	}
	if binding.Validator == nil {
		return true, nil
	}
	if err := binding.Validator.ValidateStruct(obj); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			errs = append(errs, &ValidError{Key: "body", Message: err.Error()})
			return false, errs
		}
		for _, v := range verrs {
			msg := v.Error()
			if c.trans != nil {
				msg = v.Translate(c.trans)
			}
			errs = append(errs, &ValidError{Key: v.Field(), Message: msg})
		}
		return false, errs
	}
	return true, nil
}

// ToResponse 将结果编码为 "action|json" 发送给当前客户端
func (c *WebsocketClient) ToResponse(codeObj *code.Code, action string) error {
	payload, err := EncodeMessage(action, NewRes(codeObj, c.lang))
	if err != nil {
		return err
	}
	return c.conn.WriteMessage(gws.OpcodeText, payload)
}

func (c *WebsocketClient) pingLoop(interval time.Duration, lg *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			if err := c.conn.WritePing(nil); err != nil {
				lg.Debug("websocket ping failed", zap.Error(err))
				return
			}
		}
	}
}

// ------------------------------------> WebsocketServer

// WebsocketServer 管理连接、认证与消息分发
type WebsocketServer struct {
	handlers  map[string]func(*WebsocketClient, *WebSocketMessage)
	authorize Authorizer
	clients   map[*gws.Conn]*WebsocketClient
	mu        sync.RWMutex
	up        *gws.Upgrader
	config    WebsocketServerConfig
	logger    *zap.Logger
}

func NewWebsocketServer(c WebsocketServerConfig, authorize Authorizer, lg *zap.Logger) *WebsocketServer {
	if c.PingInterval == 0 {
		c.PingInterval = WebSocketServerPingInterval
	}
	if c.PingWait == 0 {
		c.PingWait = WebSocketServerPingWait
	}
	if c.AuthFailDelay == 0 {
		c.AuthFailDelay = WebSocketAuthFailDelay
	}
	if lg == nil {
		lg = zap.NewNop()
	}
	w := &WebsocketServer{
		handlers:  make(map[string]func(*WebsocketClient, *WebSocketMessage)),
		authorize: authorize,
		clients:   make(map[*gws.Conn]*WebsocketClient),
		config:    c,
		logger:    lg,
	}
	w.up = gws.NewUpgrader(w, &w.config.GWSOption)
	return w
}

// Run 返回升级 WebSocket 的 gin 处理器
func (w *WebsocketServer) Run() gin.HandlerFunc {
	return func(c *gin.Context) {
		socket, err := w.up.Upgrade(c.Writer, c.Request)
		if err != nil {
			w.logger.Warn("websocket upgrade failed", zap.Error(err))
			return
		}
		client := &WebsocketClient{conn: socket, done: make(chan struct{})}
		if v, ok := c.Get(ContextTransKey); ok {
			client.trans, _ = v.(ut.Translator)
		}
		client.lang = c.GetString(ContextLangKey)
		w.mu.Lock()
		w.clients[socket] = client
		w.mu.Unlock()
		go socket.ReadLoop()
	}
}

// Use 注册消息处理器
func (w *WebsocketServer) Use(action string, handler func(*WebsocketClient, *WebSocketMessage)) {
	w.handlers[action] = handler
}

// BroadcastUser sends payload as an "action|json" frame to every client authorised
// as uid and returns how many clients it was written to.
// BroadcastUser 仅向 uid 对应的已认证客户端广播
func (w *WebsocketServer) BroadcastUser(uid, action string, payload any) (int, error) {
	frame, err := EncodeMessage(action, payload)
	if err != nil {
		return 0, err
	}
	b := gws.NewBroadcaster(gws.OpcodeText, frame)
	defer b.Close()

	w.mu.RLock()
	defer w.mu.RUnlock()

	sent := 0
	for conn, c := range w.clients {
		u := c.User()
		if u == nil || u.UID != uid {
			continue
		}
		if err := b.Broadcast(conn); err != nil {
			w.logger.Debug("websocket broadcast failed", zap.String("uid", u.UID), zap.Error(err))
			continue
		}
		sent++
	}
	return sent, nil
}

// Kick closes every connection authorised as uid.
// Kick 断开 uid 的所有连接
func (w *WebsocketServer) Kick(uid, reason string) int {
	w.mu.RLock()
	var conns []*gws.Conn
	for conn, c := range w.clients {
		if u := c.User(); u != nil && u.UID == uid {
			conns = append(conns, conn)
		}
	}
	w.mu.RUnlock()

	for _, conn := range conns {
		conn.WriteClose(1000, []byte(reason))
	}
	return len(conns)
}

// ClientCount 返回连接总数与已认证连接数
func (w *WebsocketServer) ClientCount() (total, authorized int) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, c := range w.clients {
		if c.User() != nil {
			authorized++
		}
	}
	return len(w.clients), authorized
}

func (w *WebsocketServer) getClient(conn *gws.Conn) *WebsocketClient {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.clients[conn]
}

func (w *WebsocketServer) authorization(c *WebsocketClient, msg *WebSocketMessage) {
	var user *UserEntity
	var err error
	if w.authorize == nil {
		err = code.ErrorInvalidUserAuthToken
	} else {
		user, err = w.authorize(string(msg.Data))
	}
	if err != nil {
		w.logger.Warn("websocket authorization failed", zap.Error(err))
		_ = c.ToResponse(code.ErrorInvalidUserAuthToken, ActionAuthorization)
		time.Sleep(w.config.AuthFailDelay)
		c.conn.WriteClose(1000, []byte("AuthorizationFailed"))
		return
	}

	c.setUser(user)
	_ = c.ToResponse(code.Success, ActionAuthorization)
	w.logger.Info("websocket user enters", zap.String("uid", user.UID), zap.String("email", user.Email))
	go c.pingLoop(w.config.PingInterval, w.logger)
}

func (w *WebsocketServer) OnOpen(conn *gws.Conn) {
	_ = conn.SetDeadline(time.Now().Add(w.config.PingWait))
}

func (w *WebsocketServer) OnClose(conn *gws.Conn, err error) {
	w.mu.Lock()
	c := w.clients[conn]
	delete(w.clients, conn)
	w.mu.Unlock()

	if c == nil {
		return
	}
	c.stop()
	if u := c.User(); u != nil {
		w.logger.Info("websocket user leave", zap.String("uid", u.UID))
	}
}

func (w *WebsocketServer) OnPing(socket *gws.Conn, payload []byte) {
	_ = socket.SetDeadline(time.Now().Add(w.config.PingWait))
	_ = socket.WritePong(nil)
}

func (w *WebsocketServer) OnPong(socket *gws.Conn, payload []byte) {
	_ = socket.SetDeadline(time.Now().Add(w.config.PingWait))
}

func (w *WebsocketServer) OnMessage(conn *gws.Conn, message *gws.Message) {
	defer message.Close()
	if message.Opcode != gws.OpcodeText {
		return
	}
	_ = conn.SetDeadline(time.Now().Add(w.config.PingWait))

	frame := message.Data.String()
	if frame == "close" {
		conn.WriteClose(1000, []byte("ClientClose"))
		return
	}

	c := w.getClient(conn)
	if c == nil {
		return
	}

	msg, ok := ParseMessage(frame)
	if !ok {
		w.logger.Debug("websocket illegal message", zap.Int("size", len(frame)))
		_ = c.ToResponse(code.ErrorInvalidParams, "")
		return
	}

	if msg.Type == ActionAuthorization {
		w.authorization(c, msg)
		return
	}

	if c.User() == nil {
		_ = c.ToResponse(code.ErrorNotUserAuthToken, msg.Type)
		return
	}

	handler, exists := w.handlers[msg.Type]
	if !exists {
		_ = c.ToResponse(code.ErrorNotFoundAPI, msg.Type)
		return
	}
	handler(c, msg)
}
