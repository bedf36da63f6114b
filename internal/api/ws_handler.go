package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"

	"portfolio/internal/api/middleware"
	"portfolio/internal/inbox"
)

const (
	wsAuthTimeout  = 10 * time.Second
	wsPingInterval = 30 * time.Second
	wsWriteTimeout = 5 * time.Second
	// 两次 ping 内没有任何帧（含 pong）视为断开。
	wsReadTimeout = 2 * wsPingInterval
)

var (
	errWsAuthPayload = errors.New("invalid auth payload")
	errWsAuthSecret  = errors.New("admin secret mismatch")
)

// WsHandler 把收件箱事件实时转发给站点主人。
type WsHandler struct {
	redisClient    *redis.Client
	adminSecret    string
	logger         *slog.Logger
	upgrader       websocket.Upgrader
	allowedOrigins []string
}

// NewWsHandler 构造收件箱 WebSocket 处理器；未配置来源白名单时只接受同源连接。
func NewWsHandler(redisClient *redis.Client, adminSecret string, logger *slog.Logger, allowedOrigins []string) *WsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &WsHandler{
		redisClient:    redisClient,
		adminSecret:    strings.TrimSpace(adminSecret),
		logger:         logger,
		allowedOrigins: allowedOrigins,
	}
	h.upgrader = websocket.Upgrader{CheckOrigin: h.checkOrigin}
	return h
}

func (h *WsHandler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	if len(h.allowedOrigins) == 0 {
		u, err := url.Parse(origin)
		return err == nil && strings.EqualFold(u.Host, r.Host)
	}
	for _, allowed := range h.allowedOrigins {
		if allowed == "*" || strings.EqualFold(origin, allowed) {
			return true
		}
	}
	return false
}

type wsAuthMessage struct {
	Type  string `json:"type"`
	Token string `json:"token"`
}

// HandleConnection 升级连接；首帧必须是 {"type":"auth","token":"<admin secret>"}，
// 认证通过后回复 {"type":"ready"} 并开始推送事件。
func (h *WsHandler) HandleConnection(c *gin.Context) {
	if h.adminSecret == "" {
		Internal(c, "admin secret is not configured")
		return
	}
	if h.redisClient == nil {
		Error(c, http.StatusServiceUnavailable, "inbox feed requires redis")
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("upgrade websocket failed", slog.Any("error", err))
		return
	}
	defer conn.Close()

	log := h.logger.With(
		slog.String("client_ip", c.ClientIP()),
		slog.String("correlation_id", middleware.GetCorrelationID(c)),
	)

	if err := h.authenticate(conn); err != nil {
		log.Warn("websocket authentication failed", slog.Any("error", err))
		writeClose(conn, websocket.ClosePolicyViolation, "unauthorized")
		return
	}
	if err := writeJSON(conn, gin.H{"type": "ready"}); err != nil {
		log.Info("websocket closed before ready", slog.Any("error", err))
		return
	}
	log.Info("inbox feed connected")

	ctx, cancel := context.WithCancel(context.WithoutCancel(c.Request.Context()))
	defer cancel()

	go func() {
		defer cancel()
		drainReads(conn)
	}()

	err = h.forward(ctx, conn)
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Info("inbox feed closed", slog.Any("error", err))
		writeClose(conn, websocket.CloseGoingAway, "feed closed")
		return
	}
	log.Info("inbox feed closed")
}

// authenticate 读取首帧并校验共享密钥。
func (h *WsHandler) authenticate(conn *websocket.Conn) error {
	_ = conn.SetReadDeadline(time.Now().Add(wsAuthTimeout))
	_, raw, err := conn.ReadMessage()
	if err != nil {
		return fmt.Errorf("read auth frame: %w", err)
	}

	var msg wsAuthMessage
	if err := json.Unmarshal(raw, &msg); err != nil || msg.Type != "auth" {
		return errWsAuthPayload
	}
	if !middleware.SecretEqual(strings.TrimSpace(msg.Token), h.adminSecret) {
		return errWsAuthSecret
	}
	return nil
}

// drainReads 丢弃客户端后续消息，连接断开或超时后返回。
func drainReads(conn *websocket.Conn) {
	_ = conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
	})
	for {
		if _, _, err := conn.NextReader(); err != nil {
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
	}
}

// forward 订阅收件箱频道，把事件原样写给客户端并定期 ping。
func (h *WsHandler) forward(ctx context.Context, conn *websocket.Conn) error {
	pubsub := h.redisClient.Subscribe(ctx, inbox.Channel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", inbox.Channel, err)
	}

	events := pubsub.Channel()
	ticker := time.NewTicker(wsPingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-events:
			if !ok {
				return errors.New("pubsub channel closed")
			}
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
				return fmt.Errorf("write event: %w", err)
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteTimeout)); err != nil {
				return fmt.Errorf("write ping: %w", err)
			}
		}
	}
}

func writeJSON(conn *websocket.Conn, v any) error {
	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	return conn.WriteJSON(v)
}

func writeClose(conn *websocket.Conn, code int, text string) {
	_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, text), time.Now().Add(wsWriteTimeout))
}
