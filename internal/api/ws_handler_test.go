package api

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWsServer(t *testing.T, origins []string) string {
	t.Helper()
	gin.SetMode(gin.TestMode)

	// 不可达的 redis：认证失败路径不会触达它，认证成功后订阅立即失败。
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: time.Second})
	t.Cleanup(func() { _ = client.Close() })

	h := NewWsHandler(client, testAdminSecret, slog.New(slog.NewTextHandler(io.Discard, nil)), origins)
	r := gin.New()
	r.GET("/ws", h.HandleConnection)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
}

func dialWs(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	return conn
}

func closeCode(t *testing.T, conn *websocket.Conn) int {
	t.Helper()
	_, _, err := conn.ReadMessage()
	var closeErr *websocket.CloseError
	require.ErrorAs(t, err, &closeErr)
	return closeErr.Code
}

func TestWsHandler_RejectsBadAuth(t *testing.T) {
	url := newWsServer(t, nil)

	cases := map[string]string{
		"wrong secret": `{"type":"auth","token":"nope"}`,
		"wrong type":   `{"type":"hello","token":"` + testAdminSecret + `"}`,
		"not json":     `auth please`,
	}
	for name, frame := range cases {
		t.Run(name, func(t *testing.T) {
			conn := dialWs(t, url)
			require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(frame)))
			assert.Equal(t, websocket.ClosePolicyViolation, closeCode(t, conn))
		})
	}
}

func TestWsHandler_ReadyThenClosesWhenRedisUnavailable(t *testing.T) {
	url := newWsServer(t, nil)
	conn := dialWs(t, url)

	require.NoError(t, conn.WriteJSON(map[string]string{"type": "auth", "token": testAdminSecret}))

	var ready map[string]string
	require.NoError(t, conn.ReadJSON(&ready))
	assert.Equal(t, "ready", ready["type"])

	assert.Equal(t, websocket.CloseGoingAway, closeCode(t, conn))
}

func TestWsHandler_CheckOrigin(t *testing.T) {
	h := NewWsHandler(nil, testAdminSecret, nil, nil)
	req := httptest.NewRequest(http.MethodGet, "http://api.example.com/ws", nil)

	assert.True(t, h.checkOrigin(req))
	req.Header.Set("Origin", "http://api.example.com")
	assert.True(t, h.checkOrigin(req))
	req.Header.Set("Origin", "http://evil.example.com")
	assert.False(t, h.checkOrigin(req))

	h = NewWsHandler(nil, testAdminSecret, nil, []string{"https://portfolio.example"})
	req.Header.Set("Origin", "https://portfolio.example")
	assert.True(t, h.checkOrigin(req))
	req.Header.Set("Origin", "http://api.example.com")
	assert.False(t, h.checkOrigin(req))
}
