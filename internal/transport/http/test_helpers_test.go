package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/wirechess-server/internal/config"
	"github.com/vovakirdan/wirechess-server/internal/core"
	"github.com/vovakirdan/wirechess-server/internal/proto"
)

type rawOutbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Addr = ":0"
	cfg.ReadHeaderTimeout = time.Second
	cfg.ShutdownTimeout = time.Second
	return &cfg
}

// startTestServer runs a real hub behind an httptest server.
func startTestServer(t *testing.T, cfg *config.Config) *httptest.Server {
	t.Helper()
	ts, _ := startTestServerWith(t, cfg)
	return ts
}

// startTestServerWith also returns the Server so tests can drive Shutdown.
func startTestServerWith(t *testing.T, cfg *config.Config) (*httptest.Server, *Server) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := zerolog.New(io.Discard)
	hub := core.NewHub(core.Options{}, &logger)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	server := NewServer(hub, cfg, &logger)
	ts := httptest.NewServer(server.Handler)
	t.Cleanup(func() {
		ts.Close()
		cancel()
	})
	return ts, server
}

func dial(t *testing.T, ctx context.Context, ts *httptest.Server, clientID string) *websocket.Conn {
	t.Helper()

	url := strings.Replace(ts.URL, "http", "ws", 1) + "/ws"
	if clientID != "" {
		url += "?clientId=" + clientID
	}
	conn, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "done") })
	return conn
}

func send(t *testing.T, ctx context.Context, conn *websocket.Conn, typ string, data any) {
	t.Helper()

	var payload json.RawMessage
	if data != nil {
		raw, err := json.Marshal(data)
		require.NoError(t, err)
		payload = raw
	}
	require.NoError(t, wsjson.Write(ctx, conn, proto.Inbound{Type: typ, Data: payload}))
}

// readUntil skips frames until one of the given type arrives and decodes its data into out.
func readUntil(t *testing.T, ctx context.Context, conn *websocket.Conn, typ string, out any) {
	t.Helper()

	for {
		var msg rawOutbound
		require.NoError(t, wsjson.Read(ctx, conn, &msg), "waiting for %s", typ)
		if msg.Type != typ {
			continue
		}
		require.NoError(t, json.Unmarshal(msg.Data, out))
		return
	}
}
