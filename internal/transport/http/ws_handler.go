package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	stdhttp "net/http"
	"slices"
	"sync"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/wirechess-server/internal/config"
	"github.com/vovakirdan/wirechess-server/internal/core"
	"github.com/vovakirdan/wirechess-server/internal/proto"
)

// HeaderClientID lets non-browser clients declare a stable identity.
const HeaderClientID = "X-Client-Id"

// WSHandler upgrades HTTP connections and bridges them to core.Client.
type WSHandler struct {
	hub            Broker
	log            *zerolog.Logger
	allowedOrigins []string
	readLimit      int64
	rateLimit      int
	eventBuffer    int

	mu      sync.Mutex
	closed  bool
	closing chan struct{}
	conns   sync.WaitGroup
}

// NewWSHandler builds a new WebSocket handler.
func NewWSHandler(hub Broker, cfg *config.Config, logger *zerolog.Logger) *WSHandler {
	return &WSHandler{
		hub:            hub,
		log:            logger,
		allowedOrigins: cfg.AllowedOrigins,
		readLimit:      cfg.MaxMessageBytes,
		rateLimit:      cfg.RateLimitPerMinute,
		eventBuffer:    cfg.EventBuffer,
		closing:        make(chan struct{}),
	}
}

// Shutdown refuses new upgrades, cancels every live connection and waits for
// them to close or for ctx to expire.
func (h *WSHandler) Shutdown(ctx context.Context) error {
	h.mu.Lock()
	if !h.closed {
		h.closed = true
		close(h.closing)
	}
	h.mu.Unlock()

	done := make(chan struct{})
	go func() {
		h.conns.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// track registers a connection unless shutdown has begun.
func (h *WSHandler) track() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.conns.Add(1)
	return true
}

func (h *WSHandler) acceptOptions() *websocket.AcceptOptions {
	if len(h.allowedOrigins) == 0 || slices.Contains(h.allowedOrigins, "*") {
		return &websocket.AcceptOptions{InsecureSkipVerify: true}
	}
	return &websocket.AcceptOptions{OriginPatterns: h.allowedOrigins}
}

// declaredClientID reads the optional identity a client sends on connect.
func declaredClientID(r *stdhttp.Request) string {
	if id := r.URL.Query().Get("clientId"); id != "" {
		return id
	}
	return r.Header.Get(HeaderClientID)
}

func (h *WSHandler) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	if !h.track() {
		stdhttp.Error(w, "server shutting down", stdhttp.StatusServiceUnavailable)
		return
	}
	defer h.conns.Done()

	ctx := r.Context()

	conn, err := websocket.Accept(w, r, h.acceptOptions())
	if err != nil {
		h.log.Error().Err(err).Msg("ws accept error")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "internal error")
	if h.readLimit > 0 {
		conn.SetReadLimit(h.readLimit)
	}

	client := core.NewClient(uuid.NewString(), declaredClientID(r), h.eventBuffer)
	if err := h.hub.RegisterClient(ctx, client); err != nil {
		h.log.Warn().Err(err).Str("conn_id", client.ID).Msg("register client")
		conn.Close(websocket.StatusTryAgainLater, "server shutting down")
		return
	}
	defer h.hub.UnregisterClient(client)

	h.log.Debug().Str("conn_id", client.ID).Str("client_id", client.ClientID).Msg("ws connected")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	// Cancelling a read drops the socket without a close frame, so shutdown
	// closes with StatusGoingAway first.
	wentAway := make(chan bool, 1)
	go func() {
		select {
		case <-h.closing:
			conn.Close(websocket.StatusGoingAway, "server shutting down")
			cancel()
			wentAway <- true
		case <-ctx.Done():
			wentAway <- false
		}
	}()

	errCh := make(chan error, 2)
	go func() {
		errCh <- h.readLoop(ctx, conn, client)
	}()
	go func() {
		errCh <- h.writeLoop(ctx, conn, client)
	}()

	err = <-errCh
	cancel() // stop the other goroutine
	<-errCh

	if <-wentAway {
		return
	}

	status := websocket.StatusNormalClosure
	reason := "closing"
	if err != nil && !errors.Is(err, context.Canceled) {
		if errors.Is(err, io.EOF) {
			err = nil
		}
		if s := websocket.CloseStatus(err); s != -1 {
			status = s
		}
		if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
			err = nil
		}
		if err != nil {
			if status == websocket.StatusNormalClosure {
				status = websocket.StatusInternalError
			}
			reason = err.Error()
			h.log.Warn().Err(err).Str("conn_id", client.ID).Msg("ws connection closed with error")
		}
	}

	conn.Close(status, reason)
}

func (h *WSHandler) readLoop(ctx context.Context, conn *websocket.Conn, client *core.Client) error {
	limiter := newRateLimiter(h.rateLimit)
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return err
		}

		if !limiter.allow() {
			h.rejectLocal(client, errRateLimited)
			continue
		}

		var inbound proto.Inbound
		if err := json.Unmarshal(data, &inbound); err != nil {
			h.log.Debug().Err(err).Str("conn_id", client.ID).Msg("malformed inbound frame")
			h.rejectLocal(client, errMalformedPayload)
			continue
		}

		cmd, protoErr := inboundToCommand(inbound)
		if protoErr != nil {
			h.log.Debug().Str("conn_id", client.ID).Str("type", inbound.Type).Str("code", protoErr.Code).Msg(protoErr.Message)
			h.rejectLocal(client, protoErr)
			continue
		}
		if err := h.hub.Submit(ctx, client, cmd); err != nil {
			return err
		}
	}
}

// rejectLocal answers a frame the hub never sees.
func (h *WSHandler) rejectLocal(client *core.Client, protoErr *core.CoreError) {
	if !client.Deliver(&core.Event{Kind: core.EventRejected, Error: protoErr}) {
		h.log.Warn().Str("conn_id", client.ID).Msg("event buffer full, dropping rejection")
	}
}

func (h *WSHandler) writeLoop(ctx context.Context, conn *websocket.Conn, client *core.Client) error {
	for {
		select {
		case event, ok := <-client.Events:
			if !ok {
				return nil
			}
			if err := wsjson.Write(ctx, conn, outboundFromEvent(event)); err != nil {
				h.log.Error().Err(err).Str("conn_id", client.ID).Msg("write ws event")
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
