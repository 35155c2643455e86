package http

import (
	"context"
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/wirechess-server/internal/config"
	"github.com/vovakirdan/wirechess-server/internal/core"
)

// Broker is the part of the session hub the transport depends on.
type Broker interface {
	RegisterClient(ctx context.Context, c *core.Client) error
	UnregisterClient(c *core.Client)
	Submit(ctx context.Context, c *core.Client, cmd core.Command) error
	Rooms(ctx context.Context) ([]core.RoomSummary, error)
	Room(ctx context.Context, roomID string) (core.RoomSummary, error)
}

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Server is the HTTP server plus the websocket connections it hijacked,
// which net/http does not track across Shutdown.
type Server struct {
	*stdhttp.Server
	ws *WSHandler
}

// NewServer builds an HTTP server with the health, websocket and room routes.
// /ws is served outside gin; gin's response writer cannot be hijacked once
// the upgrade response is written.
func NewServer(hub Broker, cfg *config.Config, logger *zerolog.Logger) *Server {
	router := gin.New()
	router.Use(RecoveryMiddleware(logger))
	router.Use(LoggerMiddleware(logger))
	router.Use(CORSMiddleware(cfg.AllowedOrigins))
	router.Use(IsolationHeadersMiddleware())

	router.GET("/health", healthHandler)

	rooms := NewRoomHandlers(hub, logger)
	api := router.Group("/api")
	api.GET("/rooms", rooms.ListRooms)
	api.GET("/rooms/:id", rooms.GetRoom)

	ws := NewWSHandler(hub, cfg, logger)
	mux := stdhttp.NewServeMux()
	mux.Handle("/ws", ws)
	mux.Handle("/", router)

	return &Server{
		Server: &stdhttp.Server{
			Addr:              cfg.Addr,
			Handler:           mux,
			ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		},
		ws: ws,
	}
}

// Shutdown stops accepting requests, then closes live websocket connections
// with StatusGoingAway and waits for their loops to finish.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.Server.Shutdown(ctx)
	if wsErr := s.ws.Shutdown(ctx); err == nil {
		err = wsErr
	}
	return err
}

func healthHandler(c *gin.Context) {
	c.JSON(stdhttp.StatusOK, gin.H{"ok": true})
}
