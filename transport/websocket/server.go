package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-board/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-board/internal/entity"
	"github.com/rocketscienceinc/tictactoe-board/internal/tictactoe"
)

const shutdownTimeout = 5 * time.Second

type uSession interface {
	PlaceMark(ctx context.Context, coordinate entity.Coordinate) (entity.Snapshot, bool, error)
	Reset(ctx context.Context) (entity.Snapshot, error)
	Subscribe(observer tictactoe.Observer) func()
}

type Server struct {
	logger   *slog.Logger
	uSession uSession
	upgrader websocket.Upgrader

	handlers map[string]func(ctx context.Context, message *Message, c *client) error
}

func New(logger *slog.Logger, uSession uSession) *Server {
	server := &Server{
		logger:   logger.With("component", "websocket"),
		uSession: uSession,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// the board is served to a browser on the same device
			CheckOrigin: func(*http.Request) bool { return true },
		},
		handlers: make(map[string]func(context.Context, *Message, *client) error),
	}

	server.handlers[actionMark] = server.handleMark
	server.handlers[actionReset] = server.handleReset

	return server
}

func (that *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", that.handleConnection)

	return mux
}

// Start - starts WebSocket server and stops it when the context is canceled.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:        ":" + port,
		Handler:     that.Handler(),
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 30 * time.Second,
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shut down server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

func (that *Server) handleConnection(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "handleConnection", "remote", r.RemoteAddr)

	conn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}
	defer conn.Close()

	log.Info("WebSocket connection established")

	c := newClient(conn)
	unsubscribe := that.uSession.Subscribe(c.push)
	defer unsubscribe()

	writeErr := make(chan error, 1)
	go func() {
		writeErr <- c.writeLoop()
	}()

	// hijacked connections are not closed by Shutdown
	go func() {
		select {
		case <-r.Context().Done():
			_ = conn.Close()
		case <-c.done:
		}
	}()

	if err = that.readLoop(r.Context(), c); err != nil {
		log.Debug("connection closed", "reason", err)
	}

	close(c.done)
	if err = <-writeErr; err != nil {
		log.Debug("write loop stopped", "error", err)
	}
}

// readLoop processes messages from the client until the connection fails or closes.
func (that *Server) readLoop(ctx context.Context, c *client) error {
	log := that.logger.With("method", "readLoop")

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		messageType, data, err := c.conn.ReadMessage()
		if err != nil {
			return err
		}

		if messageType != websocket.TextMessage {
			continue
		}

		var message Message
		if err = json.Unmarshal(data, &message); err != nil {
			that.sendError(c, "malformed message")
			continue
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			that.sendError(c, fmt.Sprintf("%s: %q", apperror.ErrUnknownAction, message.Action))
			continue
		}

		if err = handler(ctx, &message, c); err != nil {
			log.Error("error processing message", "action", message.Action, "error", err)
		}
	}
}

// handleMark forwards a move; accepted moves reach every client through the subscription and
// rejected ones change nothing, so there is no direct reply on success.
func (that *Server) handleMark(ctx context.Context, message *Message, c *client) error {
	var payload markPayload
	if err := json.Unmarshal(message.Payload, &payload); err != nil || payload.Row == nil || payload.Column == nil {
		that.sendError(c, "row and column are required")
		return nil
	}

	coordinate := entity.Coordinate{Row: *payload.Row, Column: *payload.Column}

	_, _, err := that.uSession.PlaceMark(ctx, coordinate)
	if errors.Is(err, apperror.ErrInvalidCoordinate) {
		that.sendError(c, err.Error())
		return nil
	}

	if err != nil {
		that.sendError(c, "failed to place mark")
		return fmt.Errorf("failed to place mark: %w", err)
	}

	return nil
}

func (that *Server) handleReset(ctx context.Context, _ *Message, c *client) error {
	if _, err := that.uSession.Reset(ctx); err != nil {
		that.sendError(c, "failed to reset game")
		return fmt.Errorf("failed to reset game: %w", err)
	}

	return nil
}

func (that *Server) sendError(c *client, text string) {
	message, err := newMessage(actionError, errorPayload{Error: text})
	if err != nil {
		that.logger.Error("failed to build error message", "error", err)
		return
	}

	c.reply(message)
}
