package websocket

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/nfrund/carmasy/internal/middleware"
)

// MessageHandler processes one frame from a client. A non-empty reply is
// sent back to that client only.
type MessageHandler interface {
	HandleMessage(ctx context.Context, client *Client, payload []byte) ([]byte, error)
}

// MessageHandlerFunc adapts a function to MessageHandler.
type MessageHandlerFunc func(ctx context.Context, client *Client, payload []byte) ([]byte, error)

// HandleMessage implements MessageHandler.
func (f MessageHandlerFunc) HandleMessage(ctx context.Context, client *Client, payload []byte) ([]byte, error) {
	return f(ctx, client, payload)
}

// sessionMessage is a push to every client of a session except one.
type sessionMessage struct {
	sessionID string
	exceptID  string
	payload   []byte
}

type clientMessage struct {
	client  *Client
	payload []byte
}

// Bridge owns the live connections, grouped by dashboard session.
type Bridge struct {
	handler        MessageHandler
	originPatterns []string
	logger         *slog.Logger

	// sessions and every client send channel are only touched by Run.
	sessions map[string]map[*Client]struct{}

	register   chan *Client
	unregister chan *Client
	direct     chan sessionMessage
	replies    chan clientMessage
	counts     chan chan int
	done       chan struct{}
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithOriginPatterns allows cross-origin upgrades from hosts matching the
// patterns. By default only same-origin requests are accepted.
func WithOriginPatterns(patterns ...string) Option {
	return func(b *Bridge) {
		b.originPatterns = patterns
	}
}

// NewBridge creates a bridge that passes incoming frames to handler. Run must
// be started before connections are accepted.
func NewBridge(handler MessageHandler, opts ...Option) *Bridge {
	b := &Bridge{
		handler:    handler,
		logger:     slog.Default().With("component", "websocket"),
		sessions:   make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		direct:     make(chan sessionMessage, 64),
		replies:    make(chan clientMessage, 64),
		counts:     make(chan chan int),
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Run manages registrations and routes pushes until ctx is done. It must be
// called once.
func (b *Bridge) Run(ctx context.Context) {
	b.logger.Info("WebSocket bridge started")
	defer close(b.done)
	for {
		select {
		case <-ctx.Done():
			for _, clients := range b.sessions {
				for client := range clients {
					close(client.send)
				}
			}
			b.sessions = make(map[string]map[*Client]struct{})
			b.logger.Info("WebSocket bridge stopped")
			return

		case client := <-b.register:
			clients, ok := b.sessions[client.SessionID]
			if !ok {
				clients = make(map[*Client]struct{})
				b.sessions[client.SessionID] = clients
			}
			clients[client] = struct{}{}
			client.logger.Info("Client registered")

		case client := <-b.unregister:
			clients, ok := b.sessions[client.SessionID]
			if !ok {
				continue
			}
			if _, ok := clients[client]; !ok {
				continue
			}
			delete(clients, client)
			if len(clients) == 0 {
				delete(b.sessions, client.SessionID)
			}
			close(client.send)
			client.logger.Info("Client unregistered")

		case msg := <-b.direct:
			for client := range b.sessions[msg.sessionID] {
				if client.ID == msg.exceptID {
					continue
				}
				client.enqueue(msg.payload)
			}

		case msg := <-b.replies:
			if _, ok := b.sessions[msg.client.SessionID][msg.client]; ok {
				msg.client.enqueue(msg.payload)
			}

		case reply := <-b.counts:
			n := 0
			for _, clients := range b.sessions {
				n += len(clients)
			}
			reply <- n
		}
	}
}

// SendToSession pushes payload to every connection of sessionID except the
// one with id exceptClientID, which may be empty.
func (b *Bridge) SendToSession(sessionID, exceptClientID string, payload []byte) {
	select {
	case b.direct <- sessionMessage{sessionID: sessionID, exceptID: exceptClientID, payload: payload}:
	case <-b.done:
	}
}

func (b *Bridge) reply(client *Client, payload []byte) {
	select {
	case b.replies <- clientMessage{client: client, payload: payload}:
	case <-b.done:
	}
}

func (b *Bridge) leave(client *Client) {
	select {
	case b.unregister <- client:
	case <-b.done:
	}
}

// ClientCount returns the number of open connections.
func (b *Bridge) ClientCount(ctx context.Context) int {
	reply := make(chan int, 1)
	select {
	case b.counts <- reply:
		return <-reply
	case <-ctx.Done():
		return 0
	case <-b.done:
		return 0
	}
}

// Handler upgrades the request and attaches the connection to the caller's
// dashboard session. It needs the DashboardSession middleware.
func (b *Bridge) Handler() echo.HandlerFunc {
	return func(c echo.Context) error {
		sessionID := middleware.SessionID(c)
		if sessionID == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "no dashboard session")
		}

		conn, err := websocket.Accept(c.Response(), c.Request(), &websocket.AcceptOptions{
			OriginPatterns: b.originPatterns,
		})
		if err != nil {
			middleware.FromContext(c.Request().Context()).Warn("Failed to upgrade connection to WebSocket", "error", err)
			// Accept has already written the response.
			return nil
		}

		clientID := uuid.NewString()
		client := &Client{
			ID:        clientID,
			SessionID: sessionID,
			conn:      conn,
			send:      make(chan []byte, sendBuffer),
			bridge:    b,
			logger:    b.logger.With("session_id", sessionID, "client_id", clientID),
		}
		select {
		case b.register <- client:
		case <-b.done:
			conn.Close(websocket.StatusGoingAway, "server shutting down")
			return nil
		}

		// The request context ends when this handler returns; the
		// connection outlives it.
		ctx := context.WithoutCancel(c.Request().Context())
		go client.writePump(ctx)
		client.readPump(ctx)
		return nil
	}
}
