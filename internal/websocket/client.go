package websocket

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/coder/websocket"
)

const (
	sendBuffer   = 32
	writeTimeout = 10 * time.Second
	pingInterval = 30 * time.Second
)

// Client is one live connection. A dashboard session may have several, one
// per open tab.
type Client struct {
	// ID identifies this connection.
	ID string
	// SessionID is the dashboard session the connection belongs to.
	SessionID string

	conn   *websocket.Conn
	send   chan []byte
	bridge *Bridge
	logger *slog.Logger
}

// enqueue hands msg to the writer without blocking; a slow client loses
// messages. Only the bridge's Run loop calls it.
func (c *Client) enqueue(msg []byte) {
	select {
	case c.send <- msg:
	default:
		c.logger.Warn("Client send channel full, dropping message")
	}
}

// readPump passes each text frame to the bridge's handler and queues the
// reply for this client. It returns when the connection fails or ctx ends.
func (c *Client) readPump(ctx context.Context) {
	defer func() {
		c.bridge.leave(c)
		c.conn.Close(websocket.StatusNormalClosure, "client disconnected")
	}()

	for {
		_, payload, err := c.conn.Read(ctx)
		if err != nil {
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				c.logger.Info("WebSocket closed by client")
			default:
				if !errors.Is(err, context.Canceled) {
					c.logger.Debug("WebSocket read ended", "error", err)
				}
			}
			return
		}

		if c.bridge.handler == nil {
			continue
		}
		reply, err := c.bridge.handler.HandleMessage(ctx, c, payload)
		if err != nil {
			c.logger.Warn("Rejected WebSocket message", "error", err)
		}
		if len(reply) > 0 {
			c.bridge.reply(c, reply)
		}
	}
}

// writePump drains the send channel onto the connection and keeps it alive
// with pings. It exits when the bridge closes the channel.
func (c *Client) writePump(ctx context.Context) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close(websocket.StatusNormalClosure, "server-side cleanup")
	}()

	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				return
			}
			writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := c.conn.Write(writeCtx, websocket.MessageText, message)
			cancel()
			if err != nil {
				c.logger.Debug("WebSocket write error", "error", err)
				return
			}
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := c.conn.Ping(pingCtx)
			cancel()
			if err != nil {
				c.logger.Debug("WebSocket ping failed", "error", err)
				return
			}
		case <-ctx.Done():
			return
		}
	}
}
