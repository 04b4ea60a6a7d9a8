package wshub

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/coder/websocket"

	"skyrelay/internal/protocol"
)

const (
	sendBuffer   = 64
	writeTimeout = 10 * time.Second
)

// Client is one WebSocket connection registered with the hub.
type Client struct {
	ID   string
	Conn *websocket.Conn
	Send chan []byte
}

func NewClient(id string, conn *websocket.Conn) *Client {
	return &Client{
		ID:   id,
		Conn: conn,
		Send: make(chan []byte, sendBuffer),
	}
}

// WritePump drains Send to the connection until Send is closed or ctx ends.
func (c *Client) WritePump(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-c.Send:
			if !ok {
				_ = c.Conn.Close(websocket.StatusNormalClosure, "")
				return
			}
			wctx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := c.Conn.Write(wctx, websocket.MessageText, msg)
			cancel()
			if err != nil {
				return
			}
		}
	}
}

// ReadPump decodes frames into commands for the hub. It returns when the
// connection fails; the caller turns that into a single unregister.
func (c *Client) ReadPump(ctx context.Context, h *Hub, logger *slog.Logger) {
	c.Conn.SetReadLimit(protocol.MaxFrameSize)
	for {
		typ, frame, err := c.Conn.Read(ctx)
		if err != nil {
			if status := websocket.CloseStatus(err); status == -1 && !errors.Is(err, context.Canceled) {
				logger.Debug("read failed", "conn", c.ID, "err", err)
			}
			return
		}
		if typ != websocket.MessageText {
			logger.Debug("binary frame ignored", "conn", c.ID)
			continue
		}
		cmd, err := Decode(frame)
		if err != nil {
			logger.Debug("frame dropped", "conn", c.ID, "err", err)
			continue
		}
		if !h.Submit(c.ID, cmd) {
			return
		}
	}
}
