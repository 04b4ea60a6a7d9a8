package wshub

import (
	"net/http"

	"github.com/coder/websocket"
	"github.com/google/uuid"
)

// ServeWS upgrades the request and runs the connection until it closes.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		h.logger.Warn("websocket accept failed", "remote", r.RemoteAddr, "err", err)
		return
	}
	defer conn.CloseNow()

	c := NewClient(uuid.NewString(), conn)
	if !h.Register(c) {
		_ = conn.Close(websocket.StatusGoingAway, "server shutting down")
		return
	}

	ctx := r.Context()
	go c.WritePump(ctx)
	c.ReadPump(ctx, h, h.logger)
	h.Unregister(c.ID)
}
