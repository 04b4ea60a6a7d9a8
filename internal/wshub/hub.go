package wshub

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"skyrelay/internal/protocol"
	"skyrelay/internal/relay"
	"skyrelay/internal/rooms"
)

var ErrHubStopped = errors.New("hub stopped")

// Observer receives delivery counters. The metrics package implements it.
type Observer interface {
	CommandHandled(event string)
	Sent(event string)
	Dropped(event string)
	Occupancy(rooms, members, connections int)
}

type nopObserver struct{}

func (nopObserver) CommandHandled(string)   {}
func (nopObserver) Sent(string)             {}
func (nopObserver) Dropped(string)          {}
func (nopObserver) Occupancy(int, int, int) {}

type inbound struct {
	connID string
	cmd    relay.Command
}

// Hub owns every client and is the only goroutine that touches room state.
// Readers hand it commands; Run applies them one at a time.
type Hub struct {
	dispatcher *relay.Dispatcher
	registry   *rooms.Registry
	clients    map[string]*Client

	register   chan *Client
	unregister chan string
	inbound    chan inbound
	queries    chan func()
	done       chan struct{}

	sweepEvery time.Duration
	observer   Observer
	logger     *slog.Logger
}

type Option func(*Hub)

// WithSweep runs the idle-room sweep at the given interval. Zero disables it.
func WithSweep(every time.Duration) Option {
	return func(h *Hub) { h.sweepEvery = every }
}

func WithObserver(o Observer) Option {
	return func(h *Hub) { h.observer = o }
}

func WithLogger(logger *slog.Logger) Option {
	return func(h *Hub) { h.logger = logger }
}

// NewHub wires a hub to the dispatcher and the registry it mutates.
func NewHub(d *relay.Dispatcher, registry *rooms.Registry, opts ...Option) *Hub {
	h := &Hub{
		dispatcher: d,
		registry:   registry,
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan string),
		inbound:    make(chan inbound, 256),
		queries:    make(chan func()),
		done:       make(chan struct{}),
		observer:   nopObserver{},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.logger = h.logger.With("component", "wshub")
	return h
}

// Run processes registrations, commands and queries until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	var sweep <-chan time.Time
	if h.sweepEvery > 0 {
		t := time.NewTicker(h.sweepEvery)
		defer t.Stop()
		sweep = t.C
	}

	for {
		select {
		case <-ctx.Done():
			for id, c := range h.clients {
				close(c.Send)
				delete(h.clients, id)
			}
			h.registry.Close()
			h.logger.Info("hub stopped")
			return
		case c := <-h.register:
			h.clients[c.ID] = c
			h.sendTo(c, protocol.MsgWelcome, protocol.Welcome{ConnectionID: c.ID})
			h.logger.Debug("client connected", "conn", c.ID, "clients", len(h.clients))
		case id := <-h.unregister:
			c, ok := h.clients[id]
			if !ok {
				continue
			}
			delete(h.clients, id)
			close(c.Send)
			h.apply(id, relay.Disconnect{})
			h.logger.Debug("client disconnected", "conn", id, "clients", len(h.clients))
		case in := <-h.inbound:
			if _, ok := h.clients[in.connID]; !ok {
				continue
			}
			h.apply(in.connID, in.cmd)
		case <-sweep:
			h.apply("", relay.Sweep{})
		case q := <-h.queries:
			q()
		}
		h.observer.Occupancy(h.registry.Len(), h.registry.Connections(), len(h.clients))
	}
}

// Done is closed once Run has returned.
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

func (h *Hub) apply(connID string, cmd relay.Command) {
	h.observer.CommandHandled(cmd.Event())
	for _, out := range h.dispatcher.Handle(connID, cmd) {
		h.deliver(out)
	}
}

// deliver encodes once and queues the frame for every recipient that is
// still connected. A full queue drops the frame for that recipient.
func (h *Hub) deliver(out relay.Outbound) {
	frame, err := protocol.Encode(out.Event, out.Payload)
	if err != nil {
		h.logger.Error("encode failed", "event", out.Event, "err", err)
		return
	}
	for _, id := range out.To {
		c, ok := h.clients[id]
		if !ok {
			continue
		}
		h.push(c, out.Event, frame)
	}
}

func (h *Hub) sendTo(c *Client, event string, payload any) {
	frame, err := protocol.Encode(event, payload)
	if err != nil {
		h.logger.Error("encode failed", "event", event, "err", err)
		return
	}
	h.push(c, event, frame)
}

func (h *Hub) push(c *Client, event string, frame []byte) {
	select {
	case c.Send <- frame:
		h.observer.Sent(event)
	default:
		h.observer.Dropped(event)
		h.logger.Warn("send queue full, frame dropped", "conn", c.ID, "event", event)
	}
}

// Register adds a client. It reports false once the hub has stopped.
func (h *Hub) Register(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes a client and runs the disconnect path for it.
func (h *Hub) Unregister(id string) {
	select {
	case h.unregister <- id:
	case <-h.done:
	}
}

// Submit queues a command from connID. It reports false once the hub has
// stopped.
func (h *Hub) Submit(connID string, cmd relay.Command) bool {
	select {
	case h.inbound <- inbound{connID: connID, cmd: cmd}:
		return true
	case <-h.done:
		return false
	}
}

// query runs fn inside the event loop and waits for it to finish.
func (h *Hub) query(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	wrapped := func() {
		fn()
		close(finished)
	}
	select {
	case h.queries <- wrapped:
	case <-h.done:
		return ErrHubStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	<-finished
	return nil
}

// Rooms lists live rooms, read from inside the event loop.
func (h *Hub) Rooms(ctx context.Context) ([]rooms.Summary, error) {
	var list []rooms.Summary
	err := h.query(ctx, func() {
		for _, r := range h.registry.List() {
			list = append(list, r.Summary())
		}
	})
	return list, err
}

// Stats reports the number of live rooms and connected clients.
func (h *Hub) Stats(ctx context.Context) (roomCount, clientCount int, err error) {
	err = h.query(ctx, func() {
		roomCount = h.registry.Len()
		clientCount = len(h.clients)
	})
	return roomCount, clientCount, err
}
