// Package relay owns the room coordination rules: lifecycle, the start
// gate, gameplay relay and contest termination. A Dispatcher is not safe
// for concurrent use; the hub drives it from a single goroutine.
package relay

import (
	"log/slog"
	"time"

	"skyrelay/internal/events"
	"skyrelay/internal/rooms"
)

// Rules bounds the settings a host may choose for a room.
type Rules struct {
	DefaultGameTime   int
	MinGameTime       int
	MaxGameTime       int
	DefaultMaxPlayers int
	MinPlayers        int
	MaxPlayers        int
	// MaxHitPoints caps the points a single hit may claim.
	MaxHitPoints int
	IdleTTL      time.Duration
}

func DefaultRules() Rules {
	return Rules{
		DefaultGameTime:   300,
		MinGameTime:       60,
		MaxGameTime:       1800,
		DefaultMaxPlayers: 6,
		MinPlayers:        2,
		MaxPlayers:        6,
		MaxHitPoints:      1000,
		IdleTTL:           10 * time.Minute,
	}
}

// GameTime resolves a requested duration. Zero or negative selects the
// default, anything else is clamped into range.
func (r Rules) GameTime(requested int) int {
	if requested <= 0 {
		return r.DefaultGameTime
	}
	return min(max(requested, r.MinGameTime), r.MaxGameTime)
}

func (r Rules) Capacity(requested int) int {
	if requested <= 0 {
		return r.DefaultMaxPlayers
	}
	return min(max(requested, r.MinPlayers), r.MaxPlayers)
}

// HitPoints resolves the points claimed by a hit. Zero or negative selects
// defaultPoints, anything else is capped at MaxHitPoints when that is set.
func (r Rules) HitPoints(claimed int) int {
	if claimed <= 0 {
		return defaultPoints
	}
	if r.MaxHitPoints > 0 {
		return min(claimed, r.MaxHitPoints)
	}
	return claimed
}

const maxCodeAttempts = 32

type Dispatcher struct {
	registry *rooms.Registry
	rules    Rules
	bus      *events.Bus
	logger   *slog.Logger
	now      func() time.Time
	newCode  func() (string, error)
}

type Option func(*Dispatcher)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) { d.now = now }
}

// WithCodes replaces the room code generator.
func WithCodes(gen func() (string, error)) Option {
	return func(d *Dispatcher) { d.newCode = gen }
}

// WithBus publishes lifecycle transitions to bus.
func WithBus(bus *events.Bus) Option {
	return func(d *Dispatcher) { d.bus = bus }
}

func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) { d.logger = logger }
}

func New(registry *rooms.Registry, rules Rules, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		registry: registry,
		rules:    rules,
		logger:   slog.Default(),
		now:      time.Now,
		newCode:  rooms.GenerateCode,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.logger = d.logger.With("component", "relay")
	return d
}

// Handle applies cmd on behalf of connID and returns what must be sent.
// Rejections that clients are not told about produce no messages.
func (d *Dispatcher) Handle(connID string, cmd Command) []Outbound {
	switch c := cmd.(type) {
	case CreateRoom:
		return d.createRoom(connID, c)
	case JoinRoom:
		return d.joinRoom(connID, c)
	case LeaveRoom, Disconnect:
		return d.removeMember(connID)
	case ToggleReady:
		return d.toggleReady(connID)
	case StartGame:
		return d.startGame(connID)
	case Move:
		return d.move(connID, c)
	case Shoot:
		return d.shoot(connID, c)
	case SpawnEnemy:
		return d.spawnEnemy(connID, c)
	case Hit:
		return d.hit(connID, c)
	case PlayerHit:
		return d.playerHit(connID)
	case RequestTimer:
		return d.requestTimer(connID)
	case Sweep:
		return d.sweep()
	default:
		d.logger.Warn("unhandled command", "conn", connID, "command", cmd.Event())
		return nil
	}
}

// roomOf resolves the room connID is bound to.
func (d *Dispatcher) roomOf(connID string) (*rooms.Room, error) {
	b, ok := d.registry.Binding(connID)
	if !ok {
		return nil, ErrNotInRoom
	}
	room := d.registry.Get(b.RoomCode)
	if room == nil {
		return nil, ErrRoomNotFound
	}
	return room, nil
}

func (d *Dispatcher) publish(ev events.Event) {
	if d.bus == nil {
		return
	}
	if !d.bus.Publish(ev) {
		d.logger.Warn("lifecycle bus full, event dropped", "kind", ev.Kind, "room", ev.RoomCode)
	}
}

// drop logs a command that was ignored without telling the sender.
func (d *Dispatcher) drop(connID, command string, err error) []Outbound {
	d.logger.Debug("command dropped", "conn", connID, "command", command, "err", err)
	return nil
}
